package crawler

import (
	"context"

	"sjsage522/bookworker/internal/catalog"
)

// Crawler interface defines the contract for catalog extractors
type Crawler interface {
	// FetchBooks retrieves every catalog entry in page order, then on-page order
	FetchBooks(ctx context.Context) ([]catalog.RawBook, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string
}

// PageHook is called after each page is parsed with the number of entries found
type PageHook func(page int, entries int)

// Selectors contains CSS selectors for the parts of a catalog entry
type Selectors struct {
	Entry        string
	Title        string
	Rating       string
	Price        string
	Availability string
}

// DefaultSelectors matches the books.toscrape.com listing markup
var DefaultSelectors = Selectors{
	Entry:        "article.product_pod",
	Title:        "h3 a",
	Rating:       "p.star-rating",
	Price:        "p.price_color",
	Availability: "p.instock.availability",
}

// CrawlerConfig contains configuration for a catalog crawler
type CrawlerConfig struct {
	BaseURL string
	// PageCount fixes the number of pages; 0 walks until the catalog ends
	PageCount int
	MaxPages  int
	Selectors Selectors
	OnPage    PageHook
}
