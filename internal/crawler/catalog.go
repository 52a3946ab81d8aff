package crawler

import (
	"context"
	"fmt"
	"strings"

	"sjsage522/bookworker/helpers"
	"sjsage522/bookworker/internal/catalog"
	"sjsage522/bookworker/logger"
	"sjsage522/bookworker/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

const stage = "crawler"

// CatalogCrawler walks the paginated catalog listing one page at a time
type CatalogCrawler struct {
	BaseCrawler
	PageCount int
	MaxPages  int
	Selectors Selectors
	onPage    PageHook
}

// NewCatalogCrawler creates a catalog crawler that fetches through fetcher
func NewCatalogCrawler(config CrawlerConfig, fetcher *helpers.Fetcher) *CatalogCrawler {
	selectors := config.Selectors
	if selectors == (Selectors{}) {
		selectors = DefaultSelectors
	}

	return &CatalogCrawler{
		BaseCrawler: BaseCrawler{
			BaseURL:   config.BaseURL,
			fetchFunc: defaultFetchFunc(fetcher),
			log:       logger.ForCrawler(),
		},
		PageCount: config.PageCount,
		MaxPages:  config.MaxPages,
		Selectors: selectors,
		onPage:    config.OnPage,
	}
}

// GetName returns the crawler's name
func (c *CatalogCrawler) GetName() string {
	return "CatalogCrawler"
}

// PageURL returns the listing URL of the 1-based page index
func (c *CatalogCrawler) PageURL(page int) string {
	return c.ResolveURL(fmt.Sprintf("catalogue/page-%d.html", page))
}

// FetchBooks fetches pages sequentially and returns every entry in order.
// Any failed page aborts the run.
func (c *CatalogCrawler) FetchBooks(ctx context.Context) ([]catalog.RawBook, error) {
	discover := c.PageCount == 0
	last := c.PageCount
	if discover {
		last = c.MaxPages
	}

	var books []catalog.RawBook
	for page := 1; page <= last; page++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewFetch(stage, fmt.Sprintf("page %d", page), err)
		}

		entries, err := c.FetchPage(ctx, page)
		if discover && page > 1 && isCatalogEnd(err, entries) {
			c.log.Info().
				Int("pages", page-1).
				Msg("Reached end of catalog")
			return books, nil
		}
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, errors.NewSelector(stage, fmt.Sprintf("page %d: no %q entries", page, c.Selectors.Entry))
		}

		if c.onPage != nil {
			c.onPage(page, len(entries))
		}
		c.log.Debug().
			Int("page", page).
			Int("entries", len(entries)).
			Msg("Parsed catalog page")

		books = append(books, entries...)
	}

	if discover {
		c.log.Warn().
			Int("max_pages", c.MaxPages).
			Msg("Stopped at page cap before the catalog ended")
	}
	return books, nil
}

// FetchPage fetches and parses one listing page. A page without entries
// yields an empty slice and no error.
func (c *CatalogCrawler) FetchPage(ctx context.Context, page int) ([]catalog.RawBook, error) {
	url := c.PageURL(page)

	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, errors.NewFetch(stage, fmt.Sprintf("page %d", page), err)
	}

	var (
		books   []catalog.RawBook
		pageErr error
	)
	doc.Find(c.Selectors.Entry).EachWithBreak(func(i int, s *goquery.Selection) bool {
		book, err := c.processEntry(s)
		if err != nil {
			pageErr = errors.NewSelector(stage, fmt.Sprintf("page %d entry %d: %s", page, i+1, err.Error()))
			return false
		}
		books = append(books, book)
		return true
	})
	if pageErr != nil {
		return nil, pageErr
	}

	return books, nil
}

// processEntry extracts the four raw fields of a single catalog entry
func (c *CatalogCrawler) processEntry(s *goquery.Selection) (catalog.RawBook, error) {
	titleSel := s.Find(c.Selectors.Title).First()
	if titleSel.Length() == 0 {
		return catalog.RawBook{}, fmt.Errorf("missing title element %q", c.Selectors.Title)
	}
	title, exists := titleSel.Attr("title")
	if !exists || strings.TrimSpace(title) == "" {
		return catalog.RawBook{}, fmt.Errorf("title element has no title attribute")
	}

	ratingSel := s.Find(c.Selectors.Rating).First()
	if ratingSel.Length() == 0 {
		return catalog.RawBook{}, fmt.Errorf("missing rating element %q", c.Selectors.Rating)
	}
	class, _ := ratingSel.Attr("class")
	rating, err := helpers.GetSplitPart(strings.Join(strings.Fields(class), " "), " ", 1)
	if err != nil {
		return catalog.RawBook{}, fmt.Errorf("rating element has no rating class: %q", class)
	}

	priceSel := s.Find(c.Selectors.Price).First()
	if priceSel.Length() == 0 {
		return catalog.RawBook{}, fmt.Errorf("missing price element %q", c.Selectors.Price)
	}

	availabilitySel := s.Find(c.Selectors.Availability).First()
	if availabilitySel.Length() == 0 {
		return catalog.RawBook{}, fmt.Errorf("missing availability element %q", c.Selectors.Availability)
	}

	return catalog.RawBook{
		Title:        title,
		Rating:       rating,
		Price:        strings.TrimSpace(priceSel.Text()),
		Availability: strings.TrimSpace(availabilitySel.Text()),
	}, nil
}

// isCatalogEnd reports whether a page result marks the discovered boundary
func isCatalogEnd(err error, entries []catalog.RawBook) bool {
	if err != nil {
		if pe, ok := err.(*errors.PipelineError); ok && pe.Type == errors.ErrorTypeFetch {
			return helpers.IsNotFound(pe.Err)
		}
		return false
	}
	return len(entries) == 0
}
