package crawler

import (
	"context"
	"fmt"
	"io"
	"strings"

	"sjsage522/bookworker/helpers"
	"sjsage522/bookworker/logger"

	"github.com/PuerkitoBio/goquery"
)

// FetchFunc retrieves a page body as UTF-8
type FetchFunc func(ctx context.Context, url string) (io.Reader, error)

// BaseCrawler provides the fetch and parse steps shared by crawlers
type BaseCrawler struct {
	BaseURL   string
	fetchFunc FetchFunc
	log       *logger.Logger
}

// fetchDocument fetches url and parses it into a goquery document
func (c *BaseCrawler) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.fetchFunc(ctx, url)
	if err != nil {
		return nil, err
	}
	return c.createDocument(body)
}

// createDocument creates a goquery document from a reader
func (c *BaseCrawler) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %v", err)
	}
	return doc, nil
}

// ResolveURL joins a path onto the base URL
func (c *BaseCrawler) ResolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func defaultFetchFunc(fetcher *helpers.Fetcher) FetchFunc {
	return fetcher.FetchWithRandomHeaders
}
