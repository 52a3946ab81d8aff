package crawler

import (
	"sjsage522/bookworker/config"
	"sjsage522/bookworker/helpers"
)

// CreateCrawler creates the catalog crawler described by the configuration
func CreateCrawler(cfg config.Config, onPage PageHook) Crawler {
	c := NewCatalogCrawler(CrawlerConfig{
		BaseURL:   cfg.CatalogBaseURL,
		PageCount: cfg.PageCount,
		MaxPages:  cfg.MaxPages,
		Selectors: DefaultSelectors,
		OnPage:    onPage,
	}, helpers.NewFetcher(cfg.HTTPTimeout))

	c.log.Debug().
		Str("base_url", c.BaseURL).
		Int("page_count", c.PageCount).
		Int("max_pages", c.MaxPages).
		Msg("Created catalog crawler")
	return c
}
