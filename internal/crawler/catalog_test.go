package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sjsage522/bookworker/helpers"
	"sjsage522/bookworker/internal/catalog"
	"sjsage522/bookworker/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entryTemplate = `
<article class="product_pod">
    <div class="image_container"><a href="a/index.html"><img src="a.jpg" alt="%[1]s" class="thumbnail"></a></div>
    <p class="star-rating %[2]s"><i class="icon-star"></i></p>
    <h3><a href="a/index.html" title="%[1]s">%[1]s...</a></h3>
    <div class="product_price">
        <p class="price_color">%[3]s</p>
        <p class="instock availability">
            <i class="icon-ok"></i>
            %[4]s
        </p>
    </div>
</article>`

func renderPage(books ...catalog.RawBook) string {
	var sb strings.Builder
	sb.WriteString(`<html><head><meta charset="utf-8"></head><body><ol class="row">`)
	for _, b := range books {
		sb.WriteString("<li>")
		sb.WriteString(fmt.Sprintf(entryTemplate, b.Title, b.Rating, b.Price, b.Availability))
		sb.WriteString("</li>")
	}
	sb.WriteString(`</ol></body></html>`)
	return sb.String()
}

// newCatalogServer serves pages keyed by their 1-based index; others 404
func newCatalogServer(t *testing.T, pages map[int]string) (*httptest.Server, *[]string) {
	t.Helper()
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		var page int
		if _, err := fmt.Sscanf(r.URL.Path, "/catalogue/page-%d.html", &page); err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, ok := pages[page]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &requested
}

var (
	bookA = catalog.RawBook{Title: "Book A", Rating: "Three", Price: "£51.77", Availability: "In stock"}
	bookB = catalog.RawBook{Title: "Book B", Rating: "One", Price: "£10.00", Availability: "Not available"}
	bookC = catalog.RawBook{Title: "Book C", Rating: "Five", Price: "£22.65", Availability: "In stock"}
)

func TestCatalogCrawler_FixedPageCount(t *testing.T) {
	server, requested := newCatalogServer(t, map[int]string{
		1: renderPage(bookA, bookB),
		2: renderPage(bookC),
		3: renderPage(bookA),
	})

	var hooked []int
	crawler := NewCatalogCrawler(CrawlerConfig{
		BaseURL:   server.URL,
		PageCount: 2,
		MaxPages:  50,
		OnPage:    func(page, entries int) { hooked = append(hooked, entries) },
	}, helpers.NewFetcher(5*time.Second))

	books, err := crawler.FetchBooks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []catalog.RawBook{bookA, bookB, bookC}, books)
	assert.Equal(t, []string{"/catalogue/page-1.html", "/catalogue/page-2.html"}, *requested)
	assert.Equal(t, []int{2, 1}, hooked)
}

func TestCatalogCrawler_FixedPageCountMissingPage(t *testing.T) {
	server, _ := newCatalogServer(t, map[int]string{
		1: renderPage(bookA),
	})

	crawler := NewCatalogCrawler(CrawlerConfig{
		BaseURL:   server.URL,
		PageCount: 2,
		MaxPages:  50,
	}, helpers.NewFetcher(5*time.Second))

	books, err := crawler.FetchBooks(context.Background())
	assert.Nil(t, books)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFetch))
	assert.Contains(t, err.Error(), "page 2")
}

func TestCatalogCrawler_DiscoversBoundaryOn404(t *testing.T) {
	server, requested := newCatalogServer(t, map[int]string{
		1: renderPage(bookA),
		2: renderPage(bookB),
		3: renderPage(bookC),
	})

	crawler := NewCatalogCrawler(CrawlerConfig{
		BaseURL:  server.URL,
		MaxPages: 50,
	}, helpers.NewFetcher(5*time.Second))

	books, err := crawler.FetchBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.RawBook{bookA, bookB, bookC}, books)
	assert.Len(t, *requested, 4)
}

func TestCatalogCrawler_DiscoversBoundaryOnEmptyPage(t *testing.T) {
	server, _ := newCatalogServer(t, map[int]string{
		1: renderPage(bookA, bookB),
		2: renderPage(),
		3: renderPage(bookC),
	})

	crawler := NewCatalogCrawler(CrawlerConfig{
		BaseURL:  server.URL,
		MaxPages: 50,
	}, helpers.NewFetcher(5*time.Second))

	books, err := crawler.FetchBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.RawBook{bookA, bookB}, books)
}

func TestCatalogCrawler_DiscoveryStopsAtCap(t *testing.T) {
	server, requested := newCatalogServer(t, map[int]string{
		1: renderPage(bookA),
		2: renderPage(bookB),
		3: renderPage(bookC),
	})

	crawler := NewCatalogCrawler(CrawlerConfig{
		BaseURL:  server.URL,
		MaxPages: 2,
	}, helpers.NewFetcher(5*time.Second))

	books, err := crawler.FetchBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.RawBook{bookA, bookB}, books)
	assert.Len(t, *requested, 2)
}

func TestCatalogCrawler_FirstPageMustHaveEntries(t *testing.T) {
	server, _ := newCatalogServer(t, map[int]string{
		1: renderPage(),
	})

	crawler := NewCatalogCrawler(CrawlerConfig{
		BaseURL:  server.URL,
		MaxPages: 50,
	}, helpers.NewFetcher(5*time.Second))

	_, err := crawler.FetchBooks(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeSelector))
}

func TestCatalogCrawler_ServerErrorIsFatalWhileDiscovering(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/catalogue/page-1.html" {
			w.Write([]byte(renderPage(bookA)))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	crawler := NewCatalogCrawler(CrawlerConfig{
		BaseURL:  server.URL,
		MaxPages: 50,
	}, helpers.NewFetcher(5*time.Second))

	_, err := crawler.FetchBooks(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeFetch))
	assert.Contains(t, err.Error(), "500")
}

func TestCatalogCrawler_SelectorMiss(t *testing.T) {
	testCases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "missing price",
			html: `<article class="product_pod"><p class="star-rating One"></p><h3><a title="X">X</a></h3><p class="instock availability">In stock</p></article>`,
			want: "missing price element",
		},
		{
			name: "missing title attribute",
			html: `<article class="product_pod"><p class="star-rating One"></p><h3><a>X</a></h3><p class="price_color">£1.00</p><p class="instock availability">In stock</p></article>`,
			want: "no title attribute",
		},
		{
			name: "missing rating word",
			html: `<article class="product_pod"><p class="star-rating"></p><h3><a title="X">X</a></h3><p class="price_color">£1.00</p><p class="instock availability">In stock</p></article>`,
			want: "no rating class",
		},
		{
			name: "missing availability",
			html: `<article class="product_pod"><p class="star-rating Two"></p><h3><a title="X">X</a></h3><p class="price_color">£1.00</p></article>`,
			want: "missing availability element",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			crawler := NewCatalogCrawler(CrawlerConfig{BaseURL: "https://example.com", PageCount: 1, MaxPages: 1}, nil)
			crawler.fetchFunc = func(ctx context.Context, url string) (io.Reader, error) {
				return strings.NewReader("<html><body>" + tc.html + "</body></html>"), nil
			}

			_, err := crawler.FetchBooks(context.Background())
			assert.True(t, errors.IsType(err, errors.ErrorTypeSelector))
			assert.Contains(t, err.Error(), tc.want)
			assert.Contains(t, err.Error(), "page 1 entry 1")
		})
	}
}

func TestCatalogCrawler_UnrecognizedRatingPassesThrough(t *testing.T) {
	odd := catalog.RawBook{Title: "Odd", Rating: "Zero", Price: "£3.00", Availability: "In stock"}
	crawler := NewCatalogCrawler(CrawlerConfig{BaseURL: "https://example.com", PageCount: 1, MaxPages: 1}, nil)
	crawler.fetchFunc = func(ctx context.Context, url string) (io.Reader, error) {
		return strings.NewReader(renderPage(odd)), nil
	}

	books, err := crawler.FetchBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.RawBook{odd}, books)
}

func TestCatalogCrawler_PageURL(t *testing.T) {
	for _, base := range []string{"https://books.toscrape.com", "https://books.toscrape.com/"} {
		crawler := NewCatalogCrawler(CrawlerConfig{BaseURL: base, MaxPages: 1}, nil)
		assert.Equal(t, "https://books.toscrape.com/catalogue/page-7.html", crawler.PageURL(7))
	}
}
