package dashboard

import (
	"testing"

	"sjsage522/bookworker/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() []catalog.Book {
	return []catalog.Book{
		{Title: "the grand design", Rating: 3, Price: 13.76, Availability: true},
		{Title: "A Light in the Attic", Rating: 3, Price: 51.77, Availability: true},
		{Title: "sapiens", Rating: 5, Price: 54.23, Availability: false},
		{Title: "Tipping the Velvet", Rating: 1, Price: 53.74, Availability: true},
		{Title: "Soumission", Rating: 1, Price: 50.10, Availability: true},
	}
}

func TestSummarize(t *testing.T) {
	books := []catalog.Book{
		{Title: "Book A", Rating: 3, Price: 51.77, Availability: true},
		{Title: "Book B", Rating: 1, Price: 10.00, Availability: false},
	}

	s := Summarize(books)
	assert.False(t, s.Empty)
	assert.Equal(t, 2, s.Total)
	assert.InDelta(t, 30.885, s.AveragePrice, 1e-9)
	assert.Equal(t, 30.89, s.RoundedAveragePrice())
	assert.Equal(t, "Book A", s.MostExpensiveTitle)
}

func TestSummarizeTiesKeepFirst(t *testing.T) {
	books := []catalog.Book{
		{Title: "First", Price: 20},
		{Title: "Second", Price: 20},
	}
	assert.Equal(t, "First", Summarize(books).MostExpensiveTitle)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.Empty)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.MostExpensiveTitle)
}

func TestParseSortMode(t *testing.T) {
	mode, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortTitleAsc, mode)

	mode, err = ParseSortMode("price_desc")
	require.NoError(t, err)
	assert.Equal(t, SortPriceDesc, mode)
	assert.Equal(t, "Price (High-Low)", mode.Label())

	_, err = ParseSortMode("colour")
	assert.Error(t, err)
}

func TestSortModeLabels(t *testing.T) {
	var labels []string
	for _, m := range SortModes {
		labels = append(labels, m.Label())
	}
	assert.Equal(t, []string{
		"Title (A-Z)", "Title (Z-A)",
		"Rating (Low-High)", "Rating (High-Low)",
		"Price (Low-High)", "Price (High-Low)",
	}, labels)
}

func titles(books []catalog.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestSortByTitle(t *testing.T) {
	table := sampleTable()

	asc := Sort(table, SortTitleAsc)
	assert.Equal(t, []string{
		"A light in the attic", "Sapiens", "Soumission", "The grand design", "Tipping the velvet",
	}, titles(asc))

	desc := Sort(table, SortTitleDesc)
	assert.Equal(t, []string{
		"Tipping the velvet", "The grand design", "Soumission", "Sapiens", "A light in the attic",
	}, titles(desc))

	// Source table keeps its original titles
	assert.Equal(t, "the grand design", table[0].Title)
}

func TestSortByPriceReverses(t *testing.T) {
	table := sampleTable()

	asc := Sort(table, SortPriceAsc)
	desc := Sort(table, SortPriceDesc)
	require.Len(t, desc, len(asc))

	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
	assert.Equal(t, 13.76, asc[0].Price)
	assert.Equal(t, 54.23, desc[0].Price)
}

func TestSortByRatingIsStable(t *testing.T) {
	table := sampleTable()

	asc := Sort(table, SortRatingAsc)
	assert.Equal(t, []string{
		"Tipping the Velvet", "Soumission", "the grand design", "A Light in the Attic", "sapiens",
	}, titles(asc))

	desc := Sort(table, SortRatingDesc)
	assert.Equal(t, []string{
		"sapiens", "the grand design", "A Light in the Attic", "Tipping the Velvet", "Soumission",
	}, titles(desc))
}

func TestFilter(t *testing.T) {
	table := sampleTable()
	r, ok := ObservedRange(table)
	require.True(t, ok)
	assert.Equal(t, PriceRange{Min: 13.76, Max: 54.23}, r)

	// Inclusive bounds at the observed range return every row
	assert.Equal(t, table, Filter(table, r))

	got := Filter(table, PriceRange{Min: 50.10, Max: 53.74})
	assert.Equal(t, []string{"A Light in the Attic", "Tipping the Velvet", "Soumission"}, titles(got))

	assert.Empty(t, Filter(table, PriceRange{Min: 60, Max: 70}))
}

func TestObservedRangeEmpty(t *testing.T) {
	_, ok := ObservedRange(nil)
	assert.False(t, ok)
}
