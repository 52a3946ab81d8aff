package dashboard

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"sjsage522/bookworker/helpers"
	"sjsage522/bookworker/internal/catalog"
)

// SortMode selects the ordering of the table view
type SortMode string

const (
	SortTitleAsc    SortMode = "title_asc"
	SortTitleDesc   SortMode = "title_desc"
	SortRatingAsc   SortMode = "rating_asc"
	SortRatingDesc  SortMode = "rating_desc"
	SortPriceAsc    SortMode = "price_asc"
	SortPriceDesc   SortMode = "price_desc"
	DefaultSortMode          = SortTitleAsc
)

// SortModes lists every mode in menu order
var SortModes = []SortMode{SortTitleAsc, SortTitleDesc, SortRatingAsc, SortRatingDesc, SortPriceAsc, SortPriceDesc}

var sortLabels = map[SortMode]string{
	SortTitleAsc:   "Title (A-Z)",
	SortTitleDesc:  "Title (Z-A)",
	SortRatingAsc:  "Rating (Low-High)",
	SortRatingDesc: "Rating (High-Low)",
	SortPriceAsc:   "Price (Low-High)",
	SortPriceDesc:  "Price (High-Low)",
}

// Label returns the menu text of the mode
func (m SortMode) Label() string {
	return sortLabels[m]
}

// ParseSortMode accepts a mode value; empty selects the default
func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return DefaultSortMode, nil
	}
	mode := SortMode(s)
	if _, ok := sortLabels[mode]; !ok {
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
	return mode, nil
}

// Summary holds the KPI values over the full table
type Summary struct {
	Total              int     `json:"total"`
	AveragePrice       float64 `json:"average_price"`
	MostExpensiveTitle string  `json:"most_expensive_title"`
	Empty              bool    `json:"empty"`
}

// Summarize computes the KPIs; an empty table yields Empty and zero values
func Summarize(books []catalog.Book) Summary {
	if len(books) == 0 {
		return Summary{Empty: true}
	}

	var sum float64
	top := 0
	for i, b := range books {
		sum += b.Price
		if b.Price > books[top].Price {
			top = i
		}
	}

	return Summary{
		Total:              len(books),
		AveragePrice:       sum / float64(len(books)),
		MostExpensiveTitle: books[top].Title,
	}
}

// RoundedAveragePrice is the average rounded to two decimals
func (s Summary) RoundedAveragePrice() float64 {
	return math.Round(s.AveragePrice*100) / 100
}

// Sort returns a stably sorted copy. Title modes compare and return
// capitalized titles.
func Sort(books []catalog.Book, mode SortMode) []catalog.Book {
	sorted := slices.Clone(books)

	var cmp func(a, b catalog.Book) int
	switch mode {
	case SortTitleAsc, SortTitleDesc:
		for i := range sorted {
			sorted[i].Title = helpers.Capitalize(sorted[i].Title)
		}
		cmp = func(a, b catalog.Book) int { return strings.Compare(a.Title, b.Title) }
	case SortRatingAsc, SortRatingDesc:
		cmp = func(a, b catalog.Book) int { return a.Rating - b.Rating }
	case SortPriceAsc, SortPriceDesc:
		cmp = func(a, b catalog.Book) int {
			switch {
			case a.Price < b.Price:
				return -1
			case a.Price > b.Price:
				return 1
			}
			return 0
		}
	default:
		return sorted
	}

	if mode == SortTitleDesc || mode == SortRatingDesc || mode == SortPriceDesc {
		asc := cmp
		cmp = func(a, b catalog.Book) int { return asc(b, a) }
	}

	slices.SortStableFunc(sorted, cmp)
	return sorted
}

// PriceRange is an inclusive price interval
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies within the inclusive bounds
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// ObservedRange returns [min,max] of the table; false when it is empty
func ObservedRange(books []catalog.Book) (PriceRange, bool) {
	if len(books) == 0 {
		return PriceRange{}, false
	}
	r := PriceRange{Min: books[0].Price, Max: books[0].Price}
	for _, b := range books[1:] {
		r.Min = math.Min(r.Min, b.Price)
		r.Max = math.Max(r.Max, b.Price)
	}
	return r, true
}

// Filter returns the books whose price lies in r, keeping their order
func Filter(books []catalog.Book, r PriceRange) []catalog.Book {
	out := make([]catalog.Book, 0, len(books))
	for _, b := range books {
		if r.Contains(b.Price) {
			out = append(out, b)
		}
	}
	return out
}
