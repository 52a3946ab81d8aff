package dashboard

import (
	"fmt"
	"sort"

	"sjsage522/bookworker/internal/catalog"
)

const (
	histogramStart = 10
	histogramWidth = 10

	LabelAvailable    = "Available"
	LabelNotAvailable = "Not Available"
)

// HistogramBin counts prices in [Lower, Upper); the last bin also holds Upper
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// RatingSlice is one rating value's share of the table
type RatingSlice struct {
	Rating  int     `json:"rating"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Label formats the share with one decimal
func (s RatingSlice) Label() string {
	return fmt.Sprintf("%.1f%%", s.Percent)
}

// AvailabilityBar is the count of one availability category
type AvailabilityBar struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Charts holds the chart data derived from the full table
type Charts struct {
	Histogram    []HistogramBin    `json:"histogram"`
	Ratings      []RatingSlice     `json:"ratings"`
	Availability []AvailabilityBar `json:"availability"`
	Empty        bool              `json:"empty"`
}

// BuildCharts derives all three charts
func BuildCharts(books []catalog.Book) Charts {
	return Charts{
		Histogram:    PriceHistogram(books),
		Ratings:      RatingPie(books),
		Availability: AvailabilityBars(books),
		Empty:        len(books) == 0,
	}
}

// PriceHistogram bins prices with width 10 from 10 up to the first edge
// at or above the maximum price. Prices below 10 are not counted.
func PriceHistogram(books []catalog.Book) []HistogramBin {
	r, ok := ObservedRange(books)
	if !ok {
		return []HistogramBin{}
	}

	var edges []float64
	for k := 0; ; k++ {
		edge := float64(histogramStart + k*histogramWidth)
		if edge >= r.Max+histogramWidth {
			break
		}
		edges = append(edges, edge)
	}
	if len(edges) < 2 {
		return []HistogramBin{}
	}

	bins := make([]HistogramBin, len(edges)-1)
	for i := range bins {
		bins[i] = HistogramBin{Lower: edges[i], Upper: edges[i+1]}
	}

	last := len(bins) - 1
	for _, b := range books {
		if b.Price < edges[0] || b.Price > edges[len(edges)-1] {
			continue
		}
		i := int((b.Price - edges[0]) / histogramWidth)
		if i > last {
			i = last
		}
		bins[i].Count++
	}
	return bins
}

// RatingPie counts each rating value, most frequent first
func RatingPie(books []catalog.Book) []RatingSlice {
	if len(books) == 0 {
		return []RatingSlice{}
	}

	counts := map[int]int{}
	for _, b := range books {
		counts[b.Rating]++
	}

	out := make([]RatingSlice, 0, len(counts))
	for rating, count := range counts {
		out = append(out, RatingSlice{
			Rating:  rating,
			Count:   count,
			Percent: float64(count) * 100 / float64(len(books)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Rating < out[j].Rating
	})
	return out
}

// AvailabilityBars always reports both categories, zero-filled
func AvailabilityBars(books []catalog.Book) []AvailabilityBar {
	available := 0
	for _, b := range books {
		if b.Availability {
			available++
		}
	}
	return []AvailabilityBar{
		{Label: LabelAvailable, Count: available},
		{Label: LabelNotAvailable, Count: len(books) - available},
	}
}
