package dashboard

import (
	"sjsage522/bookworker/internal/catalog"
)

// Query is one interaction's sort and filter selection
type Query struct {
	Sort SortMode
	// Nil bounds default to the observed table range
	MinPrice *float64
	MaxPrice *float64
}

// View is everything the page renders for one interaction
type View struct {
	Summary  Summary        `json:"summary"`
	Sort     SortMode       `json:"sort"`
	Bounds   PriceRange     `json:"bounds"`
	Selected PriceRange     `json:"selected"`
	Rows     []catalog.Book `json:"rows"`
	Results  int            `json:"results"`
	Charts   Charts         `json:"charts"`
	RunID    string         `json:"run_id,omitempty"`
	Empty    bool           `json:"empty"`
}

// BuildView recomputes the view from the full table. The table is never
// modified; KPIs and charts ignore the filter.
func BuildView(table []catalog.Book, q Query) View {
	mode := q.Sort
	if mode.Label() == "" {
		mode = DefaultSortMode
	}

	view := View{
		Summary: Summarize(table),
		Sort:    mode,
		Charts:  BuildCharts(table),
		Rows:    []catalog.Book{},
	}

	bounds, ok := ObservedRange(table)
	if !ok {
		view.Empty = true
		return view
	}
	view.Bounds = bounds

	selected := bounds
	if q.MinPrice != nil {
		selected.Min = clamp(*q.MinPrice, bounds)
	}
	if q.MaxPrice != nil {
		selected.Max = clamp(*q.MaxPrice, bounds)
	}
	view.Selected = selected

	view.Rows = Filter(Sort(table, mode), selected)
	view.Results = len(view.Rows)
	return view
}

func clamp(v float64, r PriceRange) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}
