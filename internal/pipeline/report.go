package pipeline

import (
	"fmt"
	"io"
	"time"

	"sjsage522/bookworker/internal/dashboard"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Step is the outcome of one stage of a run
type Step struct {
	Name    string
	Records int
	Elapsed time.Duration
	Err     error
}

// Report describes one pipeline run
type Report struct {
	RunID           string
	Table           string
	RawPath         string
	TransformedPath string
	StartedAt       time.Time
	FinishedAt      time.Time
	Steps           []Step
	Summary         dashboard.Summary
	// PublishErr is set when the run loaded but its event was not published
	PublishErr error
}

// Succeeded reports whether every step ran without error
func (r *Report) Succeeded() bool {
	if len(r.Steps) == 0 {
		return false
	}
	for _, s := range r.Steps {
		if s.Err != nil {
			return false
		}
	}
	return !r.FinishedAt.IsZero()
}

// Render writes the step table and, for a successful run, the loaded data summary
func (r *Report) Render(w io.Writer) {
	steps := table.NewWriter()
	steps.SetOutputMirror(w)
	steps.SetStyle(table.StyleRounded)
	steps.AppendHeader(table.Row{"Step", "Records", "Elapsed", "Status"})
	for _, s := range r.Steps {
		status := "ok"
		if s.Err != nil {
			status = "failed"
		}
		steps.AppendRow(table.Row{s.Name, s.Records, s.Elapsed.Round(time.Millisecond), status})
	}
	steps.Render()

	if !r.Succeeded() {
		return
	}

	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetStyle(table.StyleRounded)
	summary.AppendHeader(table.Row{"Metric", "Value"})
	summary.AppendRows([]table.Row{
		{"Run ID", r.RunID},
		{"Table", r.Table},
		{"Total Number of Books", r.Summary.Total},
	})
	if r.Summary.Empty {
		summary.AppendRow(table.Row{"Average Book Price", "No data"})
		summary.AppendRow(table.Row{"Most Expensive Book", "No data"})
	} else {
		summary.AppendRow(table.Row{"Average Book Price", fmt.Sprintf("%.2f", r.Summary.RoundedAveragePrice())})
		summary.AppendRow(table.Row{"Most Expensive Book", r.Summary.MostExpensiveTitle})
	}
	if r.PublishErr != nil {
		summary.AppendRow(table.Row{"Run Event", "not published"})
	}
	summary.Render()
}
