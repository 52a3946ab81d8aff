package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"sjsage522/bookworker/helpers"
	"sjsage522/bookworker/internal/catalog"
	"sjsage522/bookworker/internal/crawler"
	"sjsage522/bookworker/internal/dashboard"
	"sjsage522/bookworker/internal/normalizer"
	"sjsage522/bookworker/logger"
	"sjsage522/bookworker/pkg/errors"
	"sjsage522/bookworker/services/metrics"
	"sjsage522/bookworker/services/publisher"

	"github.com/google/uuid"
)

// Loader replaces the warehouse table with the contents of a transformed CSV
type Loader interface {
	Load(ctx context.Context, filePath string) error
}

// Options holds the file locations and table name of one run
type Options struct {
	RawPath         string
	TransformedPath string
	Table           string
}

// Runner executes the extract, normalize, persist, load sequence once
type Runner struct {
	crawler    crawler.Crawler
	normalizer *normalizer.Normalizer
	loader     Loader
	publisher  publisher.Publisher
	reporter   helpers.ErrorReporter
	metrics    *metrics.Registry
	opts       Options
	log        *logger.Logger
	now        func() time.Time
}

// NewRunner wires the collaborators of a run; pub, reporter and reg may be nil
func NewRunner(
	c crawler.Crawler,
	n *normalizer.Normalizer,
	l Loader,
	pub publisher.Publisher,
	reporter helpers.ErrorReporter,
	reg *metrics.Registry,
	opts Options,
) *Runner {
	if pub == nil {
		pub = publisher.NopPublisher{}
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Runner{
		crawler:    c,
		normalizer: n,
		loader:     l,
		publisher:  pub,
		reporter:   reporter,
		metrics:    reg,
		opts:       opts,
		log:        logger.ForPipeline(),
		now:        time.Now,
	}
}

// Run performs one full-refresh run. Any failing step fails the whole run;
// only the run event publication is best effort.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:           uuid.NewString(),
		Table:           r.opts.Table,
		RawPath:         r.opts.RawPath,
		TransformedPath: r.opts.TransformedPath,
		StartedAt:       r.now(),
	}
	log := r.log.WithFields(logger.Fields{
		"run_id": report.RunID,
		"table":  r.opts.Table,
	})
	log.Info().Str("crawler", r.crawler.GetName()).Msg("Starting pipeline run")

	books, err := r.run(ctx, report)
	if err != nil {
		r.metrics.Runs.WithLabelValues("failed").Inc()
		// The normalizer already reported each failed record
		if r.reporter != nil && !errors.IsType(err, errors.ErrorTypeConversion) {
			r.reporter.ReportError("pipeline", err)
		}
		log.Error().Err(err).Msg("Pipeline run failed")
		return report, err
	}

	report.FinishedAt = r.now()
	report.Summary = dashboard.Summarize(books)
	r.metrics.Runs.WithLabelValues("succeeded").Inc()

	event := publisher.RunEvent{
		RunID:      report.RunID,
		Records:    len(books),
		Table:      r.opts.Table,
		FinishedAt: report.FinishedAt,
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		pubErr := errors.NewPublisher("pipeline", "publish run event", err)
		report.PublishErr = pubErr
		log.Warn().Err(pubErr).Msg("Failed to publish run event")
	}

	log.Info().
		Int("records", len(books)).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).
		Msg("Pipeline run finished")
	return report, nil
}

func (r *Runner) run(ctx context.Context, report *Report) ([]catalog.Book, error) {
	if _, err := r.step(report, "extract", func() (int, error) {
		raws, err := r.crawler.FetchBooks(ctx)
		if err != nil {
			return 0, err
		}
		r.metrics.RecordsExtracted.Add(float64(len(raws)))
		if err := catalog.WriteFile(r.opts.RawPath, func(w io.Writer) error {
			return catalog.WriteRaw(w, raws)
		}); err != nil {
			return 0, errors.New(errors.ErrorTypeLoad, "pipeline", "write raw csv", err)
		}
		return len(raws), nil
	}); err != nil {
		return nil, err
	}

	var books []catalog.Book
	if _, err := r.step(report, "normalize", func() (int, error) {
		raws, err := catalog.ReadFile(r.opts.RawPath, catalog.ReadRaw)
		if err != nil {
			return 0, errors.New(errors.ErrorTypeConversion, "pipeline", "read raw csv", err)
		}
		books, err = r.normalizer.Normalize(raws)
		if err != nil {
			var conv *errors.ConversionErrors
			if stderrors.As(err, &conv) {
				r.metrics.ConversionFailures.Add(float64(conv.Len()))
			}
			return 0, err
		}
		r.metrics.RecordsNormalized.Add(float64(len(books)))
		if err := catalog.WriteFile(r.opts.TransformedPath, func(w io.Writer) error {
			return catalog.WriteTransformed(w, books)
		}); err != nil {
			return 0, errors.New(errors.ErrorTypeLoad, "pipeline", "write transformed csv", err)
		}
		return len(books), nil
	}); err != nil {
		return nil, err
	}

	if _, err := r.step(report, "load", func() (int, error) {
		start := time.Now()
		err := r.loader.Load(ctx, r.opts.TransformedPath)
		r.metrics.LoadDurationSec.Observe(time.Since(start).Seconds())
		if err != nil {
			return 0, err
		}
		return len(books), nil
	}); err != nil {
		return nil, err
	}
	return books, nil
}

// step times fn and records it on the report, failed or not
func (r *Runner) step(report *Report, name string, fn func() (int, error)) (int, error) {
	start := r.now()
	records, err := fn()
	report.Steps = append(report.Steps, Step{
		Name:    name,
		Records: records,
		Elapsed: r.now().Sub(start),
		Err:     err,
	})
	return records, err
}
