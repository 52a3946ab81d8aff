package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"sjsage522/bookworker/logger"
	"sjsage522/bookworker/services/metrics"
)

// Snapshotter supplies the table for each request
type Snapshotter interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Server renders the dashboard over HTTP
type Server struct {
	source  Snapshotter
	metrics *metrics.Registry
	log     *logger.Logger
}

func NewServer(source Snapshotter, reg *metrics.Registry) *Server {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Server{
		source:  source,
		metrics: reg,
		log:     logger.ForDashboard(),
	}
}

// Handler routes the page, its JSON twin, health and metrics
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/view", s.handleAPI)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// ListenAndServe blocks until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("Dashboard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info().Msg("Shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.metrics.Requests.WithLabelValues("page").Inc()

	q, err := parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := http.StatusOK
	view, err := s.view(r.Context(), q)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read books table")
		status = http.StatusServiceUnavailable
		view = BuildView(nil, q)
	}

	data := pageData{
		View:      view,
		Modes:     SortModes,
		Average:   view.Summary.RoundedAveragePrice(),
		Charts:    layoutCharts(view.Charts),
		HasRating: len(view.Charts.Ratings) > 0,
	}
	if err != nil {
		data.Error = "books table unavailable"
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.log.Error().Err(err).Msg("Failed to render page")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	s.metrics.Requests.WithLabelValues("api").Inc()

	q, err := parseQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	view, err := s.view(r.Context(), q)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read books table")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "books table unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.metrics.Requests.WithLabelValues("healthz").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) view(ctx context.Context, q Query) (View, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return View{}, err
	}
	view := BuildView(snap.Books, q)
	view.RunID = snap.RunID
	return view, nil
}

func parseQuery(r *http.Request) (Query, error) {
	values := r.URL.Query()

	mode, err := ParseSortMode(values.Get("sort"))
	if err != nil {
		return Query{}, err
	}
	q := Query{Sort: mode}

	if q.MinPrice, err = parsePrice(values.Get("min"), "min"); err != nil {
		return Query{}, err
	}
	if q.MaxPrice, err = parsePrice(values.Get("max"), "max"); err != nil {
		return Query{}, err
	}
	return q, nil
}

func parsePrice(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid %s price %q", name, raw)
	}
	return &v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
