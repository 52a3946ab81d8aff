package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sjsage522/bookworker/config"
	"sjsage522/bookworker/services/metrics"

	"github.com/stretchr/testify/assert"
)

func TestPushMetrics(t *testing.T) {
	var paths []string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	reg := metrics.NewRegistry()
	pushMetrics(context.Background(), config.Config{}, reg)
	assert.Empty(t, paths)

	pushMetrics(context.Background(), config.Config{PushgatewayURL: gateway.URL}, reg)
	assert.Equal(t, []string{"/metrics/job/" + metrics.PipelineJob}, paths)
}
