package cmd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/pipeline"
)

func TestRouter_Healthz(t *testing.T) {
	h := newRouter(func(context.Context) (*pipeline.Report, error) {
		t.Fatal("batch must not run")
		return nil, nil
	}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_RunBatch(t *testing.T) {
	h := newRouter(func(context.Context) (*pipeline.Report, error) {
		return &pipeline.Report{RunID: "r1", Message: "2 invoice(s) generated and uploaded"}, nil
	}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2 invoice(s) generated and uploaded", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestRouter_BatchError(t *testing.T) {
	h := newRouter(func(context.Context) (*pipeline.Report, error) {
		return nil, errors.New("Run: row 3: duplicate invoice id 20240301")
	}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate invoice id")
}

func TestRouter_RejectsConcurrentBatch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	h := newRouter(func(context.Context) (*pipeline.Report, error) {
		close(started)
		<-release
		return &pipeline.Report{Message: "1 invoice(s) generated and uploaded"}, nil
	}, zerolog.Nop())

	var wg sync.WaitGroup
	first := httptest.NewRecorder()
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	}()

	<-started
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusConflict, second.Code)

	close(release)
	wg.Wait()
	require.Equal(t, http.StatusOK, first.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h := newRouter(func(context.Context) (*pipeline.Report, error) {
		return &pipeline.Report{}, nil
	}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
