package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradewatch/src/services"
)

// stubPipeline blocks inside BuildCache until released, so tests can hold a
// run open while issuing a second request.
type stubPipeline struct {
	started  chan struct{}
	release  chan struct{}
	rebuilds int
}

func (s *stubPipeline) BuildCache(ctx context.Context) (*services.RunResult, error) {
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	return &services.RunResult{RunID: "run-1", Parsed: 2}, nil
}

func (s *stubPipeline) RebuildCache(ctx context.Context) (*services.RunResult, error) {
	s.rebuilds++
	return &services.RunResult{RunID: "run-2"}, nil
}

func TestHandleRunPipeline(t *testing.T) {
	handler := NewPipelineHandler(&stubPipeline{})

	rr := httptest.NewRecorder()
	handler.HandleRunPipeline(rr, httptest.NewRequest(http.MethodPost, "/api/pipeline/run", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "run-1")
}

func TestHandleRunPipelineConflict(t *testing.T) {
	stub := &stubPipeline{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	handler := NewPipelineHandler(stub)

	firstDone := make(chan *httptest.ResponseRecorder)
	go func() {
		rr := httptest.NewRecorder()
		handler.HandleRunPipeline(rr, httptest.NewRequest(http.MethodPost, "/api/pipeline/run", nil))
		firstDone <- rr
	}()
	<-stub.started

	// Second request while the first run is still in flight.
	rr := httptest.NewRecorder()
	handler.HandleRunPipeline(rr, httptest.NewRequest(http.MethodPost, "/api/pipeline/run", nil))
	assert.Equal(t, http.StatusConflict, rr.Code)

	close(stub.release)
	first := <-firstDone
	assert.Equal(t, http.StatusOK, first.Code)
}

func TestHandleRebuildPipeline(t *testing.T) {
	stub := &stubPipeline{}
	handler := NewPipelineHandler(stub)

	rr := httptest.NewRecorder()
	handler.HandleRebuildPipeline(rr, httptest.NewRequest(http.MethodPost, "/api/pipeline/rebuild", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, stub.rebuilds)
}
