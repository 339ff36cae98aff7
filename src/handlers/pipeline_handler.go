package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/username/tradewatch/src/services"
	"github.com/username/tradewatch/src/utils"
)

type PipelineHandler struct {
	pipelineService services.PipelineService
	running         atomic.Bool
}

func NewPipelineHandler(pipelineService services.PipelineService) *PipelineHandler {
	return &PipelineHandler{pipelineService: pipelineService}
}

func (h *PipelineHandler) HandleRunPipeline(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.pipelineService.BuildCache)
}

func (h *PipelineHandler) HandleRebuildPipeline(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.pipelineService.RebuildCache)
}

func (h *PipelineHandler) run(w http.ResponseWriter, r *http.Request, buildFn func(ctx context.Context) (*services.RunResult, error)) {
	if !h.running.CompareAndSwap(false, true) {
		utils.SendJSONError(w, services.ErrRunInProgress.Error(), http.StatusConflict)
		return
	}
	defer h.running.Store(false)

	result, err := buildFn(r.Context())
	if err != nil {
		utils.SendJSONError(w, "pipeline run failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Error generating JSON response for pipeline run %s: %v", result.RunID, err)
	}
}
