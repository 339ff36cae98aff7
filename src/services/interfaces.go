package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/tradewatch/src/models"
)

// ErrRunInProgress is returned when a build is requested while another run
// holds the pipeline.
var ErrRunInProgress = errors.New("a pipeline run is already in progress")

// RunResult summarizes one cache-builder run.
type RunResult struct {
	RunID      string        `json:"run_id"`
	Discovered int           `json:"discovered"` // documents in the corpus
	Skipped    int           `json:"skipped"`    // already in the processed-set
	Parsed     int           `json:"parsed"`     // newly parsed and merged
	Failed     int           `json:"failed"`     // left out for retry next run
	Filers     int           `json:"filers"`     // filer aggregates in the cache
	Duration   time.Duration `json:"duration"`
}

// PipelineService drives the incremental extraction-and-caching batch.
type PipelineService interface {
	// BuildCache runs one incremental batch: discover the work delta, fan
	// out parsing, merge, persist. Cancelling the context stops dispatching
	// new documents; everything merged so far is still persisted.
	BuildCache(ctx context.Context) (*RunResult, error)
	// RebuildCache clears the persisted cache and processed-set, then runs
	// a full build over the whole corpus.
	RebuildCache(ctx context.Context) (*RunResult, error)
}

// LookupService is the read-only consumer boundary over the persisted cache.
type LookupService interface {
	// LookupFiler resolves a free-text filer name to its aggregate: exact
	// key match first, then normalized token-containment fuzzy match. A miss
	// is reported as (nil, false), never as an error.
	LookupFiler(name string) (*models.FilerAggregate, bool)
	// ListFilers returns the sorted cache keys.
	ListFilers() ([]string, error)
	// InvalidateCache drops the memoized cache file so the next lookup
	// re-reads disk. Called after every pipeline run.
	InvalidateCache()
}
