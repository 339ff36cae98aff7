package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/username/tradewatch/src/corpus"
	"github.com/username/tradewatch/src/logger"
	"github.com/username/tradewatch/src/models"
	"github.com/username/tradewatch/src/parsers"
	"github.com/username/tradewatch/src/pdftext"
	"github.com/username/tradewatch/src/store"
)

type pipelineServiceImpl struct {
	corpusDir     string
	cachePath     string
	processedPath string
	workers       int
	extractor     pdftext.Extractor
	parser        parsers.ReportParser
	lookup        LookupService // invalidated after each run; may be nil
}

func NewPipelineService(
	corpusDir string,
	cachePath string,
	processedPath string,
	workers int,
	extractor pdftext.Extractor,
	parser parsers.ReportParser,
	lookup LookupService,
) PipelineService {
	if workers < 1 {
		workers = 1
	}
	return &pipelineServiceImpl{
		corpusDir:     corpusDir,
		cachePath:     cachePath,
		processedPath: processedPath,
		workers:       workers,
		extractor:     extractor,
		parser:        parser,
		lookup:        lookup,
	}
}

// docResult is one worker's output for a single document.
type docResult struct {
	doc     models.DocumentRef
	records []models.TradeRecord
	err     error
}

func (s *pipelineServiceImpl) BuildCache(ctx context.Context) (*RunResult, error) {
	runID := uuid.New().String()
	startTime := time.Now()
	logger.L.Info("BuildCache START", "runID", runID, "corpusDir", s.corpusDir, "workers", s.workers)

	// LOAD_STATE: both are empty on a first run, which is not an error.
	processed, err := store.LoadProcessed(s.processedPath)
	if err != nil {
		return nil, err
	}
	cache, err := store.LoadCache(s.cachePath)
	if err != nil {
		return nil, err
	}

	// DISCOVER_DELTA: computed once per run. Documents added to the corpus
	// after this point are deferred to the next run.
	summary, err := corpus.Summarize(s.corpusDir)
	if err != nil {
		return nil, fmt.Errorf("corpus discovery failed: %w", err)
	}
	docs, err := corpus.Documents(s.corpusDir, summary)
	if err != nil {
		return nil, fmt.Errorf("corpus discovery failed: %w", err)
	}

	var delta []models.DocumentRef
	for _, doc := range docs {
		if !processed[doc.Path] {
			delta = append(delta, doc)
		}
	}

	result := &RunResult{
		RunID:      runID,
		Discovered: len(docs),
		Skipped:    len(docs) - len(delta),
	}
	logger.L.Info("Computed work delta", "runID", runID, "discovered", len(docs), "delta", len(delta))

	// DISPATCH: stateless workers, bounded by a semaphore channel.
	results := make(chan docResult)
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	go func() {
		for _, doc := range delta {
			if ctx.Err() != nil {
				// Cancelled: undispatched documents stay out of the
				// processed-set and are retried next run.
				logger.L.Warn("Run cancelled, stopping dispatch", "runID", runID, "error", ctx.Err())
				break
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(doc models.DocumentRef) {
				defer wg.Done()
				defer func() { <-sem }()
				records, err := s.parseDocument(doc)
				results <- docResult{doc: doc, records: records, err: err}
			}(doc)
		}
		wg.Wait()
		close(results)
	}()

	// MERGE: the cache and processed-set are mutated only here, on the
	// single collecting goroutine. No lock needed.
	for res := range results {
		if res.err != nil {
			logger.L.Warn("Document failed; excluded from processed-set for retry",
				"runID", runID, "path", res.doc.Path, "error", res.err)
			result.Failed++
			continue
		}

		entry := cache[res.doc.Filer]
		if entry == nil {
			entry = &models.FilerAggregate{}
			cache[res.doc.Filer] = entry
		}
		entry.Filings = append(entry.Filings, models.Filing{
			Year:  res.doc.Year,
			DocID: docID(res.doc.Path),
		})
		entry.Transactions = append(entry.Transactions, res.records...)
		processed[res.doc.Path] = true
		result.Parsed++
	}

	// PERSIST: cache before processed-set, so a crash between the two can
	// never leave the set ahead of the cache. Documents that failed were
	// never marked processed, so the run still persists everything merged.
	if err := store.SaveCache(s.cachePath, cache); err != nil {
		return nil, fmt.Errorf("failed to persist cache: %w", err)
	}
	if err := store.SaveProcessed(s.processedPath, processed); err != nil {
		return nil, fmt.Errorf("failed to persist processed log: %w", err)
	}

	if s.lookup != nil {
		s.lookup.InvalidateCache()
	}

	result.Filers = len(cache)
	result.Duration = time.Since(startTime)
	logger.L.Info("BuildCache END", "runID", runID,
		"parsed", result.Parsed, "failed", result.Failed, "skipped", result.Skipped,
		"filers", result.Filers, "duration", result.Duration)
	return result, nil
}

func (s *pipelineServiceImpl) RebuildCache(ctx context.Context) (*RunResult, error) {
	logger.L.Info("Full rebuild requested, clearing persisted state",
		"cachePath", s.cachePath, "processedPath", s.processedPath)
	for _, path := range []string{s.cachePath, s.processedPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to clear %s: %w", path, err)
		}
	}
	return s.BuildCache(ctx)
}

// parseDocument runs inside a worker. It shares no mutable state; document
// parsing has no cross-document dependency.
func (s *pipelineServiceImpl) parseDocument(doc models.DocumentRef) ([]models.TradeRecord, error) {
	text, err := s.extractor.ExtractText(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}
	return s.parser.Parse(text), nil
}

// docID derives the document identifier from the filename.
func docID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
