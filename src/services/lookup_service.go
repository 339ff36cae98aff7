package services

import (
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/tradewatch/src/logger"
	"github.com/username/tradewatch/src/models"
	"github.com/username/tradewatch/src/store"
)

const (
	ckTradeCache = "trade_cache"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type lookupServiceImpl struct {
	cachePath string
	memCache  *cache.Cache
}

func NewLookupService(cachePath string, memCache *cache.Cache) LookupService {
	return &lookupServiceImpl{
		cachePath: cachePath,
		memCache:  memCache,
	}
}

// loadTradeCache memoizes the decoded cache file so repeated lookups do not
// hit disk. The pipeline invalidates the memoized copy after every run.
func (s *lookupServiceImpl) loadTradeCache() (models.TradeCache, error) {
	if cached, found := s.memCache.Get(ckTradeCache); found {
		logger.L.Debug("Cache hit for trade cache")
		return cached.(models.TradeCache), nil
	}

	logger.L.Info("Cache miss for trade cache, reading from disk", "path", s.cachePath)
	tradeCache, err := store.LoadCache(s.cachePath)
	if err != nil {
		return nil, err
	}
	s.memCache.Set(ckTradeCache, tradeCache, DefaultCacheExpiration)
	return tradeCache, nil
}

func (s *lookupServiceImpl) LookupFiler(name string) (*models.FilerAggregate, bool) {
	tradeCache, err := s.loadTradeCache()
	if err != nil {
		logger.L.Error("Failed to load trade cache for lookup", "error", err)
		return nil, false
	}

	if agg, ok := tradeCache[name]; ok {
		return agg, true
	}

	queryTokens := strings.Fields(normalizeFilerName(name))
	if len(queryTokens) == 0 {
		return nil, false
	}

	// First match wins, unscored. Sorted key order keeps the choice
	// deterministic across runs.
	keys := make([]string, 0, len(tradeCache))
	for key := range tradeCache {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		normKey := normalizeFilerName(key)
		allFound := true
		for _, token := range queryTokens {
			if !strings.Contains(normKey, token) {
				allFound = false
				break
			}
		}
		if allFound {
			return tradeCache[key], true
		}
	}
	return nil, false
}

func (s *lookupServiceImpl) ListFilers() ([]string, error) {
	tradeCache, err := s.loadTradeCache()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(tradeCache))
	for key := range tradeCache {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *lookupServiceImpl) InvalidateCache() {
	s.memCache.Delete(ckTradeCache)
	logger.L.Info("Invalidated memoized trade cache")
}

// normalizeFilerName makes a name comparable across "Last_First" cache keys
// and free-text queries: underscores become spaces, periods are removed, and
// the result is lowercased.
func normalizeFilerName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, ".", "")
	return strings.ToLower(s)
}
