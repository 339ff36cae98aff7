package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradewatch/src/logger"
	"github.com/username/tradewatch/src/models"
	"github.com/username/tradewatch/src/services"
	"github.com/username/tradewatch/src/store"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func newFilerMux(t *testing.T, tradeCache models.TradeCache) *http.ServeMux {
	t.Helper()
	cachePath := filepath.Join(t.TempDir(), "trades_cache.json")
	require.NoError(t, store.SaveCache(cachePath, tradeCache))

	lookupService := services.NewLookupService(
		cachePath, cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval))
	handler := NewFilerHandler(lookupService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/filers", handler.HandleListFilers)
	mux.HandleFunc("GET /api/filers/{name}", handler.HandleGetFiler)
	return mux
}

func TestHandleGetFilerFound(t *testing.T) {
	mux := newFilerMux(t, models.TradeCache{
		"Pelosi_Nancy": {
			Filings: []models.Filing{{Year: "2024", DocID: "20019874"}},
		},
	})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/filers/Nancy%20Pelosi", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var agg models.FilerAggregate
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &agg))
	assert.Equal(t, "20019874", agg.Filings[0].DocID)
}

func TestHandleGetFilerNotFound(t *testing.T) {
	mux := newFilerMux(t, models.TradeCache{"Pelosi_Nancy": {}})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/filers/John%20Smith", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "filer not found", body["error"])
}

func TestHandleListFilers(t *testing.T) {
	mux := newFilerMux(t, models.TradeCache{
		"Pelosi_Nancy":    {},
		"Greene_Marjorie": {},
	})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/filers", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var filers []string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &filers))
	assert.Equal(t, []string{"Greene_Marjorie", "Pelosi_Nancy"}, filers)
}
