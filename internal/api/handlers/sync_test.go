package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"techstore/internal/events"
	"techstore/internal/models"
	"techstore/internal/services/woocommerce"
	"techstore/internal/sync"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func syncRouter(orch *sync.Orchestrator) *gin.Engine {
	h := NewSyncHandler(orch, testLogger())

	r := gin.New()
	r.POST("/api/sync/products", h.Trigger)
	r.GET("/api/sync/status", h.Status)
	return r
}

func emptyRemote(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-TotalPages", "1")
		json.NewEncoder(w).Encode([]woocommerce.Category{})
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-TotalPages", "1")
		json.NewEncoder(w).Encode([]woocommerce.Product{})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newOrchestrator(t *testing.T, db *gorm.DB, baseURL, key, secret string) *sync.Orchestrator {
	t.Helper()
	client := woocommerce.NewClient(baseURL, key, secret, testLogger())
	return sync.NewOrchestrator(db, client, events.NewBus(), testLogger(), "site1", "TechTitan Store")
}

func TestSyncTrigger(t *testing.T) {
	db := newTestDB(t)
	srv := emptyRemote(t)
	orch := newOrchestrator(t, db, srv.URL, "ck", "cs")
	r := syncRouter(orch)

	w := doJSON(t, r, "POST", "/api/sync/products", nil)
	assertStatus(t, w, http.StatusOK)

	var resp map[string]string
	decode(t, w, &resp)
	assert.Equal(t, "Sync started", resp["message"])
	assert.Equal(t, "running", resp["status"])

	require.Eventually(t, func() bool {
		return !orch.State().Running
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSyncTriggerNotConfigured(t *testing.T) {
	db := newTestDB(t)
	orch := newOrchestrator(t, db, "http://localhost:1", "", "")

	w := doJSON(t, syncRouter(orch), "POST", "/api/sync/products", nil)
	assertStatus(t, w, http.StatusServiceUnavailable)
}

func TestSyncStatusReportsRuns(t *testing.T) {
	db := newTestDB(t)
	srv := emptyRemote(t)
	orch := newOrchestrator(t, db, srv.URL, "ck", "cs")
	r := syncRouter(orch)

	doJSON(t, r, "POST", "/api/sync/products", nil)
	require.Eventually(t, func() bool {
		return !orch.State().Running
	}, 5*time.Second, 10*time.Millisecond)

	w := doJSON(t, r, "GET", "/api/sync/status", nil)
	assertStatus(t, w, http.StatusOK)

	var resp struct {
		State sync.StateSnapshot `json:"state"`
		Runs  []models.SyncLog   `json:"runs"`
	}
	decode(t, w, &resp)
	assert.False(t, resp.State.Running)
	assert.Equal(t, models.SyncStatusCompleted, resp.State.LastStatus)
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, models.SyncStatusCompleted, resp.Runs[0].Status)
}

func TestProxyNotConfigured(t *testing.T) {
	client := woocommerce.NewClient("http://localhost:1", "", "", testLogger())
	h := NewProxyHandler(client, testLogger())

	r := gin.New()
	r.GET("/api/woocommerce/products", h.Products)
	r.GET("/api/woocommerce/products/:id", h.Product)
	r.GET("/api/woocommerce/categories", h.Categories)

	for _, path := range []string{
		"/api/woocommerce/products",
		"/api/woocommerce/products/1",
		"/api/woocommerce/categories",
	} {
		w := doJSON(t, r, "GET", path, nil)
		assertStatus(t, w, http.StatusServiceUnavailable)
	}
}

func TestProxyPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-Total", "1")
		w.Header().Set("X-WP-TotalPages", "1")
		json.NewEncoder(w).Encode([]woocommerce.Product{{ID: 7, Name: "remote"}})
	}))
	defer srv.Close()

	client := woocommerce.NewClient(srv.URL, "ck", "cs", testLogger())
	h := NewProxyHandler(client, testLogger())

	r := gin.New()
	r.GET("/api/woocommerce/products", h.Products)

	w := doJSON(t, r, "GET", "/api/woocommerce/products", nil)
	assertStatus(t, w, http.StatusOK)

	var resp struct {
		Products []woocommerce.Product `json:"products"`
		Total    int                   `json:"total"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "remote", resp.Products[0].Name)
	assert.Equal(t, 1, resp.Total)
}
