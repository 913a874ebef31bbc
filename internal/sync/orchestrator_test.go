package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"techstore/internal/events"
	"techstore/internal/models"
	"techstore/internal/services/woocommerce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemote(t *testing.T, categories []woocommerce.Category, products []woocommerce.Product) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-Total", "1")
		w.Header().Set("X-WP-TotalPages", "1")
		json.NewEncoder(w).Encode(categories)
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-Total", "1")
		w.Header().Set("X-WP-TotalPages", "1")
		json.NewEncoder(w).Encode(products)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunFullSync(t *testing.T) {
	db := newTestDB(t)
	srv := newRemote(t,
		[]woocommerce.Category{{ID: 10, Name: "CPUs", Slug: "cpus"}},
		[]woocommerce.Product{{ID: 100, Name: "ryzen", Slug: "ryzen", Status: "publish",
			Categories: []woocommerce.Category{{ID: 10, Name: "CPUs", Slug: "cpus"}}}},
	)

	client := woocommerce.NewClient(srv.URL, "ck", "cs", testLogger())
	bus := events.NewBus()

	var published []events.Type
	bus.Subscribe(func(evt events.Event) {
		published = append(published, evt.Type)
	})

	o := NewOrchestrator(db, client, bus, testLogger(), "site1", "TechTitan Store")

	result, err := o.RunFullSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.CategoriesSynced)
	assert.Equal(t, 1, result.ProductsSynced)
	assert.Empty(t, result.Errors)

	// Run is logged and closed out.
	var logs []models.SyncLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.SyncStatusCompleted, logs[0].Status)
	assert.Equal(t, 1, logs[0].ProductsSynced)
	assert.NotNil(t, logs[0].CompletedAt)

	// Invalidation events fired.
	assert.Contains(t, published, events.CategoryChanged)
	assert.Contains(t, published, events.ProductChanged)
	assert.Contains(t, published, events.SyncCompleted)

	snap := o.State()
	assert.False(t, snap.Running)
	assert.Equal(t, models.SyncStatusCompleted, snap.LastStatus)
	assert.Equal(t, logs[0].ID, snap.LastRunID)
}

func TestRunFullSyncNotConfigured(t *testing.T) {
	db := newTestDB(t)
	client := woocommerce.NewClient("http://localhost:1", "", "", testLogger())
	o := NewOrchestrator(db, client, events.NewBus(), testLogger(), "site1", "TechTitan Store")

	_, err := o.RunFullSync(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = o.TriggerAsync()
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSyncSingleFlight(t *testing.T) {
	db := newTestDB(t)

	gate := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, r *http.Request) {
		<-gate
		w.Header().Set("X-WP-TotalPages", "1")
		json.NewEncoder(w).Encode([]woocommerce.Category{})
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-TotalPages", "1")
		json.NewEncoder(w).Encode([]woocommerce.Product{})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := woocommerce.NewClient(srv.URL, "ck", "cs", testLogger())
	o := NewOrchestrator(db, client, events.NewBus(), testLogger(), "site1", "TechTitan Store")

	require.NoError(t, o.TriggerAsync())

	// Second trigger while the first is blocked on the remote.
	assert.ErrorIs(t, o.TriggerAsync(), ErrSyncRunning)
	_, err := o.RunFullSync(context.Background())
	assert.ErrorIs(t, err, ErrSyncRunning)

	close(gate)

	require.Eventually(t, func() bool {
		return !o.State().Running
	}, 5*time.Second, 10*time.Millisecond)

	// Flag released; a new run is accepted again.
	require.NoError(t, o.TriggerAsync())
	require.Eventually(t, func() bool {
		return !o.State().Running
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRunFullSyncRemoteFailureIsRecorded(t *testing.T) {
	db := newTestDB(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-TotalPages", "1")
		json.NewEncoder(w).Encode([]woocommerce.Product{{ID: 100, Name: "ryzen", Slug: "ryzen", Status: "publish"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := woocommerce.NewClient(srv.URL, "ck", "cs", testLogger())
	o := NewOrchestrator(db, client, events.NewBus(), testLogger(), "site1", "TechTitan Store")

	result, err := o.RunFullSync(context.Background())
	require.NoError(t, err)

	// Category phase failed but the product phase still ran.
	assert.Equal(t, 0, result.CategoriesSynced)
	assert.Equal(t, 1, result.ProductsSynced)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "categories", result.Errors[0].Type)
}
