package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"techstore/internal/cache"
	"techstore/internal/database"
	"techstore/internal/events"
	"techstore/internal/logger"
	"techstore/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testLogger() *logger.Logger {
	return logger.New("error")
}

func newTestCache() *cache.Cache {
	return cache.New(time.Minute)
}

func newTestBus() *events.Bus {
	return events.NewBus()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func seedProduct(t *testing.T, db *gorm.DB, wooID int64, name, status string, price float64, catWooIDs ...int64) models.Product {
	t.Helper()

	p := models.Product{
		WooCommerceID: &wooID,
		Name:          name,
		Slug:          name,
		Type:          "simple",
		Status:        status,
		StockStatus:   "instock",
		Price:         &price,
	}
	require.NoError(t, db.Create(&p).Error)
	for _, id := range catWooIDs {
		require.NoError(t, db.Create(&models.ProductCategoryLink{ProductID: p.ID, CategoryWooID: id}).Error)
	}
	return p
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
