package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/raisin-tracker/config"
	"github.com/yeremiapane/raisin-tracker/database"
	"github.com/yeremiapane/raisin-tracker/live"
	"github.com/yeremiapane/raisin-tracker/router"
	"github.com/yeremiapane/raisin-tracker/services"
	"github.com/yeremiapane/raisin-tracker/utils"
)

// fixedNow is a Wednesday; its week starts on Sunday 2024-06-02.
var fixedNow = time.Date(2024, 6, 5, 10, 30, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	utils.SilenceLoggers()
	os.Exit(m.Run())
}

// setupTestDB opens an in-memory SQLite database private to the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db     *gorm.DB
	hub    *live.Hub
	router *gin.Engine
}

func setupEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	db := setupTestDB(t)
	hub := live.NewHub()
	t.Cleanup(hub.Close)
	cal := services.Calendar{Location: time.UTC, Now: func() time.Time { return fixedNow }}
	return &testEnv{db: db, hub: hub, router: router.SetupRouter(db, cfg, hub, cal)}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) addEmployee(t *testing.T, name string) uint {
	t.Helper()
	w := env.do(t, http.MethodPost, "/employees", map[string]interface{}{"name": name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return uint(decodeObject(t, w)["id"].(float64))
}

func (env *testEnv) addWork(t *testing.T, employeeID uint, date string, kgs, earnings float64) uint {
	t.Helper()
	w := env.do(t, http.MethodPost, "/daily-work", map[string]interface{}{
		"employee_id": employeeID,
		"date":        date,
		"kgs_cleaned": kgs,
		"earnings":    earnings,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return uint(decodeObject(t, w)["id"].(float64))
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeArray(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	require.NotNil(t, out, "expected a JSON array, got %s", w.Body.String())
	return out
}
