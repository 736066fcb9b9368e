package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/config"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/service"
)

func TestOpenSettingsRepository_SQLite(t *testing.T) {
	repo, err := OpenSettingsRepository(config.StorageConfig{
		Driver:     StorageSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "settings.db"),
	})
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.SaveSetting(context.Background(), "inventory_api_url", "http://b/api"))

	value, ok, err := repo.GetSetting(context.Background(), "inventory_api_url")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://b/api", value)
}

func TestOpenSettingsRepository_UnknownDriver(t *testing.T) {
	_, err := OpenSettingsRepository(config.StorageConfig{Driver: "etcd"})

	assert.Error(t, err)
}

func TestBuild_RestoresBaseURLAndServesPing(t *testing.T) {
	conf := config.CreateNewConfig()
	conf.TracingConfig.CollectorHost = ""

	repo, err := OpenSettingsRepository(config.StorageConfig{
		Driver:     StorageSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "settings.db"),
	})
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.SaveSetting(context.Background(), conf.SettingsKey, "http://stored:9000/api"))

	app := &App{Config: conf, Settings: repo}
	require.NoError(t, app.Build(context.Background()))
	defer app.StopScheduler(context.Background())

	rec := httptest.NewRecorder()
	app.Server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/connection", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			BaseURL string `json:"baseUrl"`
			Status  string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "http://stored:9000/api", body.Data.BaseURL)
	assert.Equal(t, "unknown", body.Data.Status)
}

type discardPublisher struct{}

func (discardPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	return nil
}

func TestStopEvents(t *testing.T) {
	assert.NoError(t, (&App{}).StopEvents(context.Background()))

	app := &App{events: service.CreateEventPublishingProductService(nil, discardPublisher{})}
	assert.NoError(t, app.StopEvents(context.Background()))
	// closing twice is harmless
	assert.NoError(t, app.StopEvents(context.Background()))
}
