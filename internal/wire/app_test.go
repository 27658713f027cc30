package wire

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinwaunyu/site/internal/config"
)

func testConfig(t *testing.T, apiURL string) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		DataDir: dir,
		Airtable: config.AirtableConfig{
			APIURL:      apiURL,
			APIKey:      "pat",
			KeyProvider: "config",
			BaseID:      "appTEST",
			Timeout:     time.Second,
			Tables:      config.Tables{Company: "company", News: "news", Vehicles: "vehicles", Recruit: "recruit", Contact: "contact"},
		},
		Cache:   config.CacheConfig{Enabled: true, Driver: "sqlite", TTL: time.Minute},
		Contact: config.ContactConfig{DefaultCategory: "other"},
	}
}

func TestBuildAppRequiresCredentials(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Airtable.BaseID = ""
	_, err := BuildApp(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_MISSING")
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
}

func TestBuildAppServesThroughCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "Bearer pat", r.Header.Get("Authorization"))
		assert.Equal(t, "/appTEST/vehicles", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"records": []map[string]any{{"id": "rec1", "fields": map[string]any{"name": "4t"}}},
		})
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	app, err := BuildApp(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer app.Close()
	require.NotNil(t, app.Store)
	assert.FileExists(t, filepath.Join(cfg.DataDir, "site-cache.db"))

	for i := 0; i < 2; i++ {
		vs, err := app.Content.Vehicles(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		assert.Equal(t, "4t", vs[0].Name)
	}
	assert.EqualValues(t, 1, calls.Load(), "second call is served from cache")
}

func TestBuildAppWithoutCache(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Cache.Enabled = false
	app, err := BuildApp(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, app.Store)
	assert.NoError(t, app.Close())
}
