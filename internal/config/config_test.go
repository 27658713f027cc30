package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T, file string) *viper.Viper {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	}
	require.NoError(t, Load(context.Background(), v))
	return v
}

func TestDefaultsAreValid(t *testing.T) {
	v := loaded(t, "")
	require.NoError(t, CheckConfigValidity(v))

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "https://sinwaunyu.jp", cfg.Site.BaseURL)
	assert.Equal(t, "https://api.airtable.com/v0", cfg.Airtable.APIURL)
	assert.Equal(t, 20*time.Second, cfg.Airtable.Timeout)
	assert.Equal(t, Tables{Company: "company", News: "news", Vehicles: "vehicles", Recruit: "recruit", Contact: "contact"}, cfg.Airtable.Tables)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "other", cfg.Contact.DefaultCategory)
	assert.Equal(t, filepath.Join(cfg.DataDir, "certs"), cfg.TLS.StorageDir)
	assert.True(t, strings.HasPrefix(cfg.CacheDSN(), "sqlite://"))
}

func TestLegacyEnvNames(t *testing.T) {
	t.Setenv("AIRTABLE_API_KEY", "pat-legacy")
	t.Setenv("AIRTABLE_BASE_ID", "appXYZ")
	t.Setenv("AIRTABLE_TABLE_NEWS", "お知らせ")
	t.Setenv("NEXT_PUBLIC_SITE_URL", "https://example.jp/")
	v := loaded(t, "")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "pat-legacy", cfg.Airtable.APIKey)
	assert.Equal(t, "appXYZ", cfg.Airtable.BaseID)
	assert.Equal(t, "お知らせ", cfg.Airtable.Tables.News)
	assert.Equal(t, "https://example.jp", cfg.Site.BaseURL)
	assert.NoError(t, RequireAirtable(cfg))
}

func TestPrefixedEnvWins(t *testing.T) {
	t.Setenv("AIRTABLE_BASE_ID", "appLegacy")
	t.Setenv("SITE_AIRTABLE_BASE_ID", "appPrefixed")
	t.Setenv("SITE_CACHE_DRIVER", "mem")
	v := loaded(t, "")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "appPrefixed", cfg.Airtable.BaseID)
	assert.Equal(t, "mem://", cfg.CacheDSN())
}

func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "http_addr = \":9090\"\n[airtable]\nbase_id = \"appFile\"\n[airtable.tables]\nrecruit = \"jobs\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	v := loaded(t, path)

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "appFile", cfg.Airtable.BaseID)
	assert.Equal(t, "jobs", cfg.Airtable.Tables.Recruit)
	assert.Equal(t, "company", cfg.Airtable.Tables.Company)
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	v.Set("http_addr", "")
	v.Set("data_dir", "")
	v.Set("site.base_url", "not a url")
	v.Set("airtable.api_url", "ftp://x")
	v.Set("airtable.key_provider", "vault")
	v.Set("airtable.timeout", "0s")
	v.Set("cache.driver", "redis")
	v.Set("log.level", "loud")
	v.Set("log.format", "xml")
	v.Set("tls.http3", true)

	err := CheckConfigValidity(v)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"CONFIG_INVALID",
		"http_addr: is required",
		"data_dir: is required",
		"site.base_url: must be an absolute http(s) url",
		"airtable.api_url: must be an absolute http(s) url",
		"airtable.key_provider: must be config or keyring",
		"airtable.timeout: must be greater than 0",
		"airtable.tables.news: is required",
		"cache.driver: must be sqlite or mem",
		"log.level: must be one of",
		"log.format: must be one of",
		"tls.http3: requires tls.domain",
		"contact.default_category: is required",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestRequireAirtable(t *testing.T) {
	err := RequireAirtable(Config{Airtable: AirtableConfig{KeyProvider: "config"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_MISSING")
	assert.Contains(t, err.Error(), "airtable.base_id")
	assert.Contains(t, err.Error(), "airtable.api_key")

	err = RequireAirtable(Config{Airtable: AirtableConfig{KeyProvider: "keyring", BaseID: "app1"}})
	assert.NoError(t, err)
}

func TestRenderDefaultTOMLRoundTrips(t *testing.T) {
	out := RenderDefaultTOML()
	assert.Contains(t, out, "[airtable.tables]\n")
	assert.Contains(t, out, "news = \"news\"")

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)))
	for _, o := range GetConfigOptions() {
		assert.True(t, v.IsSet(o.Key), "key %s missing from rendered config", o.Key)
	}
}

func TestUpdateTOML(t *testing.T) {
	existing := "# mine\nhttp_addr = \":9000\"\nnamespace = \"old\"\n[airtable]\nbase_id = \"appKeep\"\n"
	out, changed := UpdateTOML(existing)
	require.True(t, changed)
	assert.Contains(t, out, "http_addr = \":9000\"")
	assert.Contains(t, out, "# OUTDATED: option removed from config schema\n# namespace = \"old\"")
	assert.Contains(t, out, "base_id = \"appKeep\"")

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)), out)
	assert.Equal(t, ":9000", v.GetString("http_addr"))
	assert.Equal(t, "appKeep", v.GetString("airtable.base_id"))
	assert.Equal(t, "https://api.airtable.com/v0", v.GetString("airtable.api_url"))
	assert.Equal(t, "recruit", v.GetString("airtable.tables.recruit"))

	again, changed := UpdateTOML(out)
	assert.False(t, changed)
	assert.Equal(t, out, again)
}
