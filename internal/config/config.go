package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "sinwa-site"

// Config is the resolved configuration. It is built once by FromViper and
// passed by value; nothing downstream reads the environment again.
type Config struct {
	HTTPAddr string
	DataDir  string
	Site     SiteConfig
	Airtable AirtableConfig
	Cache    CacheConfig
	Log      LogConfig
	TLS      TLSConfig
	Contact  ContactConfig
}

type SiteConfig struct {
	BaseURL string
	Name    string
}

type AirtableConfig struct {
	APIURL      string
	APIKey      string
	KeyProvider string
	BaseID      string
	Timeout     time.Duration
	Tables      Tables
}

// Tables names the Airtable tables backing each content type.
type Tables struct {
	Company  string
	News     string
	Vehicles string
	Recruit  string
	Contact  string
}

type CacheConfig struct {
	Enabled bool
	Driver  string
	TTL     time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type TLSConfig struct {
	Domain     string
	Email      string
	StorageDir string
	HTTP3      bool
}

type ContactConfig struct {
	DefaultCategory string
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// If SetConfigFile was provided upstream it takes precedence; these paths
	// are fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	// SITE_* wins over the legacy names bound below.
	v.SetEnvPrefix("site")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range envAliases {
		envKey := "SITE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return err
		}
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	if strings.TrimSpace(v.GetString("tls.storage_dir")) == "" {
		v.Set("tls.storage_dir", filepath.Join(expandHome(v.GetString("data_dir")), "certs"))
	}
	return nil
}

// FromViper builds the immutable Config from a loaded Viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	if err := CheckConfigValidity(v); err != nil {
		return Config{}, err
	}
	return Config{
		HTTPAddr: v.GetString("http_addr"),
		DataDir:  expandHome(v.GetString("data_dir")),
		Site: SiteConfig{
			BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("site.base_url")), "/"),
			Name:    v.GetString("site.name"),
		},
		Airtable: AirtableConfig{
			APIURL:      strings.TrimRight(v.GetString("airtable.api_url"), "/"),
			APIKey:      strings.TrimSpace(v.GetString("airtable.api_key")),
			KeyProvider: strings.ToLower(strings.TrimSpace(v.GetString("airtable.key_provider"))),
			BaseID:      strings.TrimSpace(v.GetString("airtable.base_id")),
			Timeout:     v.GetDuration("airtable.timeout"),
			Tables: Tables{
				Company:  v.GetString("airtable.tables.company"),
				News:     v.GetString("airtable.tables.news"),
				Vehicles: v.GetString("airtable.tables.vehicles"),
				Recruit:  v.GetString("airtable.tables.recruit"),
				Contact:  v.GetString("airtable.tables.contact"),
			},
		},
		Cache: CacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			Driver:  strings.ToLower(v.GetString("cache.driver")),
			TTL:     v.GetDuration("cache.ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		TLS: TLSConfig{
			Domain:     strings.TrimSpace(v.GetString("tls.domain")),
			Email:      strings.TrimSpace(v.GetString("tls.email")),
			StorageDir: expandHome(v.GetString("tls.storage_dir")),
			HTTP3:      v.GetBool("tls.http3"),
		},
		Contact: ContactConfig{
			DefaultCategory: strings.TrimSpace(v.GetString("contact.default_category")),
		},
	}, nil
}

// CacheDSN returns the store URL for the configured cache driver.
func (c Config) CacheDSN() string {
	if c.Cache.Driver == "mem" {
		return "mem://"
	}
	return "sqlite://" + filepath.Join(c.DataDir, "site-cache.db")
}

// defaultDataDir resolves $XDG_DATA_HOME/sinwa-site or ~/.local/share/sinwa-site.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appName, "config.toml")
}

func expandHome(dir string) string {
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[1:])
		}
	}
	return dir
}
