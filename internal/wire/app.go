package wire

import (
	"context"

	"github.com/sinwaunyu/site/internal/airtable"
	"github.com/sinwaunyu/site/internal/cache"
	"github.com/sinwaunyu/site/internal/config"
	"github.com/sinwaunyu/site/internal/content"
	"github.com/sinwaunyu/site/internal/logging"
	"github.com/sinwaunyu/site/internal/secrets"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      config.Config
	Logs     logging.Provider
	Airtable *airtable.Client
	Store    cache.Store
	Content  *content.Service
}

// BuildApp wires the content service for cfg: token, Airtable client, the
// optional record cache and the service on top.
func BuildApp(ctx context.Context, cfg config.Config, logs logging.Provider) (*App, error) {
	if logs == nil {
		logs = logging.NoOpProvider{}
	}
	if err := config.RequireAirtable(cfg); err != nil {
		return nil, err
	}
	token, err := secrets.Token(cfg)
	if err != nil {
		return nil, err
	}

	client := airtable.New(airtable.Options{
		APIURL:  cfg.Airtable.APIURL,
		BaseID:  cfg.Airtable.BaseID,
		Token:   token,
		Timeout: cfg.Airtable.Timeout,
		Log:     logs.GetLogger(logging.ModuleAirtable),
	})
	app := &App{Cfg: cfg, Logs: logs, Airtable: client}

	var backend content.Backend = client
	if cfg.Cache.Enabled {
		store, err := cache.Open(ctx, cfg.CacheDSN())
		if err != nil {
			return nil, err
		}
		app.Store = store
		backend = cache.NewSource(client, store, cfg.Cache.TTL, logs.GetLogger(logging.ModuleCache))
	}

	app.Content = content.NewService(backend, content.Options{
		Tables:          cfg.Airtable.Tables,
		DefaultCategory: cfg.Contact.DefaultCategory,
		Log:             logs.GetLogger(logging.ModuleContent),
	})
	return app, nil
}

// Close releases the cache store.
func (a *App) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
