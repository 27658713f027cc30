package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sinwaunyu/site/internal/config"
	"github.com/sinwaunyu/site/internal/logging"
	"github.com/sinwaunyu/site/internal/wire"
)

type ctxKey string

const stateKey ctxKey = "state"

// skipConfigAnnotation marks commands that run without loading config.
const skipConfigAnnotation = "sinwa-site/skip-config"

// flagKeys maps root and command flags onto config keys.
var flagKeys = map[string]string{
	"listen":     "http_addr",
	"log-level":  "log.level",
	"log-format": "log.format",
	"cache":      "cache.enabled",
	"base-url":   "site.base_url",
}

// state is what PersistentPreRunE resolves for subcommands. The app is
// built on first use so that commands which never reach Airtable run
// without credentials.
type state struct {
	cfg   config.Config
	logs  logging.Provider
	app   *wire.App
	build func(ctx context.Context, cfg config.Config, logs logging.Provider) (*wire.App, error)
}

func (s *state) App(ctx context.Context) (*wire.App, error) {
	if s.app != nil {
		return s.app, nil
	}
	app, err := s.build(ctx, s.cfg, s.logs)
	if err != nil {
		return nil, err
	}
	s.app = app
	return app, nil
}

func (s *state) Close() error {
	return s.app.Close()
}

// session holds the state of one command run so it can be released
// however the run ends.
type session struct {
	st *state
}

func (s *session) Close() error {
	if s.st == nil {
		return nil
	}
	return s.st.Close()
}

// Execute builds the root command and runs it.
func Execute() error {
	cmd, sess := newRoot()
	return execute(cmd, sess)
}

func execute(cmd *cobra.Command, sess *session) (err error) {
	defer func() {
		if cerr := sess.Close(); err == nil {
			err = cerr
		}
	}()
	return cmd.Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRoot()
	return cmd
}

func newRoot() (*cobra.Command, *session) {
	sess := &session{}
	var cfgPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:           "sinwa-site",
		Short:         "Content API and tools for the 神和運輸 website",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsConfig(cmd) {
				return nil
			}
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, flagKeys)
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}

			var logs logging.Provider = logging.NoOpProvider{}
			if verbose || cmd.Name() == "serve" {
				p, err := logging.NewProvider(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
				if err != nil {
					return err
				}
				logs = p
			}
			st := &state{cfg: cfg, logs: logs, build: wire.BuildApp}
			sess.st = st
			cmd.SetContext(context.WithValue(cmd.Context(), stateKey, st))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (yaml|toml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable logging for every command, not only serve")
	pf.String("log-level", "", "override log.level")
	pf.String("log-format", "", "override log.format (console|json|pretty)")
	pf.Bool("cache", true, "use the local record cache")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newNewsCmd())
	cmd.AddCommand(newRecruitCmd())
	cmd.AddCommand(newVehiclesCmd())
	cmd.AddCommand(newCompanyCmd())
	cmd.AddCommand(newContactCmd())
	cmd.AddCommand(newSitemapCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newSecretsCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd, sess
}

func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

var errNoState = errors.New("internal error: config not loaded")

func getState(cmd *cobra.Command) *state {
	st, ok := cmd.Context().Value(stateKey).(*state)
	if !ok {
		fmt.Fprintln(os.Stderr, errNoState)
		os.Exit(1)
	}
	return st
}

func getApp(cmd *cobra.Command) (*wire.App, error) {
	return getState(cmd).App(cmd.Context())
}
