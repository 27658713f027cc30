package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sinwaunyu/site/internal/logging"
	"github.com/sinwaunyu/site/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the content API server",
		Long: `Serve the site's content as JSON, plus sitemap.xml and robots.txt.

Without Airtable credentials the server still starts; content routes then
answer with a configuration error and /api/render keeps working.
With tls.domain set, certificates are managed automatically and
tls.http3 adds an HTTP/3 listener on the same port.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st := getState(cmd)
			log := st.logs.GetLogger(logging.ModuleHTTP)

			var c server.Content
			app, err := st.App(ctx)
			if err != nil {
				st.logs.GetLogger(logging.ModuleCLI).Warn("serve.content_unavailable", "error", err)
			} else {
				c = app.Content
			}
			srv := server.New(st.cfg, c, log)
			return server.Serve(ctx, st.cfg, srv.Router(), log)
		},
	}
	cmd.Flags().String("listen", "", "listen address (override config http_addr)")
	return cmd
}
