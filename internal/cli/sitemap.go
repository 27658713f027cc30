package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sinwaunyu/site/internal/server"
)

func newSitemapCmd() *cobra.Command {
	var static bool
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Print sitemap.xml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := getState(cmd)
			var slugs server.SitemapSlugs
			if !static {
				app, err := st.App(cmd.Context())
				if err != nil {
					return err
				}
				slugs = app.Content
			}
			urls, err := server.BuildSitemap(cmd.Context(), st.cfg.Site.BaseURL, slugs, time.Now())
			if err != nil {
				return err
			}
			body, err := server.MarshalSitemap(urls)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(body, '\n'))
			return err
		},
	}
	cmd.Flags().BoolVar(&static, "static", false, "only the fixed pages; does not contact Airtable")
	return cmd
}
