package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sinwaunyu/site/internal/content"
	"github.com/sinwaunyu/site/internal/present"
	"github.com/sinwaunyu/site/internal/util"
	"github.com/sinwaunyu/site/pkg/api"
)

func newNewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Read published news",
	}
	cmd.AddCommand(newNewsListCmd(), newNewsShowCmd())
	return cmd
}

func newNewsListCmd() *cobra.Command {
	var out outputFlags
	var limit int
	var latest bool
	var since, until string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published news, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := util.ParseTimeRange(since, until, time.Now())
			if err != nil {
				return err
			}
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			var items []api.News
			if latest {
				items, err = app.Content.LatestNews(cmd.Context(), limit)
			} else {
				items, err = app.Content.AllNews(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			items = filterNews(items, window)
			return out.render(cmd, func(w io.Writer, opts present.Options) error {
				return present.RenderList(w, items, present.NewsTable, opts)
			})
		},
	}
	addOutputFlags(cmd, &out)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, fmt.Sprintf("maximum items (default %d, or %d with --latest)", content.AllNewsLimit, content.LatestNewsLimit))
	cmd.Flags().BoolVar(&latest, "latest", false, "show only the front-page items")
	cmd.Flags().StringVar(&since, "since", "", "only items published after (e.g. 2w, 1mo, 2024-01-31)")
	cmd.Flags().StringVar(&until, "until", "", "only items published before")
	return cmd
}

// filterNews keeps items inside window. Items without a parseable date are
// kept only when the window is open on both ends.
func filterNews(items []api.News, window util.TimeRange) []api.News {
	if window.Since.IsZero() && window.Until.IsZero() {
		return items
	}
	out := items[:0:0]
	for _, n := range items {
		if t, ok := n.Published(); ok && window.Contains(t) {
			out = append(out, n)
		}
	}
	return out
}

func newNewsShowCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:               "show <slug>",
		Short:             "Show one news item with its rendered body",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSlugs(func(news, _ []string) []string { return news }),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			n, err := app.Content.NewsBySlug(cmd.Context(), args[0])
			if err != nil {
				return withSuggestions(err)
			}
			return out.render(cmd, func(w io.Writer, opts present.Options) error {
				return present.RenderDoc(w, n, present.NewsDoc(n), opts)
			})
		},
	}
	addOutputFlags(cmd, &out)
	return cmd
}

// withSuggestions appends close slugs to a not-found error.
func withSuggestions(err error) error {
	var nf *content.NotFoundError
	if errors.As(err, &nf) && len(nf.Suggestions) > 0 {
		return fmt.Errorf("%s %q not found; did you mean %q?", nf.Kind, nf.Slug, nf.Suggestions)
	}
	return err
}

// completeSlugs completes positional slugs from the live tables.
func completeSlugs(pick func(news, recruit []string) []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		st, ok := cmd.Context().Value(stateKey).(*state)
		if !ok {
			return nil, cobra.ShellCompDirectiveError
		}
		app, err := st.App(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		news, recruit, err := app.Content.Slugs(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return pick(news, recruit), cobra.ShellCompDirectiveNoFileComp
	}
}
