package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/sinwaunyu/site/internal/present"
)

func newRecruitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recruit",
		Short: "Read open positions",
	}
	cmd.AddCommand(newRecruitListCmd(), newRecruitShowCmd())
	return cmd
}

func newRecruitListCmd() *cobra.Command {
	var out outputFlags
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			items, err := app.Content.ActiveRecruitPositions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return out.render(cmd, func(w io.Writer, opts present.Options) error {
				return present.RenderList(w, items, present.RecruitTable, opts)
			})
		},
	}
	addOutputFlags(cmd, &out)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum positions (default 20)")
	return cmd
}

func newRecruitShowCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:               "show <slug>",
		Short:             "Show one position",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSlugs(func(_, recruit []string) []string { return recruit }),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			p, err := app.Content.RecruitBySlug(cmd.Context(), args[0])
			if err != nil {
				return withSuggestions(err)
			}
			return out.render(cmd, func(w io.Writer, opts present.Options) error {
				return present.RenderDoc(w, p, present.RecruitDoc(p), opts)
			})
		},
	}
	addOutputFlags(cmd, &out)
	return cmd
}
