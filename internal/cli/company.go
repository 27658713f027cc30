package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/sinwaunyu/site/internal/present"
)

func newCompanyCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Show the company profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			c, err := app.Content.CompanyProfile(cmd.Context())
			if err != nil {
				return err
			}
			return out.render(cmd, func(w io.Writer, opts present.Options) error {
				return present.RenderDoc(w, c, present.CompanyDoc(c), opts)
			})
		},
	}
	addOutputFlags(cmd, &out)
	return cmd
}

func newVehiclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Read the vehicle fleet",
	}
	var out outputFlags
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List published vehicles in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			items, err := app.Content.Vehicles(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return out.render(cmd, func(w io.Writer, opts present.Options) error {
				return present.RenderList(w, items, present.VehicleTable, opts)
			})
		},
	}
	addOutputFlags(list, &out)
	list.Flags().IntVarP(&limit, "limit", "n", 0, "maximum vehicles (default 6)")
	cmd.AddCommand(list)
	return cmd
}
