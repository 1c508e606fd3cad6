package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/firecast/internal/app"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <region> <code>",
		Short: "Show the forest-cover raster of a region, exporting it when not cached",
		Example: "  firecast resolve Maricopa AZ --geometry maricopa.geojson\n" +
			"  firecast resolve \"Miami Dade\" FL --geometry dade.geojson --snapshot dade.png",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			geometry, _ := cmd.Flags().GetString("geometry")
			snapshot, _ := cmd.Flags().GetString("snapshot")

			return c.app.Resolve(cmd.Context(), app.ResolveOptions{
				Region:       args[0],
				Code:         args[1],
				GeometryPath: geometry,
				SnapshotPath: snapshot,
			})
		},
	}
	cmd.Flags().StringP("geometry", "g", "", "GeoJSON file with the region geometry")
	cmd.Flags().StringP("snapshot", "s", "", "Write the rendered surface to this PNG file")
	_ = cmd.MarkFlagRequired("geometry")
	return cmd
}
