package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/firecast/internal/app"
)

func (c *CLI) newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <dir>",
		Short: "Play back the simulation frames found in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetDuration("interval")
			frameCap, _ := cmd.Flags().GetInt("cap")
			opacity, _ := cmd.Flags().GetFloat64("opacity")
			snapshot, _ := cmd.Flags().GetString("snapshot")

			return c.app.Play(cmd.Context(), app.PlayOptions{
				BaseDir:      args[0],
				Interval:     interval,
				FrameCap:     frameCap,
				Opacity:      opacity,
				SnapshotPath: snapshot,
			})
		},
	}
	cmd.Flags().DurationP("interval", "i", 0, "Time between frames (default from config)")
	cmd.Flags().Int("cap", 0, "Maximum number of frames to discover (default from config)")
	cmd.Flags().Float64("opacity", 0, "Opacity of the visible frame (default from config)")
	cmd.Flags().StringP("snapshot", "s", "", "Write the last frame to this PNG file")
	return cmd
}
