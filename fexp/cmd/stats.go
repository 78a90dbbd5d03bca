package cmd

import (
	"github.com/ZanzyTHEbar/fast-explorer/fexp/shell"
	"github.com/spf13/cobra"
)

// NewStatsCommand creates the 'fexp stats' command
func NewStatsCommand(flags *globalFlags) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats <root>",
		Short: "Index root and print a summary",
		Long: `Index root and print file and directory counts, total size, the most
common extensions, size buckets, modification years and the largest files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, flags, args[0])
			if err != nil {
				return err
			}
			if err := s.build(cmd, false); err != nil {
				return err
			}

			if !cmd.Flags().Changed("top") {
				top = s.cfg.Shell.StatsTop
			}
			stats, err := s.explorer.Stats(cmd.Context(), top)
			if err != nil {
				return err
			}
			if s.format != shell.OutputTable {
				return shell.Encode(s.out, s.format, stats)
			}
			s.renderer.Stats(stats)
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "entries in each ranked list (default from shell.statsTop)")
	return cmd
}
