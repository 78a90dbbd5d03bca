package cmd

import (
	"strings"

	"github.com/ZanzyTHEbar/fast-explorer/fexp/shell"
	"github.com/spf13/cobra"
)

// NewSearchCommand creates the 'fexp search' command
func NewSearchCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <root> <query...>",
		Short: "Index root and run a single query",
		Long: `Index root and print the entries matching the query.

The query words are joined with spaces, so directives can be passed as
separate arguments:

  fexp search ~/src handler @file @ext:go`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, flags, args[0])
			if err != nil {
				return err
			}
			if err := s.build(cmd, false); err != nil {
				return err
			}

			raw := strings.Join(args[1:], " ")
			results, warnings := s.explorer.SearchWithDiagnostics(raw)
			if s.format != shell.OutputTable {
				return shell.Encode(s.out, s.format, shell.SearchOutput{
					Query:    raw,
					Count:    len(results),
					Results:  results,
					Warnings: warnings,
				})
			}
			s.renderer.Results(raw, results, warnings)
			return nil
		},
	}
}
