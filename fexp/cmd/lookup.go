package cmd

import (
	"github.com/ZanzyTHEbar/fast-explorer/fexp/shell"
	"github.com/spf13/cobra"
)

// NewLookupCommand creates the 'fexp lookup' command
func NewLookupCommand(flags *globalFlags) *cobra.Command {
	var prefix bool

	cmd := &cobra.Command{
		Use:   "lookup <root> <path>",
		Short: "Index root and show the entry at an exact path",
		Long: `Index root and print the entry whose full path is exactly path.
A relative path is taken from root. With --prefix every entry whose path
starts with path is listed instead, in path order.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, flags, args[0])
			if err != nil {
				return err
			}
			if err := s.build(cmd, false); err != nil {
				return err
			}

			if prefix {
				results, err := s.explorer.List(args[1])
				if err != nil {
					return err
				}
				if s.format != shell.OutputTable {
					return shell.Encode(s.out, s.format, shell.SearchOutput{
						Query:   args[1],
						Count:   len(results),
						Results: results,
					})
				}
				s.renderer.Results(args[1], results, nil)
				return nil
			}

			res, err := s.explorer.Lookup(args[1])
			if err != nil {
				return err
			}
			if s.format != shell.OutputTable {
				return shell.Encode(s.out, s.format, res)
			}
			s.renderer.Entry(res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&prefix, "prefix", false, "list every entry under the path prefix")
	return cmd
}
