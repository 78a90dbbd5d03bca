package cmd

import (
	"fmt"
	"io"

	internal "github.com/ZanzyTHEbar/fast-explorer/fexp"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/config"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/explorer"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/shell"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type globalFlags struct {
	configPath     string
	logLevel       string
	maxDepth       int
	includeHidden  bool
	followSymlinks bool
	color          string
	output         string
}

// session is everything a command needs once flags and config are resolved.
type session struct {
	cfg      *config.Config
	logger   zerolog.Logger
	explorer *explorer.Explorer
	renderer *shell.Renderer
	format   shell.OutputFormat
	out      io.Writer
}

// NewRootCommand creates and returns the root cobra command for fexp
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   internal.DefaultAppName + " [root]",
		Short: "Fast file explorer with an in-memory path index",
		Long: `fexp indexes a directory tree into memory once and then answers
substring searches over full paths instantly.

Queries accept directives such as @file, @dir, @ext:go, @size>10MB,
@size<1GB and @date:2024. Run without a subcommand for an interactive shell.`,
		Version:      Version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) == 1 {
				root = args[0]
			}
			return runShell(cmd, flags, root)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default searches ./config.yaml and "+internal.DefaultGlobalConfig+")")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.IntVar(&flags.maxDepth, "max-depth", -1, "deepest level to index (-1 = unlimited)")
	pf.BoolVar(&flags.includeHidden, "hidden", true, "index dot-prefixed entries")
	pf.BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	pf.StringVar(&flags.color, "color", "", "color output: auto, always, never")
	pf.StringVarP(&flags.output, "output", "o", string(shell.OutputTable), "search and stats output: table, json, yaml")

	cmd.AddCommand(NewSearchCommand(flags))
	cmd.AddCommand(NewStatsCommand(flags))
	cmd.AddCommand(NewLookupCommand(flags))

	return cmd
}

// newSession loads config, applies flags that were set explicitly and builds
// the index for root.
func newSession(cmd *cobra.Command, flags *globalFlags, root string) (*session, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if pf.Changed("max-depth") {
		cfg.Index.MaxDepth = flags.maxDepth
	}
	if pf.Changed("hidden") {
		cfg.Index.IncludeHidden = flags.includeHidden
	}
	if pf.Changed("follow-symlinks") {
		cfg.Index.FollowSymlinks = flags.followSymlinks
	}
	if pf.Changed("color") {
		cfg.Shell.Color = flags.color
	}

	format, err := shell.ParseOutputFormat(flags.output)
	if err != nil {
		return nil, err
	}

	logger := internal.NewLogger(cfg.LogOptions())
	out := cmd.OutOrStdout()

	s := &session{
		cfg:      cfg,
		logger:   logger,
		explorer: explorer.New(cfg.IndexOptions(root), logger),
		format:   format,
		out:      out,
		renderer: shell.NewRenderer(out, shell.RenderOptions{
			Color:      shell.ColorMode(cfg.Shell.Color),
			PathWidth:  cfg.Shell.PathWidth,
			MaxResults: cfg.Shell.MaxResults,
		}),
	}
	return s, nil
}

func (s *session) build(cmd *cobra.Command, announce bool) error {
	if announce {
		fmt.Fprintln(s.out, "Building file index...")
	}

	report, err := s.explorer.Build(cmd.Context())
	if err != nil {
		return err
	}

	if announce {
		s.renderer.BuildReport(report)
	} else if len(report.Diagnostics) > 0 {
		s.logger.Warn().Int("count", len(report.Diagnostics)).Msg("some entries could not be read")
	}
	return nil
}

func runShell(cmd *cobra.Command, flags *globalFlags, root string) error {
	s, err := newSession(cmd, flags, root)
	if err != nil {
		return err
	}
	if err := s.build(cmd, true); err != nil {
		return err
	}

	sh := shell.New(s.explorer, cmd.InOrStdin(), s.out, shell.Options{
		Prompt:    s.cfg.Shell.Prompt,
		Renderer:  s.renderer,
		StatsTopN: s.cfg.Shell.StatsTop,
	}, s.logger)
	return sh.Run(cmd.Context())
}
