package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/fast-explorer/fexp/explorer"
	"github.com/rs/zerolog"
)

const (
	maxLineBytes = 1 << 20

	helpText = `Type any text to search full paths (case-sensitive substring).
Directives narrow the results:
  @file            only files
  @dir, @folder    only directories
  @ext:<ext>       extension, any case (@ext:go)
  @size>10MB       at least; units KB, MB, GB
  @size<1GB        at most
  @date:2024       modified in year
Commands:
  :info <path>     exact entry, relative to the root
  :ls <prefix>     every entry whose path starts with prefix
  :stats           index summary
  :help            this text
  :quit, :q        leave (Ctrl-D also works)`
)

// Options configures a Shell. Renderer, when set, is used instead of one
// built from Render.
type Options struct {
	Prompt    string
	Render    RenderOptions
	Renderer  *Renderer
	StatsTopN int
}

// Shell is the interactive read-search-print loop over an Explorer.
type Shell struct {
	explorer *explorer.Explorer
	in       io.Reader
	out      io.Writer
	renderer *Renderer
	prompt   string
	topN     int
	logger   zerolog.Logger
}

func New(ex *explorer.Explorer, in io.Reader, out io.Writer, opts Options, logger zerolog.Logger) *Shell {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = "> "
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = NewRenderer(out, opts.Render)
	}

	return &Shell{
		explorer: ex,
		in:       in,
		out:      out,
		renderer: renderer,
		prompt:   prompt,
		topN:     opts.StatsTopN,
		logger:   logger.With().Str("component", "shell").Logger(),
	}
}

// Run reads queries line by line until :quit, end of input or ctx is done.
// Blank lines are ignored. Cancelling ctx returns at once even while a read
// is blocked; the reading goroutine then ends with the input.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "\nWelcome to Fast File Explorer!")
	fmt.Fprintln(s.out, "Type a file name to start searching (:help for directives)")

	done := make(chan struct{})
	defer close(done)
	lines, readErr := s.readLines(done)

	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprintf(s.out, "\n%s", s.prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			s.logger.Debug().Msg("shell interrupted")
			return nil
		case raw, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}

			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			if s.Execute(ctx, line) {
				return nil
			}
		}
	}
}

// readLines scans s.in on its own goroutine. lines is closed at end of
// input, after the scan error, possibly nil, is sent on errc.
func (s *Shell) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

// Execute handles one input line and reports whether the shell should exit.
// Lines that are not a known command are searched, including unknown
// ":" words.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch {
	case line == ":quit" || line == ":q":
		return true
	case line == ":help":
		fmt.Fprintln(s.out, helpText)
	case cmd == ":info":
		if arg == "" {
			s.renderer.Error(errors.New("usage: :info <path>"))
			return false
		}
		res, err := s.explorer.Lookup(arg)
		if err != nil {
			s.renderer.Error(err)
			return false
		}
		s.renderer.Entry(res)
	case cmd == ":ls":
		results, err := s.explorer.List(arg)
		if err != nil {
			s.renderer.Error(err)
			return false
		}
		s.renderer.Results(line, results, nil)
	case line == ":stats":
		stats, err := s.explorer.Stats(ctx, s.topN)
		if err != nil {
			s.logger.Error().Err(err).Msg("stats failed")
			s.renderer.Error(err)
			return false
		}
		s.renderer.Stats(stats)
	default:
		results, warnings := s.explorer.SearchWithDiagnostics(line)
		s.logger.Debug().Str("query", line).Int("results", len(results)).Msg("search")
		s.renderer.Results(line, results, warnings)
	}
	return false
}
