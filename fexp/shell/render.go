package shell

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZanzyTHEbar/fast-explorer/fexp/filesystem/types"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/indexing"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/query"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/trees"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	typeWidth = 8
	sizeWidth = 12
	// Width of the Type, Size and Modified columns plus separators.
	tailWidth = 40
)

// ColorMode selects when output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ColorEnabled resolves mode for out. Auto colors only terminals.
func ColorEnabled(mode ColorMode, out io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RenderOptions controls result tables.
type RenderOptions struct {
	Color      ColorMode
	PathWidth  int
	MaxResults int // 0 renders every row
}

// Renderer writes search results, build reports and stats as text tables.
type Renderer struct {
	out        io.Writer
	pathWidth  int
	maxResults int

	bold   *color.Color
	file   *color.Color
	dir    *color.Color
	dim    *color.Color
	yellow *color.Color
}

func NewRenderer(out io.Writer, opts RenderOptions) *Renderer {
	r := &Renderer{
		out:        out,
		pathWidth:  opts.PathWidth,
		maxResults: opts.MaxResults,
		bold:       color.New(color.Bold),
		file:       color.New(color.FgGreen),
		dir:        color.New(color.FgCyan, color.Bold),
		dim:        color.New(color.Faint),
		yellow:     color.New(color.FgYellow),
	}

	enabled := ColorEnabled(opts.Color, out)
	for _, c := range []*color.Color{r.bold, r.file, r.dir, r.dim, r.yellow} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Results prints the result table for raw, followed by any dropped
// directives.
func (r *Renderer) Results(raw string, results []trees.SearchResult, warnings []query.Warning) {
	if len(results) == 0 {
		fmt.Fprintf(r.out, "No matches found for '%s'\n", raw)
	} else {
		fmt.Fprintf(r.out, "\nFound %d matches for '%s':\n", len(results), raw)
		fmt.Fprintf(r.out, "\n%s %s %s %s\n",
			PadRight("Path", r.pathWidth),
			PadRight("Type", typeWidth),
			PadRight("Size", sizeWidth),
			"Modified")
		fmt.Fprintln(r.out, rule(r.pathWidth+tailWidth))

		shown := results
		if r.maxResults > 0 && len(shown) > r.maxResults {
			shown = shown[:r.maxResults]
		}
		for _, res := range shown {
			r.row(res)
		}
		if hidden := len(results) - len(shown); hidden > 0 {
			r.dim.Fprintf(r.out, "... %d more not shown\n", hidden)
		}
	}

	for _, w := range warnings {
		r.dim.Fprintf(r.out, "ignored %s\n", w)
	}
}

func (r *Renderer) row(res trees.SearchResult) {
	kind := r.dir.Sprint(PadRight(res.Kind(), typeWidth))
	size := "-"
	if res.IsFile {
		kind = r.file.Sprint(PadRight(res.Kind(), typeWidth))
		size = query.FormatSize(res.Size)
	}

	fmt.Fprintf(r.out, "%s %s %s %s\n",
		PadRight(res.Path, r.pathWidth),
		kind,
		PadRight(size, sizeWidth),
		FormatTime(res.Modified))
}

// Entry prints the details of a single entry.
func (r *Renderer) Entry(res trees.SearchResult) {
	kind := r.dir.Sprint(res.Kind())
	size := "-"
	if res.IsFile {
		kind = r.file.Sprint(res.Kind())
		size = fmt.Sprintf("%s (%d bytes)", query.FormatSize(res.Size), res.Size)
	}

	fmt.Fprintf(r.out, "Path:     %s\n", res.Path)
	fmt.Fprintf(r.out, "Type:     %s\n", kind)
	fmt.Fprintf(r.out, "Size:     %s\n", size)
	fmt.Fprintf(r.out, "Modified: %s\n", FormatTime(res.Modified))
}

// BuildReport prints the outcome of an index build.
func (r *Renderer) BuildReport(report *types.BuildReport) {
	fmt.Fprintf(r.out, "File index built successfully! %d directories, %d files in %s\n",
		report.Dirs, report.Files, report.Duration.Round(time.Millisecond))

	if n := len(report.Diagnostics); n > 0 {
		r.yellow.Fprintf(r.out, "%d entries could not be read:\n", n)
		for _, d := range report.Diagnostics {
			r.dim.Fprintf(r.out, "  %s\n", d.Error())
		}
	}
	for _, p := range report.Placeholders {
		r.yellow.Fprintf(r.out, "directory without its own entry: %s\n", p.FullPath)
	}
}

// Stats prints an index summary.
func (r *Renderer) Stats(stats *indexing.IndexStats) {
	r.bold.Fprintf(r.out, "\nIndex of %s\n", stats.Root)
	fmt.Fprintf(r.out, "Files:       %d\n", stats.TotalFiles)
	fmt.Fprintf(r.out, "Directories: %d\n", stats.TotalDirs)
	fmt.Fprintf(r.out, "Total size:  %s\n", query.FormatSize(stats.TotalSize))
	fmt.Fprintf(r.out, "Average:     %s\n", query.FormatSize(stats.AvgFileSize))
	fmt.Fprintf(r.out, "Max depth:   %d\n", stats.MaxDepth)
	if stats.Placeholders > 0 {
		r.yellow.Fprintf(r.out, "Unlisted:    %d directories without their own entry\n", stats.Placeholders)
	}
	if stats.TotalFiles > 0 {
		fmt.Fprintf(r.out, "Oldest:      %s\n", FormatTime(stats.OldestFile))
		fmt.Fprintf(r.out, "Newest:      %s\n", FormatTime(stats.NewestFile))
	}

	if len(stats.TopExtensions) > 0 {
		r.bold.Fprintln(r.out, "\nTop extensions")
		for _, e := range stats.TopExtensions {
			fmt.Fprintf(r.out, "  %s %8d %s\n", PadRight("."+e.Extension, sizeWidth), e.Count, query.FormatSize(e.Size))
			for _, y := range e.Years {
				r.dim.Fprintf(r.out, "    %d %8d %s\n", y.Year, y.Count, query.FormatSize(y.Size))
			}
		}
		fmt.Fprintf(r.out, "  listed extensions cover %d of %d files\n", stats.TopExtensionFiles, stats.TotalFiles)
	}

	if len(stats.SizeDistribution) > 0 {
		r.bold.Fprintln(r.out, "\nSizes")
		for _, b := range stats.SizeDistribution {
			fmt.Fprintf(r.out, "  %s %8d %s\n", PadRight(b.Label, 16), b.Count, query.FormatSize(b.Size))
		}
	}

	if len(stats.YearDistribution) > 0 {
		r.bold.Fprintln(r.out, "\nYears")
		for _, y := range stats.YearDistribution {
			fmt.Fprintf(r.out, "  %d %8d %s\n", y.Year, y.Count, query.FormatSize(y.Size))
		}
	}

	if len(stats.LargestFiles) > 0 {
		r.bold.Fprintln(r.out, "\nLargest files")
		for _, f := range stats.LargestFiles {
			fmt.Fprintf(r.out, "  %s %s\n", PadRight(query.FormatSize(f.Size), sizeWidth), f.Path)
		}
	}
}

// Error prints a command failure without leaving the shell.
func (r *Renderer) Error(err error) {
	r.yellow.Fprintf(r.out, "error: %v\n", err)
}
