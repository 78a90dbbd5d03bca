package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/fast-explorer/fexp/filesystem/common"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/filesystem/options"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/filesystem/types"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/trees"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sourcegraph/conc/pool"
)

// IgnoreChecker decides whether a root-relative, slash-separated path is excluded
type IgnoreChecker interface {
	MatchesPath(path string) bool
}

type entryKind int

const (
	kindOther entryKind = iota
	kindFile
	kindDir
)

// dirJob is one directory queued for reading
type dirJob struct {
	path     string
	segments []string
}

type pendingEntry struct {
	segments []string
	entry    trees.Entry
	kind     entryKind
	resolved string // real path of a directory, set only when following symlinks
}

// listing is the result of reading one directory
type listing struct {
	entries     []pendingEntry
	diagnostics []types.Diagnostic
	skipped     int
	err         error
}

// Indexer walks a directory tree breadth first and loads it into a PathTrie.
// Each level is read concurrently; entries are inserted on the calling
// goroutine in level order, so a parent always precedes its children and the
// trie only ever sees one writer.
type Indexer struct {
	opts   options.IndexOptions
	logger zerolog.Logger
}

// NewIndexer creates an indexer for opts.Root.
func NewIndexer(opts options.IndexOptions, logger zerolog.Logger) *Indexer {
	if opts.Workers <= 0 {
		opts.Workers = options.DefaultWorkers()
	}

	return &Indexer{
		opts:   opts,
		logger: logger.With().Str("component", "indexer").Logger(),
	}
}

// Options returns the effective options.
func (ix *Indexer) Options() options.IndexOptions {
	return ix.opts
}

// Index loads every entry below the root into trie. It fails only when the
// root itself cannot be read or ctx is cancelled; in the latter case the
// partial report is returned alongside the error. Unreadable entries are
// logged and collected in the report's Diagnostics.
func (ix *Indexer) Index(ctx context.Context, trie *trees.PathTrie) (*types.BuildReport, error) {
	if ix.opts.Root == "" {
		return nil, common.ErrPathEmpty
	}

	root := filepath.Clean(ix.opts.Root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, common.ErrNotDirectory)
	}

	start := time.Now()
	report := &types.BuildReport{BuildID: uuid.New(), Root: root}
	logger := ix.logger.With().
		Str("build_id", report.BuildID.String()).
		Str("root", root).
		Logger()
	logger.Info().Int("workers", ix.opts.Workers).Int("max_depth", ix.opts.MaxDepth).Msg("index build started")

	finish := func() {
		report.Duration = time.Since(start)
		report.Placeholders = trie.Placeholders()
	}

	matcher, err := ix.loadIgnore(root)
	if err != nil {
		logger.Warn().Err(err).Msg("ignore file unreadable, indexing without it")
		report.Diagnostics = append(report.Diagnostics, types.Diagnostic{
			Path: ix.ignorePath(root),
			Op:   types.OpIgnore,
			Err:  err,
		})
	}

	visited := make(map[string]struct{})
	if ix.opts.FollowSymlinks {
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			visited[resolved] = struct{}{}
		}
	}

	level := []dirJob{{path: root}}
	for depth := 0; len(level) > 0; depth++ {
		if !ix.opts.Unlimited() && depth >= ix.opts.MaxDepth {
			break
		}
		if err := ctx.Err(); err != nil {
			finish()
			return report, fmt.Errorf("%w at depth %d: %w", common.ErrBuildCancelled, depth, err)
		}

		listings := ix.readLevel(ctx, level, matcher, logger)
		if err := ctx.Err(); err != nil {
			finish()
			return report, fmt.Errorf("%w at depth %d: %w", common.ErrBuildCancelled, depth, err)
		}

		var next []dirJob
		for _, l := range listings {
			if l.err != nil && depth == 0 {
				return nil, fmt.Errorf("failed to read root %s: %w", root, l.err)
			}
			report.Diagnostics = append(report.Diagnostics, l.diagnostics...)
			report.Skipped += l.skipped

			for _, pe := range l.entries {
				trie.Insert(pe.segments, pe.entry)
				switch pe.kind {
				case kindFile:
					report.Files++
				case kindOther:
					report.Others++
				case kindDir:
					report.Dirs++
					if pe.resolved != "" {
						if _, seen := visited[pe.resolved]; seen {
							logger.Debug().Str("path", pe.entry.FullPath).Str("target", pe.resolved).Msg("directory already indexed, not descending")
							continue
						}
						visited[pe.resolved] = struct{}{}
					}
					next = append(next, dirJob{path: pe.entry.FullPath, segments: pe.segments})
				}
			}
		}

		logger.Debug().Int("depth", depth).Int("dirs", len(level)).Int("next", len(next)).Msg("level indexed")
		level = next
	}

	finish()
	logger.Info().
		Int("entries", report.Entries()).
		Int("dirs", report.Dirs).
		Int("files", report.Files).
		Int("others", report.Others).
		Int("skipped", report.Skipped).
		Int("diagnostics", len(report.Diagnostics)).
		Dur("duration", report.Duration).
		Msg("index build finished")

	return report, nil
}

// readLevel reads every directory of one level on a bounded worker pool.
// Results keep the order of jobs.
func (ix *Indexer) readLevel(ctx context.Context, jobs []dirJob, matcher IgnoreChecker, logger zerolog.Logger) []listing {
	listings := make([]listing, len(jobs))

	levelPool := pool.New().WithMaxGoroutines(ix.opts.Workers).WithContext(ctx)
	for i, job := range jobs {
		levelPool.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				return nil
			}
			listings[i] = ix.readDir(job, matcher, logger)
			return nil
		})
	}
	_ = levelPool.Wait()

	return listings
}

func (ix *Indexer) readDir(job dirJob, matcher IgnoreChecker, logger zerolog.Logger) listing {
	var l listing

	dirents, err := os.ReadDir(job.path)
	if err != nil {
		logger.Warn().Err(err).Str("path", job.path).Msg("failed to read directory")
		l.err = err
		l.diagnostics = append(l.diagnostics, types.Diagnostic{Path: job.path, Op: types.OpReadDir, Err: err})
		return l
	}

	for _, d := range dirents {
		name := d.Name()
		if !ix.opts.IncludeHidden && strings.HasPrefix(name, ".") {
			l.skipped++
			continue
		}

		segments := make([]string, len(job.segments)+1)
		copy(segments, job.segments)
		segments[len(job.segments)] = name

		if matcher != nil && ignored(matcher, segments, d.IsDir()) {
			l.skipped++
			continue
		}

		fullPath := filepath.Join(job.path, name)
		info, err := d.Info()
		if err != nil {
			logger.Warn().Err(err).Str("path", fullPath).Msg("failed to read entry metadata")
			l.diagnostics = append(l.diagnostics, types.Diagnostic{Path: fullPath, Op: types.OpInfo, Err: err})
			continue
		}

		pe, diag := ix.classify(segments, fullPath, info)
		if diag != nil {
			logger.Warn().Err(diag.Err).Str("path", fullPath).Str("op", string(diag.Op)).Msg("failed to resolve entry")
			l.diagnostics = append(l.diagnostics, *diag)
		}
		l.entries = append(l.entries, pe)
	}

	return l
}

// classify builds the trie entry for one directory entry. A symlink stays a
// non-file entry unless symlinks are followed, in which case it takes the
// type and size of its target.
func (ix *Indexer) classify(segments []string, fullPath string, info fs.FileInfo) (pendingEntry, *types.Diagnostic) {
	pe := pendingEntry{
		segments: segments,
		entry: trees.Entry{
			FullPath: fullPath,
			Modified: info.ModTime(),
		},
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		if !ix.opts.FollowSymlinks {
			return pe, nil
		}
		target, err := os.Stat(fullPath)
		if err != nil {
			return pe, &types.Diagnostic{Path: fullPath, Op: types.OpStat, Err: err}
		}
		info = target
		pe.entry.Modified = target.ModTime()
	}

	switch mode := info.Mode(); {
	case mode.IsDir():
		pe.kind = kindDir
		if ix.opts.FollowSymlinks {
			resolved, err := filepath.EvalSymlinks(fullPath)
			if err != nil {
				return pe, &types.Diagnostic{Path: fullPath, Op: types.OpReadlink, Err: err}
			}
			pe.resolved = resolved
		}
	case mode.IsRegular():
		pe.kind = kindFile
		pe.entry.IsFile = true
		pe.entry.Size = uint64(max(info.Size(), 0))
	}

	return pe, nil
}

// ignored matches the slash-joined relative path; directories are also tried
// with a trailing slash so "build/" style patterns exclude the directory itself.
func ignored(matcher IgnoreChecker, segments []string, isDir bool) bool {
	rel := strings.Join(segments, "/")
	if matcher.MatchesPath(rel) {
		return true
	}
	return isDir && matcher.MatchesPath(rel+"/")
}

func (ix *Indexer) ignorePath(root string) string {
	if ix.opts.IgnoreFile == "" || filepath.IsAbs(ix.opts.IgnoreFile) {
		return ix.opts.IgnoreFile
	}
	return filepath.Join(root, ix.opts.IgnoreFile)
}

// loadIgnore compiles the ignore file, if present, together with the extra
// patterns. A missing ignore file is not an error.
func (ix *Indexer) loadIgnore(root string) (IgnoreChecker, error) {
	lines := ix.opts.IgnorePatterns

	path := ix.ignorePath(root)
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			gi, err := ignore.CompileIgnoreFileAndLines(path, lines...)
			if err != nil {
				return ix.compileLines(lines), fmt.Errorf("failed to compile ignore file %s: %w", path, err)
			}
			return gi, nil
		case !errors.Is(err, fs.ErrNotExist):
			return ix.compileLines(lines), fmt.Errorf("failed to stat ignore file %s: %w", path, err)
		}
	}

	return ix.compileLines(lines), nil
}

func (ix *Indexer) compileLines(lines []string) IgnoreChecker {
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}
