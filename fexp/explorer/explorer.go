// Package explorer ties the indexer, the path trie and the query language
// together: build once, then search many times.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/fast-explorer/fexp/filesystem"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/filesystem/options"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/filesystem/types"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/indexing"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/query"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/trees"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNotBuilt is returned by operations that need an index before Build ran.
	ErrNotBuilt = errors.New("index has not been built")
	// ErrNotIndexed is returned by Lookup for a path outside the index.
	ErrNotIndexed = errors.New("path is not indexed")
)

// Explorer owns one PathTrie. Build fills it; afterwards the trie is only
// read, so any number of goroutines may Search concurrently. Build must not
// run concurrently with Search.
type Explorer struct {
	opts   options.IndexOptions
	logger zerolog.Logger
	trie   *trees.PathTrie
	report *types.BuildReport
}

// New creates an explorer that will index opts.Root on Build.
func New(opts options.IndexOptions, logger zerolog.Logger) *Explorer {
	return &Explorer{
		opts:   opts,
		logger: logger.With().Str("component", "explorer").Logger(),
	}
}

// NewFromTrie wraps an already built trie.
func NewFromTrie(trie *trees.PathTrie, logger zerolog.Logger) *Explorer {
	return &Explorer{
		opts:   options.IndexOptions{Root: trie.Root().FullPath(), MaxDepth: -1},
		logger: logger.With().Str("component", "explorer").Logger(),
		trie:   trie,
	}
}

// Build indexes the root directory into a fresh trie. The previous trie, if
// any, is replaced only when the build succeeds.
func (e *Explorer) Build(ctx context.Context) (*types.BuildReport, error) {
	root := filepath.Clean(e.opts.Root)

	var trieOpts []trees.TrieOption
	trieOpts = append(trieOpts, trees.WithLogger(e.logger))
	if info, err := os.Stat(root); err == nil {
		trieOpts = append(trieOpts, trees.WithRootModified(info.ModTime()))
	}
	trie := trees.NewPathTrie(root, trieOpts...)

	report, err := filesystem.NewIndexer(e.opts, e.logger).Index(ctx, trie)
	if err != nil {
		return report, fmt.Errorf("failed to build index: %w", err)
	}

	for _, p := range report.Placeholders {
		e.logger.Warn().Str("path", p.FullPath).Strs("segments", p.Segments).Msg("directory indexed without its own entry")
	}

	if e.logger.GetLevel() <= zerolog.DebugLevel && zerolog.GlobalLevel() <= zerolog.DebugLevel {
		e.checkIndex(trie)
	}

	e.trie = trie
	e.report = report
	return report, nil
}

// checkIndex cross-checks the path index against the trie it was filled from.
func (e *Explorer) checkIndex(trie *trees.PathTrie) {
	idx := trie.Index()
	stats := idx.Stats()
	e.logger.Debug().
		Int64("paths", idx.Size()).
		Int64("insertions", stats.Insertions).
		Int64("rejected", stats.Rejected).
		Msg("path index built")

	for _, err := range idx.Validate() {
		e.logger.Error().Err(err).Msg("path index inconsistent")
	}
}

// Trie returns the current trie, or nil before Build.
func (e *Explorer) Trie() *trees.PathTrie { return e.trie }

// Report returns the last build report, or nil.
func (e *Explorer) Report() *types.BuildReport { return e.report }

// Root returns the indexed directory.
func (e *Explorer) Root() string { return e.opts.Root }

// Search runs raw against the index and returns the matching nodes in
// traversal order. No match, or no index yet, yields an empty slice.
func (e *Explorer) Search(raw string) []trees.SearchResult {
	results, _ := e.SearchWithDiagnostics(raw)
	return results
}

// SearchWithDiagnostics is Search that also returns the directives the parser
// dropped.
func (e *Explorer) SearchWithDiagnostics(raw string) ([]trees.SearchResult, []query.Warning) {
	q := query.Parse(raw)
	for _, w := range q.Warnings {
		e.logger.Debug().Str("token", w.Token).Str("reason", w.Reason).Msg("query directive ignored")
	}
	return e.SearchQuery(q), q.Warnings
}

// SearchQuery runs an already parsed query.
func (e *Explorer) SearchQuery(q query.Query) []trees.SearchResult {
	results := make([]trees.SearchResult, 0)
	if e.trie == nil {
		return results
	}

	e.trie.SearchPattern(q.Term, &results)
	if q.Filter.IsZero() {
		return results
	}

	kept := results[:0]
	for _, r := range results {
		if q.Filter.Matches(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Lookup returns the entry at exactly path. A relative path is taken from
// the indexed root.
func (e *Explorer) Lookup(path string) (trees.SearchResult, error) {
	if e.trie == nil {
		return trees.SearchResult{}, ErrNotBuilt
	}

	abs := e.resolve(path)
	res, ok := e.trie.Lookup(abs)
	if !ok {
		return trees.SearchResult{}, fmt.Errorf("%s: %w", abs, ErrNotIndexed)
	}
	return res, nil
}

// List returns every entry whose full path starts with prefix, in ascending
// path order. A relative prefix is taken from the indexed root.
func (e *Explorer) List(prefix string) ([]trees.SearchResult, error) {
	if e.trie == nil {
		return nil, ErrNotBuilt
	}
	return e.trie.LookupPrefix(e.resolve(prefix)), nil
}

func (e *Explorer) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.trie.Root().FullPath(), path)
}

// Stats summarizes the current index.
func (e *Explorer) Stats(ctx context.Context, topN int) (*indexing.IndexStats, error) {
	if e.trie == nil {
		return nil, ErrNotBuilt
	}

	buildID := uuid.Nil
	if e.report != nil {
		buildID = e.report.BuildID
	}

	snap, err := indexing.BuildSnapshot(ctx, e.trie, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot index: %w", err)
	}
	metrics, err := e.trie.CollectMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect trie metrics: %w", err)
	}

	stats := indexing.ComputeStats(snap, topN)
	stats.Placeholders = metrics.Placeholders
	return stats, nil
}
