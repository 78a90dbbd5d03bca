package options

import (
	"runtime"

	internal "github.com/ZanzyTHEbar/fast-explorer/fexp"
)

// IndexOptions configures a directory index build
type IndexOptions struct {
	Root           string   // Directory to index
	MaxDepth       int      // Deepest entry depth indexed (-1 = unlimited, 0 = root only)
	IncludeHidden  bool     // Index dot-prefixed entries
	FollowSymlinks bool     // Classify symlinks by their target and descend into linked directories
	IgnoreFile     string   // gitignore-syntax file resolved against Root
	IgnorePatterns []string // Extra gitignore lines
	Workers        int      // Concurrent directory reads per level (<= 0 = default)
}

// DefaultIndexOptions returns the options used when nothing is configured.
func DefaultIndexOptions(root string) IndexOptions {
	return IndexOptions{
		Root:          root,
		MaxDepth:      -1,
		IncludeHidden: true,
		IgnoreFile:    internal.DefaultIgnoreFile,
		Workers:       DefaultWorkers(),
	}
}

// DefaultWorkers scales with the CPU count, bounded to [4, 32].
func DefaultWorkers() int {
	return min(max(runtime.NumCPU()*2, 4), 32)
}

// Unlimited reports whether the depth limit is disabled.
func (o IndexOptions) Unlimited() bool {
	return o.MaxDepth < 0
}
