package trees

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/armon/go-radix"
)

// ErrPathIndexed is returned when a full path is already held by another node.
var ErrPathIndexed = errors.New("path already indexed")

// PathIndexStats tracks counters for the path index
type PathIndexStats struct {
	TotalNodes    int64
	PathLookups   int64
	PrefixLookups int64
	Insertions    int64
	Rejected      int64
}

// PathIndex provides O(k) exact and prefix lookups over full paths using a
// compressed trie (patricia tree), where k is the length of the path.
// It complements the segment trie, which answers substring queries.
// Lookups are safe for concurrent use once inserts have finished.
type PathIndex struct {
	tree          *radix.Tree
	stats         PathIndexStats
	pathLookups   atomic.Int64
	prefixLookups atomic.Int64
}

// NewPathIndex creates an empty path index
func NewPathIndex() *PathIndex {
	return &PathIndex{
		tree: radix.New(),
	}
}

// Insert adds node under its normalized full path. The first node registered
// for a path keeps it.
func (idx *PathIndex) Insert(node *Node) error {
	if node == nil {
		return fmt.Errorf("invalid input: node cannot be nil")
	}

	path := normalizePath(node.fullPath)
	if existing, found := idx.tree.Get(path); found && existing.(*Node) != node {
		idx.stats.Rejected++
		return fmt.Errorf("%w: %s", ErrPathIndexed, path)
	}

	if _, updated := idx.tree.Insert(path, node); !updated {
		idx.stats.TotalNodes++
	}
	idx.stats.Insertions++

	return nil
}

// Lookup finds a node by its exact path
func (idx *PathIndex) Lookup(path string) (*Node, bool) {
	idx.pathLookups.Add(1)

	value, found := idx.tree.Get(normalizePath(path))
	if !found {
		return nil, false
	}
	return value.(*Node), true
}

// PrefixLookup finds all nodes whose paths start with the given prefix, in
// ascending key order.
func (idx *PathIndex) PrefixLookup(prefix string) []*Node {
	idx.prefixLookups.Add(1)

	var results []*Node
	idx.tree.WalkPrefix(normalizePath(prefix), func(key string, value interface{}) bool {
		if node, ok := value.(*Node); ok {
			results = append(results, node)
		}
		return false // Continue walking
	})
	return results
}

// Size returns the total number of paths in the index
func (idx *PathIndex) Size() int64 {
	return idx.stats.TotalNodes
}

// Stats returns a copy of the current statistics
func (idx *PathIndex) Stats() PathIndexStats {
	stats := idx.stats
	stats.PathLookups = idx.pathLookups.Load()
	stats.PrefixLookups = idx.prefixLookups.Load()
	return stats
}

// Validate checks that every key maps to a node whose own full path
// normalizes back to that key, and that the counters agree with the tree.
func (idx *PathIndex) Validate() []error {
	var errs []error

	count := 0
	idx.tree.Walk(func(key string, value interface{}) bool {
		count++

		node, ok := value.(*Node)
		if !ok {
			errs = append(errs, fmt.Errorf("invalid_node_type: %s", key))
			return false
		}
		if got := normalizePath(node.fullPath); got != key {
			errs = append(errs, fmt.Errorf("key_mismatch: key %s holds node for %s", key, got))
		}
		if node.placeholder {
			errs = append(errs, fmt.Errorf("placeholder_indexed: %s", key))
		}
		return false
	})

	if int64(count) != idx.stats.TotalNodes {
		errs = append(errs, fmt.Errorf("stats_mismatch: tree holds %d paths, stats report %d", count, idx.stats.TotalNodes))
	}

	return errs
}

// normalizePath ensures consistent path formatting for the index
func normalizePath(path string) string {
	if path == "" {
		return ""
	}

	// Backslash is an ordinary name byte outside Windows.
	normalized := filepath.ToSlash(filepath.Clean(path))

	// Remove trailing slash unless it's the root
	if len(normalized) > 1 && strings.HasSuffix(normalized, "/") {
		normalized = strings.TrimSuffix(normalized, "/")
	}

	return normalized
}
