package trees

import (
	"context"
	"time"
)

// TrieMetrics holds statistical information about the trie
type TrieMetrics struct {
	TotalNodes     int64
	Files          int64
	Dirs           int64
	Placeholders   int64
	TotalSize      uint64
	MaxDepth       int
	LastUpdated    time.Time
	ProcessingTime time.Duration
}

// CollectMetrics walks the trie once and summarizes it. The root counts as a
// directory at depth 0.
func (t *PathTrie) CollectMetrics(ctx context.Context) (*TrieMetrics, error) {
	start := time.Now()
	metrics := &TrieMetrics{}

	var err error
	t.Walk(func(node *Node, depth int) bool {
		if metrics.TotalNodes%4096 == 0 {
			if err = ctx.Err(); err != nil {
				return false
			}
		}

		metrics.TotalNodes++
		metrics.MaxDepth = max(metrics.MaxDepth, depth)

		switch {
		case node.placeholder:
			metrics.Placeholders++
		case node.isFile:
			metrics.Files++
			metrics.TotalSize += node.size
		default:
			metrics.Dirs++
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	metrics.LastUpdated = time.Now()
	metrics.ProcessingTime = time.Since(start)
	return metrics, nil
}
