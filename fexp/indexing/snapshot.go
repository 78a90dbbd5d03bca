package indexing

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/fast-explorer/fexp/query"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/trees"
	"github.com/google/uuid"
)

// ctxCheckInterval is how many nodes are visited between cancellation checks.
const ctxCheckInterval = 4096

// BuildSnapshot flattens trie into columns and fills the attribute bitmaps.
// The root is kept at PathID 0 but is not counted as a directory.
func BuildSnapshot(ctx context.Context, trie *trees.PathTrie, buildID uuid.UUID) (*ColumnarSnapshot, error) {
	snap := &ColumnarSnapshot{
		Meta: SnapshotMeta{
			BuildID: buildID,
			Root:    trie.Root().FullPath(),
		},
		ExtDict: []string{""},
		extIDs:  map[string]uint32{"": NoExt},
		Bitmaps: NewAttributeBitmaps(),
	}

	n := trie.Len()
	snap.Paths = make([]string, 0, n)
	snap.Sizes = make([]uint64, 0, n)
	snap.ModTimes = make([]time.Time, 0, n)
	snap.IsDirs = make([]bool, 0, n)
	snap.ExtIDs = make([]uint32, 0, n)

	var err error
	trie.Walk(func(node *trees.Node, depth int) bool {
		if len(snap.Paths)%ctxCheckInterval == 0 {
			if err = ctx.Err(); err != nil {
				return false
			}
		}
		snap.add(node, depth)
		return true
	})
	if err != nil {
		return nil, err
	}

	snap.Meta.BuiltAt = time.Now()
	return snap, nil
}

func (s *ColumnarSnapshot) add(node *trees.Node, depth int) {
	pid := PathID(len(s.Paths))
	isDir := !node.IsFile()

	extID := NoExt
	if !isDir {
		if ext, ok := query.Extension(node.FullPath()); ok {
			extID = s.extID(strings.ToLower(ext))
		}
	}

	s.Paths = append(s.Paths, node.FullPath())
	s.Sizes = append(s.Sizes, node.Size())
	s.ModTimes = append(s.ModTimes, node.Modified())
	s.IsDirs = append(s.IsDirs, isDir)
	s.ExtIDs = append(s.ExtIDs, extID)

	if depth == 0 {
		return
	}
	s.Meta.MaxDepth = max(s.Meta.MaxDepth, depth)
	if isDir {
		s.Meta.NumDirs++
		return
	}

	s.Meta.NumFiles++
	s.Bitmaps.AddFile(pid)
	s.Bitmaps.AddExt(extID, pid)
	if year, ok := query.ApproxYear(node.Modified()); ok {
		s.Bitmaps.AddYear(year, pid)
	}
}

func (s *ColumnarSnapshot) extID(ext string) uint32 {
	if id, ok := s.extIDs[ext]; ok {
		return id
	}
	id := uint32(len(s.ExtDict))
	s.ExtDict = append(s.ExtDict, ext)
	s.extIDs[ext] = id
	return id
}

// ExtID looks up the id of a lowercased extension.
func (s *ColumnarSnapshot) ExtID(ext string) (uint32, bool) {
	id, ok := s.extIDs[strings.ToLower(ext)]
	return id, ok
}

// Result returns the search result view of pid.
func (s *ColumnarSnapshot) Result(pid PathID) trees.SearchResult {
	return trees.SearchResult{
		Path:     s.Paths[pid],
		IsFile:   !s.IsDirs[pid],
		Size:     s.Sizes[pid],
		Modified: s.ModTimes[pid],
	}
}
