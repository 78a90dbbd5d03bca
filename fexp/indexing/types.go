package indexing

import (
	"time"

	"github.com/google/uuid"
)

// PathID identifies a node within one snapshot. IDs are assigned in trie walk
// order starting at 0 (the root), so they are contiguous and fit roaring
// bitmaps directly.
type PathID = uint32

// NoExt is the extension id of files without an extension.
const NoExt uint32 = 0

// SnapshotMeta captures summary information for a built snapshot.
type SnapshotMeta struct {
	BuildID  uuid.UUID
	Root     string
	NumFiles int
	NumDirs  int
	MaxDepth int
	BuiltAt  time.Time
}

// ColumnarSnapshot is a flattened, read-only copy of a trie laid out as
// parallel columns indexed by PathID.
type ColumnarSnapshot struct {
	Meta SnapshotMeta

	// ExtDict maps extension id to lowercased extension; ExtDict[NoExt] is "".
	ExtDict []string
	extIDs  map[string]uint32

	Paths    []string
	Sizes    []uint64
	ModTimes []time.Time
	IsDirs   []bool
	ExtIDs   []uint32

	Bitmaps *AttributeBitmaps
}

// Len returns the number of nodes in the snapshot, root included.
func (s *ColumnarSnapshot) Len() int { return len(s.Paths) }
