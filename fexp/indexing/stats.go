package indexing

import (
	"cmp"
	"slices"
	"time"

	roaring "github.com/RoaringBitmap/roaring"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/query"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/trees"
	"github.com/google/uuid"
)

// DefaultTopN bounds the ranked lists in IndexStats.
const DefaultTopN = 10

type ExtensionStats struct {
	Extension string      `json:"extension" yaml:"extension"`
	Count     int64       `json:"count" yaml:"count"`
	Size      uint64      `json:"size" yaml:"size"`
	Years     []YearStats `json:"years,omitempty" yaml:"years,omitempty"`
}

type SizeRange struct {
	Label string `json:"label" yaml:"label"`
	Count int64  `json:"count" yaml:"count"`
	Size  uint64 `json:"size" yaml:"size"`
}

type YearStats struct {
	Year  int    `json:"year" yaml:"year"`
	Count int64  `json:"count" yaml:"count"`
	Size  uint64 `json:"size" yaml:"size"`
}

// IndexStats summarizes one built index. Only files contribute to sizes,
// extensions and years; the root is not counted as a directory.
type IndexStats struct {
	BuildID           uuid.UUID            `json:"build_id" yaml:"build_id"`
	Root              string               `json:"root" yaml:"root"`
	TotalFiles        int64                `json:"total_files" yaml:"total_files"`
	TotalDirs         int64                `json:"total_dirs" yaml:"total_dirs"`
	Placeholders      int64                `json:"placeholders" yaml:"placeholders"`
	TotalSize         uint64               `json:"total_size" yaml:"total_size"`
	MaxDepth          int                  `json:"max_depth" yaml:"max_depth"`
	AvgFileSize       uint64               `json:"avg_file_size" yaml:"avg_file_size"`
	OldestFile        time.Time            `json:"oldest_file" yaml:"oldest_file"`
	NewestFile        time.Time            `json:"newest_file" yaml:"newest_file"`
	LargestFiles      []trees.SearchResult `json:"largest_files" yaml:"largest_files"`
	TopExtensions     []ExtensionStats     `json:"top_extensions" yaml:"top_extensions"`
	TopExtensionFiles int64                `json:"top_extension_files" yaml:"top_extension_files"`
	SizeDistribution  []SizeRange          `json:"size_distribution" yaml:"size_distribution"`
	YearDistribution  []YearStats          `json:"year_distribution" yaml:"year_distribution"`
}

var sizeBuckets = []struct {
	label string
	upper uint64 // exclusive; 0 means unbounded
}{
	{"< 1 KB", query.KB},
	{"1 KB - 1 MB", query.MB},
	{"1 MB - 100 MB", 100 * query.MB},
	{"100 MB - 1 GB", query.GB},
	{">= 1 GB", 0},
}

// ComputeStats derives IndexStats from snap. topN <= 0 uses DefaultTopN.
func ComputeStats(snap *ColumnarSnapshot, topN int) *IndexStats {
	if topN <= 0 {
		topN = DefaultTopN
	}

	stats := &IndexStats{
		BuildID:    snap.Meta.BuildID,
		Root:       snap.Meta.Root,
		TotalFiles: int64(snap.Meta.NumFiles),
		TotalDirs:  int64(snap.Meta.NumDirs),
		MaxDepth:   snap.Meta.MaxDepth,
	}

	stats.SizeDistribution = make([]SizeRange, len(sizeBuckets))
	for i, b := range sizeBuckets {
		stats.SizeDistribution[i].Label = b.label
	}

	files := snap.Bitmaps.Files.ToArray()
	for _, pid := range files {
		size, mod := snap.Sizes[pid], snap.ModTimes[pid]
		stats.TotalSize += size

		if stats.OldestFile.IsZero() || mod.Before(stats.OldestFile) {
			stats.OldestFile = mod
		}
		if mod.After(stats.NewestFile) {
			stats.NewestFile = mod
		}

		bucket := &stats.SizeDistribution[bucketFor(size)]
		bucket.Count++
		bucket.Size += size
	}
	if len(files) > 0 {
		stats.AvgFileSize = stats.TotalSize / uint64(len(files))
	}

	stats.LargestFiles = largestFiles(snap, files, topN)
	stats.TopExtensions = topExtensions(snap, topN)

	years := snap.Bitmaps.Years()
	for _, year := range years {
		count, size := sumSizes(snap, snap.Bitmaps.Year[year])
		stats.YearDistribution = append(stats.YearDistribution, YearStats{Year: year, Count: count, Size: size})
	}

	extIDs := make([]uint32, 0, len(stats.TopExtensions))
	for i := range stats.TopExtensions {
		ext := &stats.TopExtensions[i]
		id, ok := snap.ExtID(ext.Extension)
		if !ok {
			continue
		}
		extIDs = append(extIDs, id)
		ext.Years = extensionYears(snap, id, years)
	}
	stats.TopExtensionFiles = int64(snap.Bitmaps.OrExt(extIDs...).GetCardinality())

	return stats
}

// extensionYears breaks one extension down by modification year. Years with
// no file of that extension are left out.
func extensionYears(snap *ColumnarSnapshot, extID uint32, years []int) []YearStats {
	var out []YearStats
	for _, year := range years {
		bm := snap.Bitmaps.ExtInYear(extID, year)
		if bm.IsEmpty() {
			continue
		}
		count, size := sumSizes(snap, bm)
		out = append(out, YearStats{Year: year, Count: count, Size: size})
	}
	return out
}

func bucketFor(size uint64) int {
	for i, b := range sizeBuckets {
		if b.upper == 0 || size < b.upper {
			return i
		}
	}
	return len(sizeBuckets) - 1
}

func sumSizes(snap *ColumnarSnapshot, bm *roaring.Bitmap) (int64, uint64) {
	var size uint64
	it := bm.Iterator()
	for it.HasNext() {
		size += snap.Sizes[it.Next()]
	}
	return int64(bm.GetCardinality()), size
}

// topExtensions ranks extensions by file count, then by name. Files without
// an extension are left out.
func topExtensions(snap *ColumnarSnapshot, topN int) []ExtensionStats {
	var out []ExtensionStats
	for extID, bm := range snap.Bitmaps.Ext {
		if extID == NoExt {
			continue
		}
		count, size := sumSizes(snap, bm)
		out = append(out, ExtensionStats{Extension: snap.ExtDict[extID], Count: count, Size: size})
	}

	slices.SortFunc(out, func(a, b ExtensionStats) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Extension, b.Extension)
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// largestFiles ranks files by size, then by path.
func largestFiles(snap *ColumnarSnapshot, files []PathID, topN int) []trees.SearchResult {
	ranked := slices.Clone(files)
	slices.SortFunc(ranked, func(a, b PathID) int {
		if c := cmp.Compare(snap.Sizes[b], snap.Sizes[a]); c != 0 {
			return c
		}
		return cmp.Compare(snap.Paths[a], snap.Paths[b])
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	out := make([]trees.SearchResult, len(ranked))
	for i, pid := range ranked {
		out[i] = snap.Result(pid)
	}
	return out
}
