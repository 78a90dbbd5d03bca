package indexing

import (
	"slices"

	roaring "github.com/RoaringBitmap/roaring"
)

// AttributeBitmaps holds roaring bitmaps of file PathIDs keyed by attribute
// value. Directories never appear in them.
type AttributeBitmaps struct {
	Files *roaring.Bitmap
	Ext   map[uint32]*roaring.Bitmap
	Year  map[int]*roaring.Bitmap
}

func NewAttributeBitmaps() *AttributeBitmaps {
	return &AttributeBitmaps{
		Files: roaring.New(),
		Ext:   make(map[uint32]*roaring.Bitmap),
		Year:  make(map[int]*roaring.Bitmap),
	}
}

func (ab *AttributeBitmaps) AddFile(pid PathID) {
	ab.Files.Add(pid)
}

func (ab *AttributeBitmaps) AddExt(extID uint32, pid PathID) {
	bm, ok := ab.Ext[extID]
	if !ok {
		bm = roaring.New()
		ab.Ext[extID] = bm
	}
	bm.Add(pid)
}

func (ab *AttributeBitmaps) AddYear(year int, pid PathID) {
	bm, ok := ab.Year[year]
	if !ok {
		bm = roaring.New()
		ab.Year[year] = bm
	}
	bm.Add(pid)
}

// Years returns every year with at least one file, ascending.
func (ab *AttributeBitmaps) Years() []int {
	years := make([]int, 0, len(ab.Year))
	for y := range ab.Year {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// OrExt returns the union of the given extension bitmaps.
func (ab *AttributeBitmaps) OrExt(extIDs ...uint32) *roaring.Bitmap {
	res := roaring.New()
	for _, id := range extIDs {
		if bm := ab.Ext[id]; bm != nil {
			res.Or(bm)
		}
	}
	return res
}

// ExtInYear returns the files with extension extID modified in year.
func (ab *AttributeBitmaps) ExtInYear(extID uint32, year int) *roaring.Bitmap {
	ext, yr := ab.Ext[extID], ab.Year[year]
	if ext == nil || yr == nil {
		return roaring.New()
	}
	return roaring.And(ext, yr)
}
