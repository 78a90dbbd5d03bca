package query

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/fast-explorer/fexp/trees"
)

// SecondsPerYear is the fixed 365-day year used by ApproxYear.
const SecondsPerYear = 31_536_000

// Filter holds the structured constraints of a query. A nil field places no
// constraint on results.
type Filter struct {
	IsFile    *bool
	Extension *string
	MinSize   *uint64
	MaxSize   *uint64
	Year      *int
}

// IsZero reports whether no constraint is set.
func (f Filter) IsZero() bool {
	return f.IsFile == nil && f.Extension == nil && f.MinSize == nil && f.MaxSize == nil && f.Year == nil
}

// Matches reports whether r satisfies every set constraint.
func (f Filter) Matches(r trees.SearchResult) bool {
	if f.IsFile != nil && r.IsFile != *f.IsFile {
		return false
	}

	if f.Extension != nil {
		ext, ok := Extension(r.Path)
		if !r.IsFile || !ok || !strings.EqualFold(ext, *f.Extension) {
			return false
		}
	}

	// Directories never satisfy a size bound.
	if f.MinSize != nil && (!r.IsFile || r.Size < *f.MinSize) {
		return false
	}
	if f.MaxSize != nil && (!r.IsFile || r.Size > *f.MaxSize) {
		return false
	}

	if f.Year != nil {
		if year, ok := ApproxYear(r.Modified); ok && year != *f.Year {
			return false
		}
	}

	return true
}

// Extension returns the text after the final dot of the last path segment.
// A segment with no dot, or whose only dot is its first character (".bashrc"),
// has no extension.
func Extension(path string) (string, bool) {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return "", false
	}
	return base[i+1:], true
}

// ApproxYear converts t to a calendar year by counting fixed 365-day years
// from the Unix epoch. Leap days are ignored, so the result drifts by one day
// per leap year: from 2024-12-18 on, 2024 timestamps already report 2025.
// Times before the epoch report ok=false and pass any year constraint.
func ApproxYear(t time.Time) (int, bool) {
	secs := t.Unix()
	if secs < 0 {
		return 0, false
	}
	return 1970 + int(secs/SecondsPerYear), true
}
