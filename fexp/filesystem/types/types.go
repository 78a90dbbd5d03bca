package types

import (
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/fast-explorer/fexp/trees"
	"github.com/google/uuid"
)

// Op names the filesystem call behind a Diagnostic.
type Op string

const (
	OpReadDir  Op = "readdir"
	OpInfo     Op = "info"
	OpStat     Op = "stat"
	OpReadlink Op = "readlink"
	OpIgnore   Op = "ignore"
)

// Diagnostic records an entry the indexer could not read. The build continues
// past it.
type Diagnostic struct {
	Path string `json:"path"`
	Op   Op     `json:"op"`
	Err  error  `json:"-"`
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %s: %v", d.Op, d.Path, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// BuildReport summarizes one index build
type BuildReport struct {
	BuildID      uuid.UUID           `json:"build_id"`
	Root         string              `json:"root"`
	Dirs         int                 `json:"dirs"`
	Files        int                 `json:"files"`
	Others       int                 `json:"others"`
	Skipped      int                 `json:"skipped"`
	Duration     time.Duration       `json:"duration"`
	Diagnostics  []Diagnostic        `json:"diagnostics,omitempty"`
	Placeholders []trees.Placeholder `json:"placeholders,omitempty"`
}

// Entries returns the number of entries inserted below the root.
func (r *BuildReport) Entries() int {
	return r.Dirs + r.Files + r.Others
}
