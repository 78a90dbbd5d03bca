package trees

import (
	"time"
)

// Entry is the metadata carried by a single insert into the PathTrie.
type Entry struct {
	IsFile   bool      // Regular file (false for directories and links)
	Size     uint64    // Size in bytes, ignored unless IsFile
	Modified time.Time // Last modification time
	FullPath string    // Full path of the entry as a single string
}

// SearchResult is a read-only snapshot of a trie node produced by a query.
type SearchResult struct {
	Path     string    `json:"path" yaml:"path"`
	IsFile   bool      `json:"is_file" yaml:"is_file"`
	Size     uint64    `json:"size" yaml:"size"`
	Modified time.Time `json:"modified" yaml:"modified"`
}

// Kind returns "File" or "Dir".
func (r SearchResult) Kind() string {
	if r.IsFile {
		return "File"
	}
	return "Dir"
}
