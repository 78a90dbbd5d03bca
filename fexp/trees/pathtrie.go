package trees

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/btree"
)

// Node is one path segment in the PathTrie. Nodes are created by Insert and
// are never removed or mutated afterwards, except for placeholder repair.
type Node struct {
	name        string
	children    *btree.Map[string, *Node]
	isFile      bool
	size        uint64
	modified    time.Time
	fullPath    string
	placeholder bool
}

func (n *Node) Name() string        { return n.name }
func (n *Node) IsFile() bool        { return n.isFile }
func (n *Node) Modified() time.Time { return n.modified }
func (n *Node) FullPath() string    { return n.fullPath }
func (n *Node) IsPlaceholder() bool { return n.placeholder }

// Size returns the byte size for files and 0 for everything else.
func (n *Node) Size() uint64 {
	if !n.isFile {
		return 0
	}
	return n.size
}

// Result snapshots the node.
func (n *Node) Result() SearchResult {
	return SearchResult{
		Path:     n.fullPath,
		IsFile:   n.isFile,
		Size:     n.Size(),
		Modified: n.modified,
	}
}

func (n *Node) child(name string) (*Node, bool) {
	if n.children == nil {
		return nil, false
	}
	return n.children.Get(name)
}

func (n *Node) setChild(child *Node) {
	if n.children == nil {
		n.children = btree.NewMap[string, *Node](0)
	}
	n.children.Set(child.name, child)
}

// walk visits n and its subtree in pre-order, children in ascending name
// order, using an explicit stack. fn returning false stops the walk.
func (n *Node) walk(fn func(node *Node, depth int) bool) {
	type frame struct {
		node  *Node
		depth int
	}

	stack := []frame{{node: n}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(top.node, top.depth) {
			return
		}

		if top.node.children == nil {
			continue
		}
		// Push in reverse so the smallest name is popped first.
		top.node.children.Reverse(func(_ string, c *Node) bool {
			stack = append(stack, frame{node: c, depth: top.depth + 1})
			return true
		})
	}
}

// SearchPattern appends a snapshot of every node in the subtree rooted at n
// whose full path contains pattern. The match is a literal, case-sensitive
// substring test, so an empty pattern matches every node.
func (n *Node) SearchPattern(pattern string, out *[]SearchResult) {
	n.walk(func(node *Node, _ int) bool {
		if strings.Contains(node.fullPath, pattern) {
			*out = append(*out, node.Result())
		}
		return true
	})
}

// Placeholder describes an intermediate node created before its own entry
// was inserted, and never repaired afterwards.
type Placeholder struct {
	Segments []string // Position relative to the trie root
	FullPath string   // Provisional full path, taken from the descendant that created it
}

// PathTrie is a prefix tree over path segments rooted at a base directory.
//
// Entries must be inserted parent before child. An entry whose ancestors were
// never inserted leaves placeholder nodes behind; a later insert of the
// placeholder's own path repairs it, and Placeholders reports any that remain.
//
// The trie has no locking. Build it on one goroutine, then share it read-only.
// Insert and traversal are iterative, so depth is bounded by memory only; a
// pathologically deep or wide hierarchy can still exhaust the heap.
type PathTrie struct {
	root         *Node
	index        *PathIndex
	count        int
	placeholders int
	logger       zerolog.Logger
}

// TrieOption customizes a PathTrie.
type TrieOption func(*PathTrie)

// WithLogger sets a custom logger
func WithLogger(logger zerolog.Logger) TrieOption {
	return func(t *PathTrie) {
		t.logger = logger
	}
}

// WithRootModified sets the modification time reported for the root node.
func WithRootModified(modified time.Time) TrieOption {
	return func(t *PathTrie) {
		t.root.modified = modified
	}
}

// NewPathTrie creates a trie whose root represents the directory root.
func NewPathTrie(root string, opts ...TrieOption) *PathTrie {
	t := &PathTrie{
		root: &Node{
			fullPath: root,
			modified: time.Now(),
		},
		index:  NewPathIndex(),
		count:  1,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := t.index.Insert(t.root); err != nil {
		t.logger.Warn().Err(err).Str("root", root).Msg("root not indexed")
	}

	return t
}

// Root returns the root node.
func (t *PathTrie) Root() *Node { return t.root }

// Len returns the number of nodes, root included.
func (t *PathTrie) Len() int { return t.count }

// Insert walks segments from the root, creating any missing node. Only the
// node for the last segment takes the entry's type and size; intermediate
// nodes are created as placeholder directories. Every node created by the
// call gets entry.FullPath and entry.Modified.
//
// An already present node keeps its metadata (first write wins) unless it is a
// placeholder being reached by its own entry, in which case it is repaired.
func (t *PathTrie) Insert(segments []string, entry Entry) {
	if len(segments) == 0 {
		return
	}

	last := len(segments) - 1
	node := t.root
	for i, segment := range segments {
		child, ok := node.child(segment)
		switch {
		case !ok:
			child = &Node{
				name:     segment,
				modified: entry.Modified,
				fullPath: entry.FullPath,
			}
			if i == last {
				child.isFile = entry.IsFile
				child.size = entry.Size
			} else {
				child.placeholder = true
				t.placeholders++
			}
			node.setChild(child)
			t.count++
			if !child.placeholder {
				t.indexNode(child)
			}
		case i == last && child.placeholder:
			t.logger.Debug().
				Str("provisional", child.fullPath).
				Str("path", entry.FullPath).
				Msg("repairing placeholder")
			child.isFile = entry.IsFile
			child.size = entry.Size
			child.modified = entry.Modified
			child.fullPath = entry.FullPath
			child.placeholder = false
			t.placeholders--
			t.indexNode(child)
		}
		node = child
	}
}

func (t *PathTrie) indexNode(n *Node) {
	if err := t.index.Insert(n); err != nil {
		t.logger.Warn().Err(err).Str("path", n.fullPath).Msg("path index insert failed")
	}
}

// SearchPattern collects every node whose full path contains pattern, in
// pre-order from the root with children in ascending name order.
func (t *PathTrie) SearchPattern(pattern string, out *[]SearchResult) {
	t.root.SearchPattern(pattern, out)
}

// Walk visits every node in pre-order. fn returning false stops the walk.
func (t *PathTrie) Walk(fn func(node *Node, depth int) bool) {
	t.root.walk(fn)
}

// Lookup finds the node whose full path is exactly path.
func (t *PathTrie) Lookup(path string) (SearchResult, bool) {
	node, ok := t.index.Lookup(path)
	if !ok {
		return SearchResult{}, false
	}
	return node.Result(), true
}

// LookupPrefix returns every indexed node whose full path starts with prefix,
// in ascending path order.
func (t *PathTrie) LookupPrefix(prefix string) []SearchResult {
	nodes := t.index.PrefixLookup(prefix)
	results := make([]SearchResult, 0, len(nodes))
	for _, n := range nodes {
		results = append(results, n.Result())
	}
	return results
}

// Index exposes the exact-path index for validation and stats.
func (t *PathTrie) Index() *PathIndex { return t.index }

// Placeholders lists the placeholder nodes that were never repaired, sorted
// by their position in the trie.
func (t *PathTrie) Placeholders() []Placeholder {
	if t.placeholders == 0 {
		return nil
	}

	type frame struct {
		node *Node
		path []string
	}

	var out []Placeholder
	stack := []frame{{node: t.root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.node.placeholder {
			out = append(out, Placeholder{Segments: top.path, FullPath: top.node.fullPath})
		}
		if top.node.children == nil {
			continue
		}
		top.node.children.Scan(func(name string, c *Node) bool {
			path := make([]string, len(top.path)+1)
			copy(path, top.path)
			path[len(top.path)] = name
			stack = append(stack, frame{node: c, path: path})
			return true
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.Join(out[i].Segments, "/") < strings.Join(out[j].Segments, "/")
	})
	return out
}
