package explorer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/fast-explorer/fexp/filesystem/common"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/filesystem/options"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/trees"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func paths(results []trees.SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Path
	}
	return out
}

// scenarioTrie holds /a, /a/b.txt (100 bytes) and /a/c under the root "/".
func scenarioTrie() *trees.PathTrie {
	mod := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	trie := trees.NewPathTrie("/", trees.WithRootModified(mod))
	trie.Insert([]string{"a"}, trees.Entry{Modified: mod, FullPath: "/a"})
	trie.Insert([]string{"a", "b.txt"}, trees.Entry{IsFile: true, Size: 100, Modified: mod, FullPath: "/a/b.txt"})
	trie.Insert([]string{"a", "c"}, trees.Entry{Modified: mod, FullPath: "/a/c"})
	return trie
}

func TestSearch_Scenario(t *testing.T) {
	ex := NewFromTrie(scenarioTrie(), zerolog.Nop())

	tests := []struct {
		query string
		want  []string
	}{
		{"b", []string{"/a/b.txt"}},
		{"", []string{"/", "/a", "/a/b.txt", "/a/c"}},
		{"b @file @ext:txt", []string{"/a/b.txt"}},
		{"@dir", []string{"/", "/a", "/a/c"}},
		{"@size>1KB", []string{}},
		{"@size<1KB", []string{"/a/b.txt"}},
		{"@size>", []string{"/", "/a", "/a/b.txt", "/a/c"}},
		{"@date:2023 c", []string{"/a/c"}},
		{"@date:2022", []string{}},
		{"zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := ex.Search(tt.query)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, paths(got))
		})
	}
}

func TestSearch_ConcurrentReaders(t *testing.T) {
	ex := NewFromTrie(scenarioTrie(), zerolog.Nop())

	var wg conc.WaitGroup
	for range 16 {
		wg.Go(func() {
			for range 50 {
				assert.Equal(t, []string{"/a/b.txt"}, paths(ex.Search("b @file")))
				_, ok := ex.Trie().Lookup("/a/c")
				assert.True(t, ok)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, int64(16*50), ex.Trie().Index().Stats().PathLookups)
}

func TestSearchWithDiagnostics(t *testing.T) {
	ex := NewFromTrie(scenarioTrie(), zerolog.Nop())

	results, warnings := ex.SearchWithDiagnostics("b @size>")
	assert.Equal(t, []string{"/a/b.txt"}, paths(results))
	require.Len(t, warnings, 1)
	assert.Equal(t, "@size>", warnings[0].Token)

	_, warnings = ex.SearchWithDiagnostics("b @file")
	assert.Empty(t, warnings)
}

func TestSearch_BeforeBuild(t *testing.T) {
	ex := New(options.DefaultIndexOptions(t.TempDir()), zerolog.Nop())
	got := ex.Search("")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err := ex.Stats(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNotBuilt)

	_, err = ex.Lookup("a")
	assert.ErrorIs(t, err, ErrNotBuilt)

	_, err = ex.List("a")
	assert.ErrorIs(t, err, ErrNotBuilt)
}

func TestStats_CountsPlaceholders(t *testing.T) {
	trie := trees.NewPathTrie("/r")
	trie.Insert([]string{"x", "y.txt"}, trees.Entry{IsFile: true, Size: 1, FullPath: "/r/x/y.txt"})

	stats, err := NewFromTrie(trie, zerolog.Nop()).Stats(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Placeholders)
	assert.Equal(t, int64(1), stats.TotalFiles)
}

func TestBuild_ChecksIndexAtDebugLevel(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	_, err := New(options.DefaultIndexOptions(root), logger).Build(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"message":"path index built"`)
	assert.Contains(t, out, `"paths":2`)
	assert.NotContains(t, out, "path index inconsistent")

	buf.Reset()
	_, err = New(options.DefaultIndexOptions(root), logger.Level(zerolog.InfoLevel)).Build(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "path index built")
}

type ExplorerSuite struct {
	suite.Suite
	root string
	ex   *Explorer
}

func (s *ExplorerSuite) SetupTest() {
	s.root = s.T().TempDir()

	s.Require().NoError(os.MkdirAll(filepath.Join(s.root, "a", "c"), 0o755))
	s.Require().NoError(os.WriteFile(filepath.Join(s.root, "a", "b.txt"), []byte(strings.Repeat("x", 100)), 0o644))
	s.Require().NoError(os.WriteFile(filepath.Join(s.root, "a", "c", "big.bin"), make([]byte, 4096), 0o644))
	s.Require().NoError(os.WriteFile(filepath.Join(s.root, "notes.TXT"), []byte("n"), 0o644))

	s.ex = New(options.DefaultIndexOptions(s.root), zerolog.Nop())
	report, err := s.ex.Build(context.Background())
	s.Require().NoError(err)
	s.Equal(2, report.Dirs)
	s.Equal(3, report.Files)
	s.Same(report, s.ex.Report())
}

func (s *ExplorerSuite) TestRootIsFirstResult() {
	got := s.ex.Search("")
	s.Require().Len(got, 6)
	s.Equal(s.root, got[0].Path)
	s.False(got[0].IsFile)
}

func (s *ExplorerSuite) TestExtensionIsCaseInsensitive() {
	s.Equal([]string{
		filepath.Join(s.root, "a", "b.txt"),
		filepath.Join(s.root, "notes.TXT"),
	}, paths(s.ex.Search("@ext:txt")))
}

func (s *ExplorerSuite) TestSizeRange() {
	s.Equal([]string{filepath.Join(s.root, "a", "c", "big.bin")}, paths(s.ex.Search("@size>1KB")))
	s.Equal([]string{filepath.Join(s.root, "a", "c", "big.bin")}, paths(s.ex.Search("@size>3KB @size<5KB")))
	s.Empty(s.ex.Search("@size>5KB"))
}

func (s *ExplorerSuite) TestStats() {
	stats, err := s.ex.Stats(context.Background(), 0)
	s.Require().NoError(err)

	s.Equal(s.ex.Report().BuildID, stats.BuildID)
	s.Equal(int64(3), stats.TotalFiles)
	s.Equal(int64(2), stats.TotalDirs)
	s.Equal(uint64(100+4096+1), stats.TotalSize)
	s.Equal(3, stats.MaxDepth)
	s.Require().NotEmpty(stats.TopExtensions)
	s.Equal("txt", stats.TopExtensions[0].Extension)
	s.Equal(int64(2), stats.TopExtensions[0].Count)
}

func (s *ExplorerSuite) TestLookup() {
	want := filepath.Join(s.root, "a", "b.txt")

	res, err := s.ex.Lookup("a/b.txt")
	s.Require().NoError(err)
	s.Equal(want, res.Path)
	s.True(res.IsFile)
	s.Equal(uint64(100), res.Size)

	res, err = s.ex.Lookup(want)
	s.Require().NoError(err)
	s.Equal(want, res.Path)

	_, err = s.ex.Lookup("a/missing")
	s.ErrorIs(err, ErrNotIndexed)
}

func (s *ExplorerSuite) TestList() {
	got, err := s.ex.List("a")
	s.Require().NoError(err)
	s.Equal([]string{
		filepath.Join(s.root, "a"),
		filepath.Join(s.root, "a", "b.txt"),
		filepath.Join(s.root, "a", "c"),
		filepath.Join(s.root, "a", "c", "big.bin"),
	}, paths(got))

	got, err = s.ex.List("zzz")
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *ExplorerSuite) TestRebuildFailureKeepsIndex() {
	s.Require().NoError(os.RemoveAll(s.root))

	_, err := s.ex.Build(context.Background())
	s.Error(err)
	s.Len(s.ex.Search(""), 6)
}

func TestExplorerSuite(t *testing.T) {
	suite.Run(t, new(ExplorerSuite))
}

func TestBuild_EmptyRoot(t *testing.T) {
	_, err := New(options.IndexOptions{}, zerolog.Nop()).Build(context.Background())
	assert.ErrorIs(t, err, common.ErrPathEmpty)
}
