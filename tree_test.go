package lado_test

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/fwojciec/lado"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func modified(path string) lado.FileChange {
	return lado.FileChange{OldPath: path, NewPath: path, Status: lado.StatusModified}
}

func added(path string) lado.FileChange {
	return lado.FileChange{NewPath: path, Status: lado.StatusAdded}
}

func deleted(path string) lado.FileChange {
	return lado.FileChange{OldPath: path, Status: lado.StatusDeleted}
}

// childNames returns "name/" for directories and "name" for files.
func childNames(n *lado.FileTreeNode) []string {
	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		if c.IsDir() {
			names = append(names, c.Name+"/")
		} else {
			names = append(names, c.Name)
		}
	}
	return names
}

// shape renders the tree without change indices so trees built from
// permuted inputs can be compared.
func shape(n *lado.FileTreeNode) string {
	var sb strings.Builder
	n.Walk(func(node *lado.FileTreeNode, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(node.Name)
		if node.IsDir() {
			sb.WriteString("/")
		} else {
			sb.WriteString(" -> " + node.FullPath)
		}
		sb.WriteString("\n")
		return true
	})
	return sb.String()
}

func TestBuildTree(t *testing.T) {
	t.Parallel()

	t.Run("places directories before files", func(t *testing.T) {
		t.Parallel()

		changes := []lado.FileChange{
			modified("src/main.rs"),
			added("README.md"),
		}

		root, err := lado.BuildTree(changes)
		require.NoError(t, err)

		assert.Equal(t, []string{"src/", "README.md"}, childNames(root))
		src := root.Children[0]
		assert.Equal(t, lado.NodeDirectory, src.Kind)
		assert.Empty(t, src.FullPath)
		assert.Equal(t, -1, src.Change)
		require.Len(t, src.Children, 1)
		assert.Equal(t, "main.rs", src.Children[0].Name)
		assert.Equal(t, "src/main.rs", src.Children[0].FullPath)
		assert.Equal(t, 0, src.Children[0].Change)

		readme := root.Children[1]
		assert.Equal(t, lado.NodeFile, readme.Kind)
		assert.Equal(t, 1, readme.Change)
		assert.Empty(t, readme.Children)
	})

	t.Run("empty input yields empty root", func(t *testing.T) {
		t.Parallel()

		root, err := lado.BuildTree(nil)
		require.NoError(t, err)
		assert.True(t, root.IsDir())
		assert.Empty(t, root.Children)
		assert.Equal(t, 0, root.FileCount())
	})

	t.Run("rejects duplicate representative paths", func(t *testing.T) {
		t.Parallel()

		changes := []lado.FileChange{
			modified("a/b.txt"),
			{OldPath: "old.txt", NewPath: "a/b.txt", Status: lado.StatusRenamed},
		}

		_, err := lado.BuildTree(changes)

		var dup *lado.DuplicatePathError
		require.True(t, errors.As(err, &dup), "expected DuplicatePathError, got %v", err)
		assert.Equal(t, "a/b.txt", dup.Path)
		assert.Equal(t, 0, dup.First)
		assert.Equal(t, 1, dup.Second)
	})

	t.Run("rejects a file that shadows a directory", func(t *testing.T) {
		t.Parallel()

		_, err := lado.BuildTree([]lado.FileChange{modified("a/b"), modified("a")})
		var dup *lado.DuplicatePathError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "a", dup.Path)
		assert.Equal(t, 0, dup.First)
		assert.Equal(t, 1, dup.Second)

		_, err = lado.BuildTree([]lado.FileChange{modified("a"), modified("a/b")})
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "a", dup.Path)
	})

	t.Run("rejects empty paths", func(t *testing.T) {
		t.Parallel()

		for _, c := range []lado.FileChange{
			{Status: lado.StatusModified},
			{OldPath: "/", Status: lado.StatusDeleted},
			{NewPath: "//", Status: lado.StatusAdded},
		} {
			_, err := lado.BuildTree([]lado.FileChange{modified("ok.go"), c})
			var empty *lado.EmptyPathError
			require.True(t, errors.As(err, &empty), "expected EmptyPathError for %+v", c)
			assert.Equal(t, 1, empty.Index)
		}
	})

	t.Run("rejects empty interior segments", func(t *testing.T) {
		t.Parallel()

		_, err := lado.BuildTree([]lado.FileChange{modified("a//b.txt")})
		var empty *lado.EmptyPathError
		require.True(t, errors.As(err, &empty))
		assert.Equal(t, 0, empty.Index)
		assert.Equal(t, "a//b.txt", empty.Path)
	})

	t.Run("uses old path for deletions", func(t *testing.T) {
		t.Parallel()

		root, err := lado.BuildTree([]lado.FileChange{deleted("gone/file.go")})
		require.NoError(t, err)

		leaves := root.Leaves()
		require.Len(t, leaves, 1)
		assert.Equal(t, "gone/file.go", leaves[0].FullPath)
	})

	t.Run("places a path without separator under root", func(t *testing.T) {
		t.Parallel()

		root, err := lado.BuildTree([]lado.FileChange{modified("go.mod")})
		require.NoError(t, err)
		assert.Equal(t, []string{"go.mod"}, childNames(root))
	})

	t.Run("trims leading and trailing separators", func(t *testing.T) {
		t.Parallel()

		root, err := lado.BuildTree([]lado.FileChange{modified("/pkg/x.go/")})
		require.NoError(t, err)
		leaves := root.Leaves()
		require.Len(t, leaves, 1)
		assert.Equal(t, "pkg/x.go", leaves[0].FullPath)
	})

	t.Run("shares ancestor directories", func(t *testing.T) {
		t.Parallel()

		root, err := lado.BuildTree([]lado.FileChange{
			modified("a/b/one.go"),
			modified("a/c/two.go"),
			modified("a/b/three.go"),
		})
		require.NoError(t, err)

		require.Len(t, root.Children, 1)
		a := root.Children[0]
		assert.Equal(t, []string{"b/", "c/"}, childNames(a))
		assert.Equal(t, []string{"one.go", "three.go"}, childNames(a.Children[0]))
	})

	t.Run("sorts case-insensitively", func(t *testing.T) {
		t.Parallel()

		root, err := lado.BuildTree([]lado.FileChange{
			modified("b.go"),
			modified("Zdir/x.go"),
			modified("A.go"),
			modified("adir/y.go"),
			modified("c.go"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"adir/", "Zdir/", "A.go", "b.go", "c.go"}, childNames(root))
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		changes := []lado.FileChange{modified("x/y.go"), added("x/z.go"), deleted("w.go")}
		first, err := lado.BuildTree(changes)
		require.NoError(t, err)
		second, err := lado.BuildTree(changes)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestFileTreeNode_Flatten(t *testing.T) {
	t.Parallel()

	root, err := lado.BuildTree([]lado.FileChange{
		modified("src/main.rs"),
		added("src/lib.rs"),
		modified("README.md"),
	})
	require.NoError(t, err)

	assert.Equal(t, []lado.FlatEntry{
		{Name: "src", Path: "src", Depth: 0, Kind: lado.NodeDirectory, Change: -1},
		{Name: "lib.rs", Path: "src/lib.rs", Depth: 1, Kind: lado.NodeFile, Change: 1},
		{Name: "main.rs", Path: "src/main.rs", Depth: 1, Kind: lado.NodeFile, Change: 0},
		{Name: "README.md", Path: "README.md", Depth: 0, Kind: lado.NodeFile, Change: 2},
	}, root.Flatten())
}

func TestFileTreeNode_TotalStats(t *testing.T) {
	t.Parallel()

	changes := []lado.FileChange{
		{
			OldPath: "pkg/a.go", NewPath: "pkg/a.go", Status: lado.StatusModified,
			Hunks: []lado.DiffHunk{{Lines: []lado.DiffLine{
				{Kind: lado.LineContext}, {Kind: lado.LineRemoved}, {Kind: lado.LineAdded}, {Kind: lado.LineAdded},
			}}},
		},
		{
			NewPath: "pkg/b.go", Status: lado.StatusAdded,
			Hunks: []lado.DiffHunk{{Lines: []lado.DiffLine{{Kind: lado.LineAdded}}}},
		},
		{
			OldPath: "c.go", Status: lado.StatusDeleted,
			Hunks: []lado.DiffHunk{{Lines: []lado.DiffLine{{Kind: lado.LineRemoved}, {Kind: lado.LineRemoved}}}},
		},
	}
	root, err := lado.BuildTree(changes)
	require.NoError(t, err)

	adds, dels := root.TotalStats(changes)
	assert.Equal(t, 3, adds)
	assert.Equal(t, 3, dels)

	adds, dels = root.Children[0].TotalStats(changes)
	assert.Equal(t, 3, adds)
	assert.Equal(t, 1, dels)
	assert.Equal(t, 2, root.Children[0].FileCount())
	assert.Equal(t, 3, root.FileCount())
}

func TestCompactTree(t *testing.T) {
	t.Parallel()

	t.Run("merges single-child directory chains", func(t *testing.T) {
		t.Parallel()

		root, err := lado.BuildTree([]lado.FileChange{
			modified("a/b/c/x.go"),
			modified("a/b/c/y.go"),
			modified("z.go"),
		})
		require.NoError(t, err)

		compact := lado.CompactTree(root)

		assert.Equal(t, []string{"a/b/c/", "z.go"}, childNames(compact))
		assert.Equal(t, []string{"x.go", "y.go"}, childNames(compact.Children[0]))
		assert.Equal(t, "a/b/c/x.go", compact.Children[0].Children[0].FullPath)

		// The source tree keeps one segment per node.
		assert.Equal(t, []string{"a/", "z.go"}, childNames(root))
	})

	t.Run("stops at directories with several children", func(t *testing.T) {
		t.Parallel()

		root, err := lado.BuildTree([]lado.FileChange{
			modified("a/b/x.go"),
			modified("a/y.go"),
		})
		require.NoError(t, err)

		compact := lado.CompactTree(root)
		require.Len(t, compact.Children, 1)
		assert.Equal(t, "a", compact.Children[0].Name)
		assert.Equal(t, []string{"b/", "y.go"}, childNames(compact.Children[0]))
	})

	t.Run("keeps single files in place", func(t *testing.T) {
		t.Parallel()

		root, err := lado.BuildTree([]lado.FileChange{modified("a/x.go")})
		require.NoError(t, err)

		compact := lado.CompactTree(root)
		assert.Equal(t, []string{"a/"}, childNames(compact))
		assert.Equal(t, []string{"x.go"}, childNames(compact.Children[0]))
	})
}

// pathGen draws paths whose directory names never collide with file names.
var pathGen = rapid.Custom(func(t *rapid.T) string {
	dirs := rapid.SliceOfN(rapid.SampledFrom([]string{"src", "Lib", "cmd", "internal"}), 0, 3).Draw(t, "dirs")
	file := rapid.SampledFrom([]string{"a.go", "B.go", "main.go", "README.md", "readme.txt"}).Draw(t, "file")
	return strings.Join(append(dirs, file), "/")
})

func drawChanges(t *rapid.T) []lado.FileChange {
	paths := rapid.SliceOfNDistinct(pathGen, 0, 30, func(p string) string { return p }).Draw(t, "paths")
	changes := make([]lado.FileChange, len(paths))
	for i, p := range paths {
		changes[i] = modified(p)
	}
	return changes
}

func checkOrdering(t *rapid.T, n *lado.FileTreeNode) {
	for i := 1; i < len(n.Children); i++ {
		prev, cur := n.Children[i-1], n.Children[i]
		if prev.IsDir() != cur.IsDir() {
			if !prev.IsDir() {
				t.Fatalf("file %q sorted before directory %q", prev.Name, cur.Name)
			}
			continue
		}
		if strings.ToLower(prev.Name) > strings.ToLower(cur.Name) {
			t.Fatalf("%q sorted before %q", prev.Name, cur.Name)
		}
		if prev.Name == cur.Name {
			t.Fatalf("duplicate sibling %q", cur.Name)
		}
	}
	for _, c := range n.Children {
		if c.IsDir() {
			checkOrdering(t, c)
		}
	}
}

func TestBuildTree_Properties(t *testing.T) {
	t.Parallel()

	t.Run("every path appears as exactly one leaf", func(t *testing.T) {
		t.Parallel()

		rapid.Check(t, func(t *rapid.T) {
			changes := drawChanges(t)

			root, err := lado.BuildTree(changes)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var want, got []string
			for _, c := range changes {
				want = append(want, c.Path())
			}
			seen := make(map[int]bool)
			for _, leaf := range root.Leaves() {
				got = append(got, leaf.FullPath)
				if changes[leaf.Change].Path() != leaf.FullPath {
					t.Fatalf("leaf %q points at change %q", leaf.FullPath, changes[leaf.Change].Path())
				}
				if seen[leaf.Change] {
					t.Fatalf("change %d has two leaves", leaf.Change)
				}
				seen[leaf.Change] = true
			}
			sort.Strings(want)
			sort.Strings(got)
			if strings.Join(want, ",") != strings.Join(got, ",") {
				t.Fatalf("leaves %v, want %v", got, want)
			}
		})
	})

	t.Run("children are ordered directories first then by name", func(t *testing.T) {
		t.Parallel()

		rapid.Check(t, func(t *rapid.T) {
			root, err := lado.BuildTree(drawChanges(t))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			checkOrdering(t, root)
		})
	})

	t.Run("permuted input yields the same tree", func(t *testing.T) {
		t.Parallel()

		rapid.Check(t, func(t *rapid.T) {
			changes := drawChanges(t)
			permuted := rapid.Permutation(changes).Draw(t, "permuted")

			a, err := lado.BuildTree(changes)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			b, err := lado.BuildTree(permuted)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if shape(a) != shape(b) {
				t.Fatalf("trees differ:\n%s\nvs\n%s", shape(a), shape(b))
			}
		})
	})
}
