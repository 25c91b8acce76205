package lado

import (
	"cmp"
	"slices"
	"strings"
)

// pathSeparator separates segments of a representative path.
const pathSeparator = "/"

// NodeKind distinguishes directories from files in a FileTreeNode.
type NodeKind int

// Node kinds.
const (
	NodeDirectory NodeKind = iota
	NodeFile
)

// FileTreeNode is one node of the changed-file tree.
//
// Children of a directory are ordered directories first, then files, each
// group case-insensitively by name. A node belongs to exactly one parent.
type FileTreeNode struct {
	Name     string // Single path segment ("" for the root)
	FullPath string // Representative path; set on file nodes only
	Kind     NodeKind
	Children []*FileTreeNode

	// Change is the index of the originating FileChange in the slice given
	// to BuildTree. It is -1 for directories.
	Change int
}

// IsDir reports whether the node is a directory.
func (n *FileTreeNode) IsDir() bool {
	return n.Kind == NodeDirectory
}

// BuildTree groups changes into a directory tree keyed by each change's
// representative path. The returned root is an unnamed directory.
//
// Leading and trailing separators are ignored. BuildTree returns an
// *EmptyPathError if a change has no path or an empty interior segment, and a *DuplicatePathError if two
// changes resolve to the same node.
func BuildTree(changes []FileChange) (*FileTreeNode, error) {
	root := &FileTreeNode{Kind: NodeDirectory, Change: -1}

	// Every node created during this call, keyed by path from the root.
	nodesByPath := map[string]*FileTreeNode{"": root}

	for i := range changes {
		segments := splitPath(changes[i].Path())
		if len(segments) == 0 {
			return nil, &EmptyPathError{Index: i}
		}
		if slices.Contains(segments, "") {
			return nil, &EmptyPathError{Index: i, Path: changes[i].Path()}
		}

		parent := root
		var prefix string
		for _, seg := range segments[:len(segments)-1] {
			prefix = joinPath(prefix, seg)
			node, ok := nodesByPath[prefix]
			if !ok {
				node = &FileTreeNode{Name: seg, Kind: NodeDirectory, Change: -1}
				nodesByPath[prefix] = node
				parent.Children = append(parent.Children, node)
			} else if !node.IsDir() {
				return nil, &DuplicatePathError{Path: prefix, First: node.Change, Second: i}
			}
			parent = node
		}

		name := segments[len(segments)-1]
		full := joinPath(prefix, name)
		if existing, ok := nodesByPath[full]; ok {
			return nil, &DuplicatePathError{Path: full, First: firstChange(existing), Second: i}
		}
		leaf := &FileTreeNode{Name: name, FullPath: full, Kind: NodeFile, Change: i}
		nodesByPath[full] = leaf
		parent.Children = append(parent.Children, leaf)
	}

	sortChildren(root)
	return root, nil
}

// splitPath returns the segments of path with leading and trailing
// separators removed. Interior empty segments are kept.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, pathSeparator)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, pathSeparator)
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + pathSeparator + name
}

// firstChange returns the lowest change index at or below n.
func firstChange(n *FileTreeNode) int {
	if !n.IsDir() {
		return n.Change
	}
	first := -1
	for _, c := range n.Children {
		if idx := firstChange(c); idx >= 0 && (first < 0 || idx < first) {
			first = idx
		}
	}
	return first
}

// sortChildren recursively sorts nodes: directories first, then files,
// case-insensitively by name. Exact names break ties so the order is total.
func sortChildren(n *FileTreeNode) {
	slices.SortFunc(n.Children, compareNodes)
	for _, c := range n.Children {
		if c.IsDir() {
			sortChildren(c)
		}
	}
}

func compareNodes(a, b *FileTreeNode) int {
	if a.IsDir() != b.IsDir() {
		if a.IsDir() {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// Walk calls fn for every node below n in display order. depth is 0 for
// n's direct children. Returning false from fn skips the node's children.
func (n *FileTreeNode) Walk(fn func(node *FileTreeNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *FileTreeNode) walk(fn func(*FileTreeNode, int) bool, depth int) {
	for _, c := range n.Children {
		if fn(c, depth) && c.IsDir() {
			c.walk(fn, depth+1)
		}
	}
}

// FlatEntry is a tree node positioned for a list view.
type FlatEntry struct {
	Name   string
	Path   string // Directory path for directories, FullPath for files
	Depth  int
	Kind   NodeKind
	Change int // -1 for directories
}

// Flatten returns the nodes below n in display order with their depth.
func (n *FileTreeNode) Flatten() []FlatEntry {
	var entries []FlatEntry
	n.flatten("", 0, &entries)
	return entries
}

func (n *FileTreeNode) flatten(prefix string, depth int, entries *[]FlatEntry) {
	for _, c := range n.Children {
		path := joinPath(prefix, c.Name)
		if !c.IsDir() {
			path = c.FullPath
		}
		*entries = append(*entries, FlatEntry{
			Name:   c.Name,
			Path:   path,
			Depth:  depth,
			Kind:   c.Kind,
			Change: c.Change,
		})
		if c.IsDir() {
			c.flatten(path, depth+1, entries)
		}
	}
}

// Leaves returns the file nodes below n in display order.
func (n *FileTreeNode) Leaves() []*FileTreeNode {
	var leaves []*FileTreeNode
	n.Walk(func(node *FileTreeNode, _ int) bool {
		if !node.IsDir() {
			leaves = append(leaves, node)
		}
		return true
	})
	return leaves
}

// FileCount returns the number of files at or below n.
func (n *FileTreeNode) FileCount() int {
	if !n.IsDir() {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += c.FileCount()
	}
	return count
}

// TotalStats sums additions and deletions of the files at or below n.
// changes must be the slice the tree was built from.
func (n *FileTreeNode) TotalStats(changes []FileChange) (additions, deletions int) {
	if !n.IsDir() {
		if n.Change < 0 || n.Change >= len(changes) {
			return 0, 0
		}
		return changes[n.Change].Stats()
	}
	for _, c := range n.Children {
		a, d := c.TotalStats(changes)
		additions += a
		deletions += d
	}
	return additions, deletions
}

// CompactTree returns a copy of root in which every directory whose only
// child is another directory is merged with it, so "src" > "app" becomes
// "src/app". root itself is never merged. The input tree is not modified.
func CompactTree(root *FileTreeNode) *FileTreeNode {
	if root == nil {
		return nil
	}
	out := &FileTreeNode{Name: root.Name, Kind: root.Kind, Change: root.Change}
	for _, c := range root.Children {
		out.Children = append(out.Children, compactNode(c))
	}
	slices.SortFunc(out.Children, compareNodes)
	return out
}

func compactNode(n *FileTreeNode) *FileTreeNode {
	if !n.IsDir() {
		leaf := *n
		return &leaf
	}
	name := n.Name
	for len(n.Children) == 1 && n.Children[0].IsDir() {
		n = n.Children[0]
		name = joinPath(name, n.Name)
	}
	out := &FileTreeNode{Name: name, Kind: NodeDirectory, Change: -1}
	for _, c := range n.Children {
		out.Children = append(out.Children, compactNode(c))
	}
	// Merged names can reorder siblings.
	slices.SortFunc(out.Children, compareNodes)
	return out
}
