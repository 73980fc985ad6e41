// Package tree arranges files into a directory tree for barrel generation
// and dependency graphs.
package tree

import (
	"path"
	"strings"

	"github.com/teranos/fabric/file"
)

// Kind distinguishes directories from files
type Kind string

const (
	KindDirectory Kind = "directory"
	KindFile      Kind = "file"
)

// Data is the payload of a tree node
type Data struct {
	Name string
	Path string
	Kind Kind
	// File is set on file nodes only.
	File *file.ResolvedFile
}

// TreeNode is one path segment
type TreeNode struct {
	Data     Data
	Parent   *TreeNode
	Children []*TreeNode

	leaves []*TreeNode
}

// NewNode creates a detached node
func NewNode(data Data) *TreeNode {
	return &TreeNode{Data: data}
}

// AddChild appends a child and invalidates the leaf cache of n and its ancestors
func (n *TreeNode) AddChild(data Data) *TreeNode {
	child := &TreeNode{Data: data, Parent: n}
	n.Children = append(n.Children, child)
	for p := n; p != nil; p = p.Parent {
		p.leaves = nil
	}
	return child
}

// Child returns the direct child called name, or nil
func (n *TreeNode) Child(name string) *TreeNode {
	for _, c := range n.Children {
		if c.Data.Name == name {
			return c
		}
	}
	return nil
}

// IsLeaf reports whether n has no children
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Leaves returns the leaf descendants of n (n itself when it is a leaf).
// The result is cached until a descendant is added.
func (n *TreeNode) Leaves() []*TreeNode {
	if n.leaves != nil {
		return n.leaves
	}
	if n.IsLeaf() {
		n.leaves = []*TreeNode{n}
		return n.leaves
	}
	leaves := make([]*TreeNode, 0, len(n.Children))
	for _, c := range n.Children {
		leaves = append(leaves, c.Leaves()...)
	}
	n.leaves = leaves
	return leaves
}

// Walk visits n and its descendants depth-first, parents before children
func (n *TreeNode) Walk(fn func(*TreeNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FromFiles builds a tree of the files under root. JSON outputs are skipped.
// It returns nil when no file qualifies.
func FromFiles(files []*file.ResolvedFile, root string) *TreeNode {
	root = normalizeRoot(root)

	var tree *TreeNode
	for _, f := range files {
		if f.Extname == ".json" {
			continue
		}
		rel, ok := under(root, file.NormalizePath(f.Path))
		if !ok {
			continue
		}
		if tree == nil {
			tree = NewNode(Data{Name: path.Base(root), Path: root, Kind: KindDirectory})
			if root == "" {
				tree.Data.Name = "."
			}
		}

		segments := strings.Split(rel, "/")
		node := tree
		for i, seg := range segments {
			if seg == "" {
				continue
			}
			if i == len(segments)-1 {
				node.AddChild(Data{Name: seg, Path: path.Join(node.Data.Path, seg), Kind: KindFile, File: f})
				break
			}
			next := node.Child(seg)
			if next == nil || next.Data.Kind != KindDirectory {
				next = node.AddChild(Data{Name: seg, Path: path.Join(node.Data.Path, seg), Kind: KindDirectory})
			}
			node = next
		}
	}
	return tree
}

func normalizeRoot(root string) string {
	root = path.Clean(file.NormalizePath(root))
	if root == "." {
		return ""
	}
	return root
}

// under returns p relative to root when p lies inside it
func under(root, p string) (string, bool) {
	p = path.Clean(p)
	if root == "" {
		return p, p != "." && !strings.HasPrefix(p, "../")
	}
	prefix := root
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	return strings.TrimPrefix(p, prefix), true
}
