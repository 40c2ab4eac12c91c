// Package tree builds the changed-file forest shown by lazychanges and
// reshapes it between the nested (real folder hierarchy) and flat (files
// only, folder encoded in the label) presentations.
package tree

import "github.com/chmouel/lazychanges/internal/models"

// Kind discriminates the two node types of the forest.
type Kind int

// Node kinds.
const (
	KindFile Kind = iota
	KindFolder
)

// Node is one entry of the presentation forest. A folder node exclusively
// owns its children; a file node carries the external change record it was
// built from. Labels are mutable: they always describe the node's path
// relative to its current display root, so regrouping a subtree relabels
// the files in place instead of replacing them.
type Node struct {
	Kind   Kind
	Path   string // Repository-relative; "" for synthetic roots
	Label  string
	IsRoot bool

	// File nodes only.
	File *models.ChangedFile

	// Folder nodes only. Insertion order is first-seen order, not sorted.
	Folders []*Node
	Files   []*Node
}

// IsDir reports whether the node is a folder.
func (n *Node) IsDir() bool {
	return n.Kind == KindFolder
}

// Children returns the folder's children for traversal: subfolders first,
// then files, each in declaration order.
func (n *Node) Children() []*Node {
	children := make([]*Node, 0, len(n.Folders)+len(n.Files))
	children = append(children, n.Folders...)
	children = append(children, n.Files...)
	return children
}

// ChildFolder returns the direct subfolder with the given label, or nil.
// Builders must find-or-create through here so a level never holds two
// folders with the same label.
func (n *Node) ChildFolder(label string) *Node {
	for _, folder := range n.Folders {
		if folder.Label == label {
			return folder
		}
	}
	return nil
}

// CountFiles returns the number of file nodes reachable from n, n included
// when it is a file.
func (n *Node) CountFiles() int {
	if n.Kind == KindFile {
		return 1
	}
	count := len(n.Files)
	for _, folder := range n.Folders {
		count += folder.CountFiles()
	}
	return count
}

// WalkFiles visits every file node reachable under n in flatten order: a
// folder's own files before its subfolders, each in declaration order.
func (n *Node) WalkFiles(fn func(*Node)) {
	if n.Kind == KindFile {
		fn(n)
		return
	}
	for _, file := range n.Files {
		fn(file)
	}
	for _, folder := range n.Folders {
		folder.WalkFiles(fn)
	}
}
