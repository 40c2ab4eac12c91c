package tree

// FlattenInto moves every file reachable under subtree directly into
// target's file list, encoding the folder path into each file's label.
// Files are visited before subfolders at each level, in declaration order.
// Subtree's child lists are cleared afterwards; when target and subtree
// differ the caller drops the emptied subtree node, when they are the same
// node the folder simply becomes its own flat container. File nodes are
// relabeled in place, never reallocated, so UI layers keyed on node
// identity keep working across the transform.
func FlattenInto(target, subtree *Node) {
	files := collectFiles(subtree, target.Path, nil)
	subtree.Files = nil
	subtree.Folders = nil
	if target == subtree {
		target.Files = files
		return
	}
	target.Files = append(target.Files, files...)
}

func collectFiles(n *Node, basePath string, out []*Node) []*Node {
	for _, file := range n.Files {
		file.Label = FormatLabel(RelativeTo(basePath, file.Path))
		out = append(out, file)
	}
	for _, folder := range n.Folders {
		out = collectFiles(folder, basePath, out)
	}
	return out
}

// NestInto rebuilds real folder levels from root's flat file list. Child
// folders are normalized first so a subtree that was flattened deeper down
// nests as well, then root's own files are redistributed through the same
// find-or-create walk the builder uses, seeded at root's path so new
// intermediate folders get correctly prefixed paths.
func NestInto(root *Node) {
	for _, folder := range root.Folders {
		NestInto(folder)
	}
	files := root.Files
	root.Files = nil
	for _, file := range files {
		placeFile(root, file)
	}
}
