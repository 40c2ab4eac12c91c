package tree

import (
	"strings"

	"github.com/chmouel/lazychanges/internal/models"
)

// Flat returns one file node per record in record order, each labeled
// "name  •  directory".
func Flat(records []models.ChangedFile) []*Node {
	nodes := make([]*Node, 0, len(records))
	for i := range records {
		record := &records[i]
		nodes = append(nodes, &Node{
			Kind:  KindFile,
			Path:  normalize(record.Path),
			Label: FormatLabel(record.Path),
			File:  record,
		})
	}
	return nodes
}

// Nested builds the real folder hierarchy for the records under an
// anonymous root (Path ""). Folders are created on first need, so sibling
// order follows record order rather than any sort.
func Nested(records []models.ChangedFile) *Node {
	root := &Node{Kind: KindFolder}
	for i := range records {
		record := &records[i]
		file := &Node{
			Kind: KindFile,
			Path: normalize(record.Path),
			File: record,
		}
		placeFile(root, file)
	}
	return root
}

// BuildRoot wraps the flat or nested build of records in a labeled root
// folder ready for display.
func BuildRoot(label string, records []models.ChangedFile, nested bool) *Node {
	if nested {
		root := Nested(records)
		root.Label = label
		root.IsRoot = true
		return root
	}
	return &Node{
		Kind:   KindFolder,
		Label:  label,
		IsRoot: true,
		Files:  Flat(records),
	}
}

// FocusRoot builds the root for a view scoped to focusRel. A file focus
// always yields exactly one file node, with absent status when the path is
// outside the changed set. A directory focus narrows the records to the
// focused subtree and builds it like any other root.
func FocusRoot(label string, records []models.ChangedFile, focusRel string, isDir, nested bool) *Node {
	focusRel = normalize(focusRel)
	if isDir {
		return BuildRoot(label, filterUnder(records, focusRel), nested)
	}

	record := &models.ChangedFile{Path: focusRel, Status: models.StatusNone}
	if match := findRecord(records, focusRel); match != nil {
		record = match
	}
	file := &Node{
		Kind:  KindFile,
		Path:  focusRel,
		Label: FormatLabel(focusRel),
		File:  record,
	}
	return &Node{
		Kind:   KindFolder,
		Label:  label,
		IsRoot: true,
		Files:  []*Node{file},
	}
}

// findRecord matches a record by case-insensitive path equality.
func findRecord(records []models.ChangedFile, rel string) *models.ChangedFile {
	for i := range records {
		if strings.EqualFold(normalize(records[i].Path), rel) {
			return &records[i]
		}
	}
	return nil
}

// filterUnder keeps records inside the focus directory. The match is on
// full path segments, so focusing "src" never captures "src2/file.go".
func filterUnder(records []models.ChangedFile, focusRel string) []models.ChangedFile {
	subset := make([]models.ChangedFile, 0, len(records))
	for _, record := range records {
		path := normalize(record.Path)
		if path == focusRel || strings.HasPrefix(path, focusRel+"/") {
			subset = append(subset, record)
		}
	}
	return subset
}

// placeFile walks the directory segments of file's path below root,
// finding or creating one folder per segment, and appends the file to the
// deepest folder with just the base segment as label.
func placeFile(root *Node, file *Node) {
	segments := SplitSegments(RelativeTo(root.Path, file.Path))
	if len(segments) == 0 {
		return
	}

	current := root
	prefix := root.Path
	for _, segment := range segments[:len(segments)-1] {
		prefix = joinPath(prefix, segment)
		child := current.ChildFolder(segment)
		if child == nil {
			child = &Node{
				Kind:  KindFolder,
				Path:  prefix,
				Label: segment,
			}
			current.Folders = append(current.Folders, child)
		}
		current = child
	}

	file.Label = segments[len(segments)-1]
	current.Files = append(current.Files, file)
}
