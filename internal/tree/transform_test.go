package tree

import (
	"testing"

	"github.com/chmouel/lazychanges/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenIntoSelf(t *testing.T) {
	root := Nested(sampleRecords())
	FlattenInto(root, root)

	assert.Empty(t, root.Folders)
	require.Len(t, root.Files, 3)

	labels := make([]string, 0, 3)
	for _, file := range root.Files {
		labels = append(labels, file.Label)
	}
	// A folder's own files come before its subfolders' files.
	assert.Equal(t, []string{
		"README.md  •  ",
		"a.ts  •  src",
		"b.ts  •  src",
	}, labels)
}

func TestFlattenIntoSubtree(t *testing.T) {
	root := Nested(sampleRecords())
	require.Len(t, root.Folders, 1)
	src := root.Folders[0]

	FlattenInto(root, src)
	root.Folders = nil // caller drops the emptied husk

	require.Len(t, root.Files, 3)
	assert.Equal(t, "README.md", root.Files[0].Label)
	assert.Equal(t, "a.ts  •  src", root.Files[1].Label)
	assert.Equal(t, "b.ts  •  src", root.Files[2].Label)
	assert.Empty(t, src.Files)
	assert.Empty(t, src.Folders)
}

func TestFlattenIntoRelabelsAgainstTargetPath(t *testing.T) {
	records := []models.ChangedFile{
		{Path: "src/app/ui/view.go", Status: models.StatusModified},
		{Path: "src/app/main.go", Status: models.StatusAdded},
	}
	root := Nested(records)
	app := root.Folders[0].Folders[0]
	require.Equal(t, "src/app", app.Path)

	FlattenInto(app, app)

	require.Len(t, app.Files, 2)
	assert.Equal(t, "main.go  •  ", app.Files[0].Label)
	assert.Equal(t, "view.go  •  ui", app.Files[1].Label)
}

func TestFlattenPreservesNodeIdentity(t *testing.T) {
	root := Nested(sampleRecords())
	var before []*Node
	root.WalkFiles(func(n *Node) { before = append(before, n) })

	FlattenInto(root, root)

	after := make(map[*Node]bool, len(root.Files))
	for _, file := range root.Files {
		after[file] = true
	}
	for _, file := range before {
		assert.True(t, after[file], "file node %s was reallocated", file.Path)
	}
}

func TestNestIntoRebuildsFolders(t *testing.T) {
	root := Nested(sampleRecords())
	FlattenInto(root, root)
	NestInto(root)

	require.Len(t, root.Folders, 1)
	require.Len(t, root.Files, 1)
	src := root.Folders[0]
	assert.Equal(t, "src", src.Path)
	require.Len(t, src.Files, 2)
	assert.Equal(t, "a.ts", src.Files[0].Label)
	assert.Equal(t, "b.ts", src.Files[1].Label)
	assert.Equal(t, "README.md", root.Files[0].Label)
}

func TestNestIntoSeedsPathsAtRoot(t *testing.T) {
	records := []models.ChangedFile{
		{Path: "src/app/ui/view.go", Status: models.StatusModified},
		{Path: "src/app/main.go", Status: models.StatusAdded},
	}
	root := Nested(records)
	app := root.Folders[0].Folders[0]
	FlattenInto(app, app)

	NestInto(root)

	require.Len(t, app.Folders, 1)
	ui := app.Folders[0]
	assert.Equal(t, "src/app/ui", ui.Path)
	require.Len(t, ui.Files, 1)
	assert.Equal(t, "view.go", ui.Files[0].Label)
	require.Len(t, app.Files, 1)
	assert.Equal(t, "main.go", app.Files[0].Label)
}

func TestRoundTripIsomorphic(t *testing.T) {
	records := []models.ChangedFile{
		{Path: "src/app/ui/view.go", Status: models.StatusModified},
		{Path: "src/app/main.go", Status: models.StatusAdded},
		{Path: "src/lib/util.go", Status: models.StatusModified},
		{Path: "README.md", Status: models.StatusDeleted},
	}

	reference := Nested(records)
	subject := Nested(records)
	FlattenInto(subject, subject)
	NestInto(subject)

	assert.Equal(t, shape(reference), shape(subject))
}

func TestNestFlattenNestIdempotent(t *testing.T) {
	records := sampleRecords()
	root := Nested(records)
	NestInto(root)
	FlattenInto(root, root)
	NestInto(root)

	assert.Equal(t, shape(Nested(records)), shape(root))
	assert.Equal(t, len(records), root.CountFiles())
}

// shape maps every reachable file to its parent-relative location,
// capturing the parent/child path relationships without node identity.
func shape(root *Node) map[string]string {
	out := make(map[string]string)
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, file := range n.Files {
			out[file.Path] = n.Path + "|" + file.Label
		}
		for _, folder := range n.Folders {
			walk(folder)
		}
	}
	walk(root)
	return out
}
