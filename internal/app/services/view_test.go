package services

import (
	"context"
	"testing"

	"github.com/chmouel/lazychanges/internal/models"
	"github.com/chmouel/lazychanges/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGit struct {
	files    []models.ChangedFile
	filesErr error
	relPaths map[string]string
	dirs     map[string]bool
	sha      string
	subject  string
}

func (f *fakeGit) ChangedFiles(_ context.Context, _, _, _ string) ([]models.ChangedFile, error) {
	return f.files, f.filesErr
}

func (f *fakeGit) ResolveCommit(_ context.Context, ref, _ string) (string, string) {
	if f.sha == "" {
		return ref, f.subject
	}
	return f.sha, f.subject
}

func (f *fakeGit) RelativePath(_ context.Context, path, _ string) (string, error) {
	return f.relPaths[path], nil
}

func (f *fakeGit) IsDirectory(path, _ string) bool {
	return f.dirs[path]
}

func testRecords() []models.ChangedFile {
	return []models.ChangedFile{
		{Path: "src/a.ts", Status: models.StatusModified},
		{Path: "src/b.ts", Status: models.StatusAdded},
		{Path: "README.md", Status: models.StatusDeleted},
	}
}

func TestRebuildCommitOnly(t *testing.T) {
	git := &fakeGit{files: testRecords(), sha: "abc1234"}
	svc := NewViewService(git, "/repo", ViewContext{RightRef: "HEAD", Nested: true})

	forest, change, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ChangeForest, change.Kind)
	require.Len(t, forest, 1)
	assert.Equal(t, "Changes of Commit abc1234", forest[0].Label)
	assert.True(t, forest[0].IsRoot)
	assert.Equal(t, 3, forest[0].CountFiles())
}

func TestRebuildDiffBranches(t *testing.T) {
	git := &fakeGit{files: testRecords()}
	svc := NewViewService(git, "/repo", ViewContext{LeftRef: "main", RightRef: "feature", Nested: false})

	forest, _, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "Changes of main..feature", forest[0].Label)
	assert.Empty(t, forest[0].Folders)
	assert.Len(t, forest[0].Files, 3)
}

func TestRebuildPathScopedCommit(t *testing.T) {
	git := &fakeGit{
		files:    testRecords(),
		sha:      "abc1234",
		relPaths: map[string]string{"/repo/src": "src"},
		dirs:     map[string]bool{"/repo/src": true},
	}
	svc := NewViewService(git, "/repo", ViewContext{RightRef: "HEAD", FocusPath: "/repo/src", Nested: true})

	forest, _, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	require.Len(t, forest, 2)
	assert.Equal(t, "Focus: src", forest[0].Label)
	assert.Equal(t, 2, forest[0].CountFiles())
	assert.Equal(t, "Changes of Commit abc1234", forest[1].Label)
	assert.Equal(t, 3, forest[1].CountFiles())
}

func TestRebuildPathScopedDiffBranches(t *testing.T) {
	git := &fakeGit{
		files:    testRecords(),
		relPaths: map[string]string{"/repo/src": "src"},
		dirs:     map[string]bool{"/repo/src": true},
	}
	svc := NewViewService(git, "/repo", ViewContext{
		LeftRef: "main", RightRef: "feature", FocusPath: "/repo/src", Nested: true,
	})

	forest, _, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "Focus: src", forest[0].Label)
	assert.Equal(t, 2, forest[0].CountFiles())
}

func TestRebuildFocusFileOutsideChangeSet(t *testing.T) {
	git := &fakeGit{
		files:    testRecords(),
		sha:      "abc1234",
		relPaths: map[string]string{"/repo/docs/readme2.md": "docs/readme2.md"},
	}
	svc := NewViewService(git, "/repo", ViewContext{
		RightRef: "HEAD", FocusPath: "/repo/docs/readme2.md", Nested: true,
	})

	forest, _, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	require.Len(t, forest, 2)
	focus := forest[0]
	require.Len(t, focus.Files, 1)
	assert.Equal(t, "readme2.md  •  docs", focus.Files[0].Label)
	assert.Equal(t, models.StatusNone, focus.Files[0].File.Status)
}

func TestRebuildEmptyRefsShortCircuit(t *testing.T) {
	git := &fakeGit{files: testRecords()}

	svc := NewViewService(git, "/repo", ViewContext{})
	forest, change, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forest)
	assert.Equal(t, ChangeForest, change.Kind)

	svc = NewViewService(git, "/repo", ViewContext{LeftRef: "main", RightRef: "main"})
	forest, _, err = svc.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forest)
}

func TestRebuildPropagatesGitError(t *testing.T) {
	git := &fakeGit{filesErr: assert.AnError}
	svc := NewViewService(git, "/repo", ViewContext{RightRef: "HEAD"})

	_, _, err := svc.Rebuild(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestToggleSubtree(t *testing.T) {
	root := tree.BuildRoot("Changes of Commit abc1234", testRecords(), true)
	require.Len(t, root.Folders, 1)
	src := root.Folders[0]

	change := Toggle(src)
	assert.Equal(t, ChangeSubtree, change.Kind)
	assert.Same(t, src, change.Subtree)
	assert.Empty(t, src.Folders)
	// src had no subfolders, so the toggle nested it back into itself;
	// toggle a deeper tree to see the flatten direction.
	deep := tree.BuildRoot("root", []models.ChangedFile{
		{Path: "a/b/one.go", Status: models.StatusModified},
		{Path: "a/two.go", Status: models.StatusModified},
	}, true)
	a := deep.Folders[0]
	require.Len(t, a.Folders, 1)

	change = Toggle(a)
	assert.Equal(t, ChangeSubtree, change.Kind)
	assert.Empty(t, a.Folders)
	require.Len(t, a.Files, 2)
	assert.Equal(t, "two.go  •  ", a.Files[0].Label)
	assert.Equal(t, "one.go  •  b", a.Files[1].Label)
}

func TestToggleRootRequestsRebuild(t *testing.T) {
	root := tree.BuildRoot("Changes of Commit abc1234", testRecords(), true)
	change := Toggle(root)
	assert.Equal(t, ChangeForest, change.Kind)
	// Untouched: root toggles go through a full rebuild instead.
	assert.Len(t, root.Folders, 1)
}

func TestAssembleAfterFilter(t *testing.T) {
	git := &fakeGit{files: testRecords(), sha: "abc1234"}
	svc := NewViewService(git, "/repo", ViewContext{RightRef: "HEAD", Nested: true})
	_, _, err := svc.Rebuild(context.Background())
	require.NoError(t, err)

	filter := NewFilterService("readme")
	forest := svc.Assemble(context.Background(), filter.Apply(svc.Records()))
	require.Len(t, forest, 1)
	assert.Equal(t, 1, forest[0].CountFiles())
}
