// Package services holds the non-visual state machines behind the
// lazychanges UI: view orchestration, filtering and repository watching.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/chmouel/lazychanges/internal/models"
	"github.com/chmouel/lazychanges/internal/tree"
)

// ChangeKind classifies how much of the forest a mutation touched.
type ChangeKind int

// Change kinds.
const (
	// ChangeForest means the whole forest was replaced and every view
	// over it must refresh.
	ChangeForest ChangeKind = iota
	// ChangeSubtree means one folder was reshaped in place; only the view
	// region under Subtree needs refreshing.
	ChangeSubtree
)

// Change tells the host how much of the forest to refresh.
type Change struct {
	Kind    ChangeKind
	Subtree *tree.Node
}

// GitClient is the slice of the git service that view orchestration needs.
type GitClient interface {
	ChangedFiles(ctx context.Context, leftRef, rightRef, cwd string) ([]models.ChangedFile, error)
	ResolveCommit(ctx context.Context, ref, cwd string) (sha, subject string)
	RelativePath(ctx context.Context, path, cwd string) (string, error)
	IsDirectory(path, cwd string) bool
}

// ViewContext describes which change set the UI shows. LeftRef empty means
// "parent of RightRef"; FocusPath scopes the view to one file or directory.
type ViewContext struct {
	LeftRef   string
	RightRef  string
	FocusPath string
	Nested    bool
}

// ViewService turns a view context into the presentation forest. It awaits
// git once per rebuild and caches the records so filtering can reassemble
// the forest without further git calls. A rebuild in flight never exposes
// a partial forest: callers swap their root reference only on success.
type ViewService struct {
	git GitClient
	cwd string
	vc  ViewContext

	records  []models.ChangedFile
	focusRel string
	focusDir bool
}

// NewViewService creates a ViewService for the given repository directory.
func NewViewService(git GitClient, cwd string, vc ViewContext) *ViewService {
	return &ViewService{git: git, cwd: cwd, vc: vc}
}

// Nested returns the current default presentation mode.
func (v *ViewService) Nested() bool {
	return v.vc.Nested
}

// ToggleNested flips the default presentation mode used by future builds.
func (v *ViewService) ToggleNested() {
	v.vc.Nested = !v.vc.Nested
}

// Records returns the change records fetched by the last rebuild.
func (v *ViewService) Records() []models.ChangedFile {
	return v.records
}

// Rebuild fetches the change list, resolves the focus path when present
// and assembles the forest. Git failures propagate so the caller can keep
// showing the previous forest (fail-stale).
func (v *ViewService) Rebuild(ctx context.Context) ([]*tree.Node, Change, error) {
	change := Change{Kind: ChangeForest}

	right := strings.TrimSpace(v.vc.RightRef)
	left := strings.TrimSpace(v.vc.LeftRef)
	if right == "" || left == right {
		v.records = nil
		return []*tree.Node{}, change, nil
	}

	records, err := v.git.ChangedFiles(ctx, left, right, v.cwd)
	if err != nil {
		return nil, change, err
	}

	if v.vc.FocusPath != "" {
		rel, err := v.git.RelativePath(ctx, v.vc.FocusPath, v.cwd)
		if err != nil {
			return nil, change, err
		}
		v.focusRel = rel
		v.focusDir = v.git.IsDirectory(v.vc.FocusPath, v.cwd)
	}

	v.records = records
	return v.Assemble(ctx, records), change, nil
}

// Assemble builds the forest for the given records using the focus
// resolution cached by the last Rebuild. The four root shapes: commit-only,
// diff-branches, path-scoped-commit (Focus root plus full commit root) and
// path-scoped-diff-branches (Focus root only).
func (v *ViewService) Assemble(ctx context.Context, records []models.ChangedFile) []*tree.Node {
	if v.vc.FocusPath == "" {
		return []*tree.Node{tree.BuildRoot(v.rootLabel(ctx), records, v.vc.Nested)}
	}

	focus := tree.FocusRoot(
		fmt.Sprintf("Focus: %s", v.focusRel),
		records, v.focusRel, v.focusDir, v.vc.Nested,
	)
	if v.vc.LeftRef == "" {
		return []*tree.Node{focus, tree.BuildRoot(v.rootLabel(ctx), records, v.vc.Nested)}
	}
	return []*tree.Node{focus}
}

func (v *ViewService) rootLabel(ctx context.Context) string {
	if v.vc.LeftRef == "" {
		sha, _ := v.git.ResolveCommit(ctx, v.vc.RightRef, v.cwd)
		return fmt.Sprintf("Changes of Commit %s", sha)
	}
	return fmt.Sprintf("Changes of %s..%s", v.vc.LeftRef, v.vc.RightRef)
}

// Toggle switches a folder between the nested and flat presentations in
// place. Root folders are not transformed directly: multiple independent
// roots may exist, so the caller flips the default mode and rebuilds.
func Toggle(folder *tree.Node) Change {
	if folder.IsRoot || !folder.IsDir() {
		return Change{Kind: ChangeForest}
	}
	if len(folder.Folders) > 0 {
		tree.FlattenInto(folder, folder)
	} else {
		tree.NestInto(folder)
	}
	return Change{Kind: ChangeSubtree, Subtree: folder}
}
