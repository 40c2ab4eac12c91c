// Package git wraps the git commands lazychanges needs to list and resolve
// changed files.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chmouel/lazychanges/internal/log"
	"github.com/chmouel/lazychanges/internal/models"
)

// NotifyFn receives ongoing notifications.
type NotifyFn func(message string, severity string)

// NotifyOnceFn reports deduplicated notification messages.
type NotifyOnceFn func(key string, message string, severity string)

// Service orchestrates git commands for the UI.
type Service struct {
	notify     NotifyFn
	notifyOnce NotifyOnceFn
}

// NewService constructs a Service with the given notification callbacks.
func NewService(notify NotifyFn, notifyOnce NotifyOnceFn) *Service {
	if notify == nil {
		notify = func(string, string) {}
	}
	if notifyOnce == nil {
		notifyOnce = func(string, string, string) {}
	}
	return &Service{notify: notify, notifyOnce: notifyOnce}
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "git":
		// #nosec G204 -- arguments come from internal logic and are not shell interpolated
		return exec.CommandContext(ctx, args[0], args[1:]...), nil
	default:
		return nil, fmt.Errorf("unsupported command: %s", args[0])
	}
}

// RunGit executes a git command and returns its stdout. Exit codes listed
// in okReturncodes are treated as success with empty output; other
// failures are reported through notifyOnce unless silent is set.
func (s *Service) RunGit(ctx context.Context, args []string, cwd string, okReturncodes []int, strip, silent bool) string {
	command := strings.Join(args, " ")
	if command == "" {
		command = "<empty>"
	}
	s.debugf("run: %s (cwd=%s)", command, cwd)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		key := fmt.Sprintf("unsupported_cmd:%s", command)
		s.notifyOnce(key, fmt.Sprintf("Unsupported command: %s", command), "error")
		s.debugf("error: %s (unsupported command)", command)
		return ""
	}
	if cwd != "" {
		cmd.Dir = cwd
	}

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			returnCode := exitError.ExitCode()
			if !slices.Contains(okReturncodes, returnCode) {
				if silent {
					s.debugf("error: %s (exit %d, silenced)", command, returnCode)
					return ""
				}
				stderr := strings.TrimSpace(string(exitError.Stderr))
				suffix := fmt.Sprintf(" (exit %d)", returnCode)
				if stderr != "" {
					suffix = ": " + stderr
				}
				key := fmt.Sprintf("git_fail:%s:%s", cwd, command)
				s.notifyOnce(key, fmt.Sprintf("Command failed: %s%s", command, suffix), "error")
				s.debugf("error: %s%s", command, suffix)
				return ""
			}
		} else {
			if !silent {
				key := fmt.Sprintf("cmd_missing:%s", args[0])
				s.notifyOnce(key, fmt.Sprintf("Command not found: %s", args[0]), "error")
				s.debugf("error: command not found: %s", args[0])
			}
			return ""
		}
	}

	out := string(output)
	if strip {
		out = strings.TrimSpace(out)
	}
	s.debugf("ok: %s", command)
	return out
}

// ChangedFiles returns the files changed by rightRef (when leftRef is
// empty, against its parent) or between leftRef and rightRef. Identical or
// missing refs yield an empty list, not an error.
func (s *Service) ChangedFiles(ctx context.Context, leftRef, rightRef, cwd string) ([]models.ChangedFile, error) {
	leftRef = strings.TrimSpace(leftRef)
	rightRef = strings.TrimSpace(rightRef)
	if rightRef == "" || leftRef == rightRef {
		return []models.ChangedFile{}, nil
	}

	var args []string
	if leftRef == "" {
		args = []string{"git", "diff-tree", "--name-status", "-r", "-M", "-C", "--no-commit-id", rightRef}
	} else {
		args = []string{"git", "diff", "--name-status", "-M", "-C", leftRef + ".." + rightRef}
	}

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		return nil, err
	}
	if cwd != "" {
		cmd.Dir = cwd
	}
	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			stderr := strings.TrimSpace(string(exitError.Stderr))
			if stderr != "" {
				return nil, fmt.Errorf("git %s: %s", args[1], stderr)
			}
		}
		return nil, fmt.Errorf("git %s: %w", args[1], err)
	}

	return ParseNameStatus(string(output)), nil
}

// ParseNameStatus parses git --name-status output. Lines look like
// "M\tpath", or "R100\told\tnew" for renames and copies.
func ParseNameStatus(raw string) []models.ChangedFile {
	lines := strings.Split(raw, "\n")
	files := make([]models.ChangedFile, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}

		status := parts[0]
		path := parts[1]
		oldPath := ""

		if len(status) > 1 && (status[0] == 'R' || status[0] == 'C') {
			status = string(status[0])
			if len(parts) >= 3 {
				oldPath = parts[1]
				path = parts[2]
			}
		}

		files = append(files, models.ChangedFile{
			Path:    path,
			Status:  status,
			OldPath: oldPath,
		})
	}
	return files
}

// ResolveCommit resolves ref to its abbreviated SHA and subject line for
// display in root labels.
func (s *Service) ResolveCommit(ctx context.Context, ref, cwd string) (sha, subject string) {
	out := s.RunGit(ctx, []string{
		"git", "log", "-1", "--format=%h%x09%s", ref,
	}, cwd, []int{0}, true, true)
	if out == "" {
		return ref, ""
	}
	sha, subject, _ = strings.Cut(out, "\t")
	return sha, subject
}

// RepoRoot returns the absolute path of the repository top level.
func (s *Service) RepoRoot(ctx context.Context, cwd string) (string, error) {
	root := s.RunGit(ctx, []string{"git", "rev-parse", "--show-toplevel"}, cwd, []int{0}, true, true)
	if root == "" {
		return "", fmt.Errorf("not inside a git repository: %s", cwd)
	}
	return root, nil
}

// RelativePath resolves an absolute or working-directory-relative path to
// a repository-relative, forward-slash separated one.
func (s *Service) RelativePath(ctx context.Context, path, cwd string) (string, error) {
	root, err := s.RepoRoot(ctx, cwd)
	if err != nil {
		return "", err
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(cwd, path)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("path %s is outside repository %s: %w", path, root, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %s is outside repository %s", path, root)
	}
	return rel, nil
}

// IsDirectory classifies a focus path. Paths that no longer exist in the
// worktree (e.g. deleted files) are treated as files.
func (s *Service) IsDirectory(path, cwd string) bool {
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
