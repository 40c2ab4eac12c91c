// Package models defines the data objects shared across lazychanges packages.
package models

// Change status codes as reported by git --name-status.
const (
	StatusAdded    = "A"
	StatusModified = "M"
	StatusDeleted  = "D"
	StatusRenamed  = "R"
	StatusCopied   = "C"
	// StatusNone marks a file outside the changed set (focus on an
	// untouched path).
	StatusNone = ""
)

// ChangedFile represents one file touched by a commit or a ref comparison.
type ChangedFile struct {
	Path    string // Repository-relative, forward-slash separated
	Status  string // A=Added, M=Modified, D=Deleted, R=Renamed, C=Copied, "" when absent
	OldPath string // For renames and copies: the original path
}

// StatusGlyph returns the short bracketed indicator shown next to a file.
func StatusGlyph(status string) string {
	switch status {
	case StatusAdded:
		return "[+]"
	case StatusDeleted:
		return "[-]"
	case StatusModified:
		return "[~]"
	case StatusRenamed:
		return "[R]"
	case StatusCopied:
		return "[C]"
	}
	return ""
}
