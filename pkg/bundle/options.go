// Package bundle selects the textual files of a checked-out repository and
// aggregates them with metadata and a directory tree into a single text
// artifact plus a gzip sibling.
package bundle

import "time"

// Options holds the configuration for a single aggregation run.
type Options struct {
	RepoURL   string   // Remote repository URL (GitHub-style, required)
	Branch    string   // Branch or reference to clone
	SubPath   string   // Optional path inside the repository restricting selection
	OutputDir string   // Directory receiving the artifacts; created if absent
	TreeDepth int      // Maximum depth of the directory tree section
	Exclude   []string // Extra ignore patterns (gitignore style) on top of the fixed policy
	Strict    bool     // Fail when a selected file cannot be read at aggregation time
}

// FileEntry is a single selected file, identified relative to the
// repository root.
type FileEntry struct {
	RelPath    string // Slash-separated path relative to the repository root
	AbsPath    string // Absolute path on disk
	IsReadme   bool   // Filename is README.md (any case)
	IsWorkflow bool   // Lives under a .github directory
}

// Metadata holds the labeled header fields of the aggregated document.
// Zero-valued fields are omitted from the header.
type Metadata struct {
	Repository    string
	Branch        string
	Directory     string
	CommitHash    string
	CommitDate    time.Time
	CommitMessage string
}

// Artifact names the pair of files produced by a run.
type Artifact struct {
	TextPath string // Plain-text document
	GzipPath string // Gzip-compressed copy of the document
}
