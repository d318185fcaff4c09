package bundle

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Separator is the line dividing document sections.
const Separator = "========================="

// commitDateLayout matches git's default log date output.
const commitDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// BuildDocument assembles the aggregated document: metadata header,
// directory tree section, then one block per entry in selection order. A
// file that cannot be read is skipped with a warning unless strict is set,
// in which case the whole build fails.
func BuildDocument(entries []FileEntry, meta Metadata, tree string, strict bool, logger *zap.Logger) (string, error) {
	var doc strings.Builder

	writeMetadata(&doc, meta)
	doc.WriteString(Separator + "\n")
	doc.WriteString("Directory Tree:\n")
	doc.WriteString(tree)
	if !strings.HasSuffix(tree, "\n") {
		doc.WriteString("\n")
	}
	doc.WriteString("\n")

	for _, entry := range entries {
		content, err := os.ReadFile(entry.AbsPath)
		if err != nil {
			if strict {
				return "", fmt.Errorf("failed to read %s: %w", entry.RelPath, err)
			}
			logger.Warn("Skipping unreadable file", zap.String("path", entry.RelPath), zap.Error(err))
			continue
		}

		doc.WriteString(Separator + "\n")
		doc.WriteString("File: " + entry.RelPath + "\n")
		doc.WriteString(Separator + "\n")
		doc.Write(content)
		doc.WriteString("\n")
	}

	return doc.String(), nil
}

// BuildSingleFileDocument builds the reduced document for a selection that
// resolved to one file: a File header followed by the raw content, with no
// metadata or tree sections.
func BuildSingleFileDocument(entry FileEntry, strict bool, logger *zap.Logger) (string, error) {
	content, err := os.ReadFile(entry.AbsPath)
	if err != nil {
		if strict {
			return "", fmt.Errorf("failed to read %s: %w", entry.RelPath, err)
		}
		logger.Warn("Skipping unreadable file", zap.String("path", entry.RelPath), zap.Error(err))
		content = nil
	}

	var doc strings.Builder
	doc.WriteString("File: " + entry.RelPath + "\n")
	doc.Write(content)
	return doc.String(), nil
}

// writeMetadata emits one labeled line per populated field, value column
// aligned past the widest label.
func writeMetadata(doc *strings.Builder, meta Metadata) {
	writeField(doc, "Repository:", meta.Repository)
	writeField(doc, "Branch:", meta.Branch)
	writeField(doc, "Directory:", meta.Directory)
	if !meta.CommitDate.IsZero() {
		writeField(doc, "Last Commit Date:", meta.CommitDate.Format(commitDateLayout))
	}
	writeField(doc, "Last Commit Hash:", meta.CommitHash)
	writeField(doc, "Last Commit Message:", meta.CommitMessage)
}

func writeField(doc *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(doc, "%-21s%s\n", label, value)
}

// DocumentPaths extracts the File headers of a document's file blocks, in
// order. The inverse of BuildDocument's block layout; used to verify that
// the document preserves the selection sequence.
func DocumentPaths(doc string) []string {
	var paths []string
	lines := strings.Split(doc, "\n")
	for i := 0; i+1 < len(lines); i++ {
		if lines[i] == Separator && strings.HasPrefix(lines[i+1], "File: ") {
			paths = append(paths, strings.TrimPrefix(lines[i+1], "File: "))
		}
	}
	return paths
}
