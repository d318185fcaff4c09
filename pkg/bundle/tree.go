package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// RenderTree renders a depth-limited textual tree for root, honoring the
// same exclusion rules as the Selector so the listing matches the document
// body. maxDepth counts levels below the root line; directories at the
// depth limit appear without their children.
func RenderTree(root string, maxDepth int, rules *Ruleset, logger *zap.Logger) (string, error) {
	if maxDepth <= 0 {
		maxDepth = 1
	}

	var tree strings.Builder
	tree.WriteString(filepath.Base(root) + "/\n")

	if err := renderSubtree(&tree, root, root, "", 1, maxDepth, rules, logger); err != nil {
		return "", err
	}
	return tree.String(), nil
}

// renderSubtree writes one directory level and recurses into
// subdirectories until the depth limit.
func renderSubtree(tree *strings.Builder, dir, root, prefix string, depth, maxDepth int, rules *Ruleset, logger *zap.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	// Directories first, then files, alphabetically.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	visible := entries[:0]
	for _, entry := range entries {
		name := entry.Name()
		relPath := entryRelPath(root, filepath.Join(dir, name))
		if entry.IsDir() {
			if skipDirName(name) || rules.MatchesPath(relPath) {
				continue
			}
		} else {
			if excludedFileName(name) || hasMediaExtension(name) || rules.MatchesPath(relPath) {
				continue
			}
		}
		visible = append(visible, entry)
	}

	for i, entry := range visible {
		connector := "├── "
		extension := "│   "
		if i == len(visible)-1 {
			connector = "└── "
			extension = "    "
		}

		if entry.IsDir() {
			tree.WriteString(prefix + connector + entry.Name() + "/\n")
			if depth >= maxDepth {
				logger.Debug("Tree depth limit reached", zap.String("directory", entry.Name()), zap.Int("depth", depth))
				continue
			}
			if err := renderSubtree(tree, filepath.Join(dir, entry.Name()), root, prefix+extension, depth+1, maxDepth, rules, logger); err != nil {
				return err
			}
		} else {
			tree.WriteString(prefix + connector + entry.Name() + "\n")
		}
	}
	return nil
}
