package bundle

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Select walks the repository tree rooted at root (optionally restricted to
// the relative subPath) and returns the ordered selection:
//
//  1. README.md files, in path order;
//  2. every other surviving file outside .github, in path order;
//  3. files under .github, scanned independently with only the media
//     extension rules applied, in path order.
//
// Relative paths in the result are always slash-separated and relative to
// root, even when subPath narrows the walk. Selection never reads file
// contents.
func Select(root, subPath string, rules *Ruleset, logger *zap.Logger) ([]FileEntry, error) {
	scanRoot := root
	if subPath != "" {
		scanRoot = filepath.Join(root, filepath.FromSlash(subPath))
	}

	var readmes, regular []FileEntry
	var githubDirs []string

	err := filepath.WalkDir(scanRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error accessing path during selection", zap.String("path", p), zap.Error(err))
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if p == scanRoot {
				return nil
			}
			if skipDirName(name) {
				return filepath.SkipDir
			}
			if name == ".github" {
				githubDirs = append(githubDirs, p)
				return filepath.SkipDir
			}
			return nil
		}

		relPath := entryRelPath(root, p)
		if excludedFileName(name) || hasMediaExtension(name) {
			logger.Debug("Excluded by selection policy", zap.String("path", relPath))
			return nil
		}
		if rules.MatchesPath(relPath) {
			logger.Debug("Excluded by user pattern", zap.String("path", relPath))
			return nil
		}

		entry := FileEntry{
			RelPath:  relPath,
			AbsPath:  p,
			IsReadme: isReadme(relPath),
		}
		if entry.IsReadme {
			readmes = append(readmes, entry)
		} else {
			regular = append(regular, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", scanRoot, err)
	}

	workflows, err := selectWorkflows(root, githubDirs, logger)
	if err != nil {
		return nil, err
	}

	sortEntries(readmes)
	sortEntries(regular)
	sortEntries(workflows)

	selection := make([]FileEntry, 0, len(readmes)+len(regular)+len(workflows))
	selection = append(selection, readmes...)
	selection = append(selection, regular...)
	selection = append(selection, workflows...)

	logger.Debug("Selection complete",
		zap.Int("readmes", len(readmes)),
		zap.Int("regular", len(regular)),
		zap.Int("workflows", len(workflows)))
	return selection, nil
}

// selectWorkflows re-scans the .github directories skipped by the main
// walk. Workflow configuration is ordered last and only the media extension
// exclusions apply to it.
func selectWorkflows(root string, githubDirs []string, logger *zap.Logger) ([]FileEntry, error) {
	var workflows []FileEntry
	for _, githubDir := range githubDirs {
		err := filepath.WalkDir(githubDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("Error accessing path during workflow scan", zap.String("path", p), zap.Error(err))
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if hasMediaExtension(d.Name()) {
				return nil
			}
			workflows = append(workflows, FileEntry{
				RelPath:    entryRelPath(root, p),
				AbsPath:    p,
				IsWorkflow: true,
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", githubDir, err)
		}
	}
	return workflows, nil
}

// entryRelPath converts an absolute path under root to the slash-separated
// form used throughout the document.
func entryRelPath(root, p string) string {
	relPath, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(relPath)
}

// isReadme reports whether the path names a README.md, in any case.
func isReadme(relPath string) bool {
	return strings.EqualFold(path.Base(relPath), "README.md")
}

func sortEntries(entries []FileEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelPath < entries[j].RelPath
	})
}
