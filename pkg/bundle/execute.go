package bundle

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"repopack/pkg/gitrepo"

	"go.uber.org/zap"
)

// Run executes the full aggregation: clone, select, render, write,
// compress. Every step is attempted once; the first failure aborts the run
// after the checkout is released.
func Run(ctx context.Context, opts Options, logger *zap.Logger) (Artifact, error) {
	startTime := time.Now()

	repoName, err := gitrepo.RepoName(opts.RepoURL)
	if err != nil {
		return Artifact{}, err
	}

	rules, err := NewRuleset(opts.Exclude...)
	if err != nil {
		return Artifact{}, err
	}

	subPath, err := cleanSubPath(opts.SubPath)
	if err != nil {
		return Artifact{}, err
	}

	checkout, err := gitrepo.Clone(ctx, opts.RepoURL, opts.Branch, logger)
	if err != nil {
		return Artifact{}, err
	}
	defer func() {
		if closeErr := checkout.Close(); closeErr != nil {
			logger.Warn("Failed to clean up checkout", zap.Error(closeErr))
		}
	}()

	scanRoot := checkout.Dir
	singleFile := false
	if subPath != "" {
		scanRoot = filepath.Join(checkout.Dir, filepath.FromSlash(subPath))
		info, statErr := os.Stat(scanRoot)
		if statErr != nil {
			return Artifact{}, fmt.Errorf("path %q does not exist in repository: %w", subPath, statErr)
		}
		singleFile = info.Mode().IsRegular()
	}

	var document, baseFile string
	if singleFile {
		entry := FileEntry{RelPath: subPath, AbsPath: scanRoot}
		document, err = BuildSingleFileDocument(entry, opts.Strict, logger)
		if err != nil {
			return Artifact{}, err
		}
		baseFile = path.Base(subPath)
	} else {
		document, err = buildRepositoryDocument(checkout, subPath, rules, opts, logger)
		if err != nil {
			return Artifact{}, err
		}
	}

	name := ArtifactName(repoName, opts.Branch, time.Now(), baseFile)
	artifact, err := WriteArtifact(opts.OutputDir, name, document, logger)
	if err != nil {
		return Artifact{}, err
	}

	logger.Info("Aggregation complete",
		zap.String("textArtifact", artifact.TextPath),
		zap.String("gzipArtifact", artifact.GzipPath),
		zap.Duration("elapsed", time.Since(startTime)))
	return artifact, nil
}

// buildRepositoryDocument handles the whole-repository and sub-directory
// modes: selection, tree rendering, metadata, aggregation.
func buildRepositoryDocument(checkout *gitrepo.Checkout, subPath string, rules *Ruleset, opts Options, logger *zap.Logger) (string, error) {
	selection, err := Select(checkout.Dir, subPath, rules, logger)
	if err != nil {
		return "", err
	}

	scanRoot := checkout.Dir
	if subPath != "" {
		scanRoot = filepath.Join(checkout.Dir, filepath.FromSlash(subPath))
	}
	tree, err := RenderTree(scanRoot, opts.TreeDepth, rules, logger)
	if err != nil {
		return "", err
	}

	meta := Metadata{
		Repository: checkout.URL,
		Branch:     checkout.Branch,
		Directory:  subPath,
	}
	// Commit metadata appears in whole-repository mode only.
	if subPath == "" {
		commit, err := checkout.LastCommit()
		if err != nil {
			return "", err
		}
		if commit != nil {
			meta.CommitHash = commit.Hash
			meta.CommitDate = commit.Date
			meta.CommitMessage = commit.Message
		}
	}

	return BuildDocument(selection, meta, tree, opts.Strict, logger)
}

// cleanSubPath normalizes the optional sub-path and rejects anything that
// would escape the repository root.
func cleanSubPath(subPath string) (string, error) {
	if subPath == "" {
		return "", nil
	}
	cleaned := path.Clean(filepath.ToSlash(subPath))
	if cleaned == "." {
		return "", nil
	}
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid path %q: must stay inside the repository", subPath)
	}
	return cleaned, nil
}
