package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// createTestRepo lays out a fixture tree from a map of relative path to
// content.
func createTestRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for relPath, content := range files {
		path := filepath.Join(tempDir, filepath.FromSlash(relPath))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return tempDir
}

func relPaths(entries []FileEntry) []string {
	var paths []string
	for _, e := range entries {
		paths = append(paths, e.RelPath)
	}
	return paths
}

func TestSelectScenario(t *testing.T) {
	root := createTestRepo(t, map[string]string{
		"README.md":                "# readme",
		"src/a.js":                 "a",
		".github/workflows/ci.yml": "on: push",
		"node_modules/x.js":        "x",
		"secrets/.env":             "SECRET=1",
		"icon.png":                 "\x89PNG",
	})

	selection, err := Select(root, "", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"README.md",
		"src/a.js",
		".github/workflows/ci.yml",
	}, relPaths(selection))
}

func TestSelectOrderingTiers(t *testing.T) {
	root := createTestRepo(t, map[string]string{
		"zz.txt":                   "z",
		"aa.txt":                   "a",
		"docs/README.md":           "docs readme",
		"README.md":                "root readme",
		".github/dependabot.yml":   "dep",
		".github/workflows/ci.yml": "ci",
	})

	selection, err := Select(root, "", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"README.md",
		"docs/README.md",
		"aa.txt",
		"zz.txt",
		".github/dependabot.yml",
		".github/workflows/ci.yml",
	}, relPaths(selection))

	assert.True(t, selection[0].IsReadme)
	assert.True(t, selection[1].IsReadme)
	assert.True(t, selection[4].IsWorkflow)
	assert.True(t, selection[5].IsWorkflow)
}

func TestSelectReadmeCaseInsensitive(t *testing.T) {
	root := createTestRepo(t, map[string]string{
		"readme.md": "lowercase",
		"a.txt":     "a",
	})

	selection, err := Select(root, "", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, selection, 2)
	assert.Equal(t, "readme.md", selection[0].RelPath)
	assert.True(t, selection[0].IsReadme)
}

func TestSelectIdempotent(t *testing.T) {
	root := createTestRepo(t, map[string]string{
		"README.md":                "r",
		"src/main.go":              "m",
		"src/util.go":              "u",
		".github/workflows/ci.yml": "ci",
	})

	first, err := Select(root, "", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)
	second, err := Select(root, "", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSelectEnvExampleAlwaysIncluded(t *testing.T) {
	root := createTestRepo(t, map[string]string{
		".env":         "SECRET=1",
		".env.example": "SECRET=",
		"main.go":      "package main",
	})

	selection, err := Select(root, "", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{".env.example", "main.go"}, relPaths(selection))
}

func TestSelectExcludesHiddenAndAssetDirs(t *testing.T) {
	root := createTestRepo(t, map[string]string{
		"main.go":               "m",
		".hidden/config.yml":    "included, hidden dirs are walked",
		".git/HEAD":             "ref",
		"assets/images/a.txt":   "under images",
		"fonts/f.woff":          "font dir",
		"videos/v.txt":          "video dir",
		"build/out.js":          "build",
		".vscode/settings.json": "editor",
	})

	selection, err := Select(root, "", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{".hidden/config.yml", "main.go"}, relPaths(selection))
}

func TestSelectMediaExtensionsCaseSensitive(t *testing.T) {
	root := createTestRepo(t, map[string]string{
		"logo.png": "png",
		"logo.PNG": "uppercase survives",
	})

	selection, err := Select(root, "", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"logo.PNG"}, relPaths(selection))
}

func TestSelectGithubKeepsLockFiles(t *testing.T) {
	// The .github scan applies only the media extension exclusions.
	root := createTestRepo(t, map[string]string{
		".github/workflows/ci.yml": "ci",
		".github/badge.svg":        "svg",
		".github/deps-lock.json":   "lock",
	})

	selection, err := Select(root, "", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{
		".github/deps-lock.json",
		".github/workflows/ci.yml",
	}, relPaths(selection))
}

func TestSelectSubPath(t *testing.T) {
	root := createTestRepo(t, map[string]string{
		"README.md":      "root",
		"docs/README.md": "docs",
		"docs/guide.md":  "guide",
		"src/main.go":    "m",
	})

	selection, err := Select(root, "docs", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"docs/README.md", "docs/guide.md"}, relPaths(selection))
}

func TestSelectUserPatterns(t *testing.T) {
	root := createTestRepo(t, map[string]string{
		"main.go":   "m",
		"main.log":  "log",
		"sub/a.log": "log",
		"sub/a.go":  "a",
	})

	rules, err := NewRuleset("*.log")
	require.NoError(t, err)

	selection, err := Select(root, "", rules, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"main.go", "sub/a.go"}, relPaths(selection))
}

func TestSelectEmptyResult(t *testing.T) {
	root := createTestRepo(t, map[string]string{
		"icon.png": "png",
	})

	selection, err := Select(root, "", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, selection)
}

func TestSelectNoDuplicatePaths(t *testing.T) {
	root := createTestRepo(t, map[string]string{
		"README.md":                "r",
		"a.txt":                    "a",
		".github/workflows/ci.yml": "ci",
		".github/CONTRIBUTING.md":  "c",
	})

	selection, err := Select(root, "", &Ruleset{}, zap.NewNop())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, e := range selection {
		assert.False(t, seen[e.RelPath], "duplicate path %q", e.RelPath)
		seen[e.RelPath] = true
	}
}
