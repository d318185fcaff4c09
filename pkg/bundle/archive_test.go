package bundle

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestArtifactName(t *testing.T) {
	assert := assert.New(t)
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	assert.Equal("widget_main_20260314-092653.txt", ArtifactName("widget", "main", ts, ""))
	assert.Equal("widget_20260314-092653.txt", ArtifactName("widget", "", ts, ""))
	assert.Equal("widget_dev_20260314-092653_guide.md.txt", ArtifactName("widget", "dev", ts, "guide.md"))
}

func TestWriteArtifact(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "nested", "output")
	document := "Repository:          https://github.com/acme/widget\ncontent\n"

	artifact, err := WriteArtifact(outputDir, "widget_main_20260314-092653.txt", document, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outputDir, "widget_main_20260314-092653.txt"), artifact.TextPath)
	assert.Equal(t, artifact.TextPath+".gz", artifact.GzipPath)

	// Plain-text artifact is preserved and byte-exact.
	data, err := os.ReadFile(artifact.TextPath)
	require.NoError(t, err)
	assert.Equal(t, document, string(data))
}

func TestWriteArtifactGzipRoundTrip(t *testing.T) {
	outputDir := t.TempDir()
	document := "line one\nline two\n\x00raw bytes survive\n"

	artifact, err := WriteArtifact(outputDir, "roundtrip.txt", document, zap.NewNop())
	require.NoError(t, err)

	f, err := os.Open(artifact.GzipPath)
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	decompressed, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, document, string(decompressed))
}

func TestWriteArtifactUnwritableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission checks do not apply")
	}

	base := t.TempDir()
	require.NoError(t, os.Chmod(base, 0o555))
	t.Cleanup(func() { _ = os.Chmod(base, 0o755) })

	_, err := WriteArtifact(filepath.Join(base, "out"), "x.txt", "doc", zap.NewNop())
	assert.Error(t, err)
}
