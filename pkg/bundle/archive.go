package bundle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// timestampLayout keeps artifact names sortable and collision-free across
// repeated runs.
const timestampLayout = "20060102-150405"

// ArtifactName derives the plain-text artifact filename:
// <repo>[_<branch>]_<timestamp>[_<basefile>].txt
func ArtifactName(repoName, branch string, now time.Time, baseFile string) string {
	parts := []string{repoName}
	if branch != "" {
		parts = append(parts, branch)
	}
	parts = append(parts, now.Format(timestampLayout))
	if baseFile != "" {
		parts = append(parts, baseFile)
	}
	return strings.Join(parts, "_") + ".txt"
}

// WriteArtifact writes the document to outputDir/name and a gzip-compressed
// sibling with a .gz suffix. The plain-text file is preserved; both
// artifacts persist. The output directory is created if absent.
func WriteArtifact(outputDir, name, document string, logger *zap.Logger) (Artifact, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	textPath := filepath.Join(outputDir, name)
	if err := os.WriteFile(textPath, []byte(document), 0o644); err != nil {
		return Artifact{}, fmt.Errorf("failed to write %s: %w", textPath, err)
	}
	logger.Debug("Wrote document", zap.String("path", textPath), zap.Int("bytes", len(document)))

	gzipPath := textPath + ".gz"
	if err := compressFile(textPath, gzipPath); err != nil {
		return Artifact{}, err
	}
	logger.Debug("Wrote compressed document", zap.String("path", gzipPath))

	return Artifact{TextPath: textPath, GzipPath: gzipPath}, nil
}

// compressFile gzips src into dst, leaving src in place.
func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s for compression: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	zw := gzip.NewWriter(out)
	zw.Name = filepath.Base(src)

	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		out.Close()
		return fmt.Errorf("failed to compress %s: %w", src, err)
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to finalize %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return nil
}
