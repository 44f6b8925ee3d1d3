// Package testutil provides shared test helpers for the tickerlogos project.
// Import this in test files to avoid duplicating logo tree fixtures.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/require"
)

// LogoTree creates a temporary logos root containing the given
// slash-separated relative paths and returns the root directory and a billy
// filesystem rooted at it. Each file's content is its relative path, so
// tests can tell served files apart.
func LogoTree(t *testing.T, paths ...string) (string, billy.Filesystem) {
	t.Helper()
	root := t.TempDir()
	for _, rel := range paths {
		WriteLogo(t, root, rel, []byte(rel))
	}
	return root, osfs.New(root)
}

// WriteLogo writes data to rel below root, creating parent directories.
func WriteLogo(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755), "failed to create dir for %s", rel)
	require.NoError(t, os.WriteFile(full, data, 0o644), "failed to write %s", rel)
}

// RemoveLogo deletes rel below root.
func RemoveLogo(t *testing.T, root, rel string) {
	t.Helper()
	require.NoError(t, os.Remove(filepath.Join(root, filepath.FromSlash(rel))), "failed to remove %s", rel)
}

// PNG returns an encoded w×h opaque PNG.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 0x20, G: 0x80, B: 0xc0, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
