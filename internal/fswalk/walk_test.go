package fswalk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustWrite(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func relPaths(files []SourceFile) []string {
	var rel []string
	for _, f := range files {
		rel = append(rel, filepath.ToSlash(f.RelPath))
	}
	return rel
}

func TestDiscoverSources(t *testing.T) {
	root := t.TempDir()

	mustWrite(t, filepath.Join(root, "a.js"), "a")
	mustWrite(t, filepath.Join(root, "nested", "b.tsx"), "b")
	mustWrite(t, filepath.Join(root, "nested", "c.txt"), "c")
	mustWrite(t, filepath.Join(root, "node_modules", "dep", "d.js"), "d")

	got, err := DiscoverSources(root, "")
	require.NoError(t, err)
	require.Equal(t, []string{"a.js", "nested/b.tsx"}, relPaths(got))

	got, err = DiscoverSources(root, "**/*.txt")
	require.NoError(t, err)
	require.Equal(t, []string{"nested/c.txt"}, relPaths(got))
}

func TestDiscoverSourcesSingleFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "view.rgl")
	mustWrite(t, path, "<p></p>")

	got, err := DiscoverSources(path, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "view.rgl", got[0].RelPath)
	require.Equal(t, path, got[0].AbsPath)
}

func TestDiscoverSourcesErrors(t *testing.T) {
	_, err := DiscoverSources(filepath.Join(t.TempDir(), "missing"), "")
	require.Error(t, err)

	_, err = DiscoverSources(t.TempDir(), "[")
	require.Error(t, err)
}

func TestMirrorOutputPath(t *testing.T) {
	got := filepath.ToSlash(MirrorOutputPath("out", "foo/bar/a.js", ""))
	require.Equal(t, "out/foo/bar/a.js", got)

	got = filepath.ToSlash(MirrorOutputPath("out", "a.rgl", ".html"))
	require.Equal(t, "out/a.html", got)
}

func TestCopyFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.js")
	mustWrite(t, src, "const a = 1;\n")

	dst := filepath.Join(root, "out", "deep", "a.js")
	require.NoError(t, CopyFile(src, dst))
	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "const a = 1;\n", string(raw))
}
