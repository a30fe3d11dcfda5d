package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fmt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("print_width: 100\ntab_size: 4\nverify: true\npaths: [src]\n"), 0o644))

	cfg, found, err := Load(path)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 100, cfg.PrintWidth)
	require.Equal(t, 4, cfg.TabSize)
	require.True(t, cfg.Verify)
	require.Equal(t, []string{"src"}, cfg.Paths)
	require.Equal(t, Default().Glob, cfg.Glob)
}

func TestLoadMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, found, err := Load("")
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, Default(), cfg)

	_, _, err = Load("absent.yaml")
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("print_width: [1"), 0o644))
	_, _, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	require.Error(t, cfg.Validate())

	cfg.Paths = []string{dir + "/."}
	require.NoError(t, cfg.Validate())
	require.Equal(t, dir, cfg.Paths[0])

	bad := cfg
	bad.TabSize = 3
	require.Error(t, bad.Validate())

	bad = cfg
	bad.PrintWidth = 0
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Write, bad.Out = true, "out"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Paths = []string{filepath.Join(dir, "missing")}
	require.Error(t, bad.Validate())
}

func TestFormatOptions(t *testing.T) {
	cfg := Default()
	cfg.PrintWidth, cfg.TabSize = 100, 4
	opts := cfg.FormatOptions()
	require.Equal(t, 100, opts.PrintWidth)
	require.Equal(t, 4, opts.IndentWidth)
	require.Zero(t, opts.BaseIndent)
}
