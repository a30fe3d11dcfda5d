package fswalk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches JavaScript and TypeScript host sources.
const DefaultPattern = "**/*.{js,jsx,mjs,cjs,ts,tsx}"

// RawPattern matches bare template files.
const RawPattern = "**/*.rgl"

// SourceFile stores absolute and root-relative paths for one source.
type SourceFile struct {
	AbsPath string
	RelPath string
}

// normalizePattern returns a usable glob and defaults to DefaultPattern.
func normalizePattern(pattern string) string {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return DefaultPattern
	}
	return filepath.ToSlash(pattern)
}

// DiscoverSources finds files under root matching the glob pattern. A root
// that is a regular file is returned as is, whatever the pattern.
func DiscoverSources(root string, pattern string) ([]SourceFile, error) {
	root = filepath.Clean(root)
	matcher := normalizePattern(pattern)
	if !doublestar.ValidatePattern(matcher) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []SourceFile{{AbsPath: root, RelPath: filepath.Base(root)}}, nil
	}

	var files []SourceFile
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("compute relative path for %q: %w", path, err)
		}

		matched, err := doublestar.PathMatch(matcher, filepath.ToSlash(relPath))
		if err != nil {
			return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if !matched {
			return nil
		}

		files = append(files, SourceFile{
			AbsPath: path,
			RelPath: relPath,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelPath < files[j].RelPath
	})

	return files, nil
}

// skipDir reports directories never worth walking into.
func skipDir(name string) bool {
	return name == "node_modules" || name == ".git"
}

// MirrorOutputPath maps a relative input path to an output path and extension.
func MirrorOutputPath(outRoot string, relPath string, ext string) string {
	cleanRel := filepath.Clean(relPath)
	if ext != "" {
		oldExt := filepath.Ext(cleanRel)
		cleanRel = strings.TrimSuffix(cleanRel, oldExt) + ext
	}
	return filepath.Join(outRoot, cleanRel)
}

// EnsureParentDir creates the parent directory tree for a target file path.
func EnsureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// CopyFile copies a file while creating parent directories for destination.
func CopyFile(srcPath string, dstPath string) error {
	if err := EnsureParentDir(dstPath); err != nil {
		return err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return nil
}
