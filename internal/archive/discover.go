package archive

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// Discover walks root and returns the absolute paths of every regular file
// whose name matches pattern, sorted lexicographically.
func Discover(root, pattern string) ([]string, error) {
	if root == "" {
		return nil, fmt.Errorf("discover: archive root is required")
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("discover: invalid pattern %q: %w", pattern, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("discover: resolve root: %w", err)
	}

	var paths []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		matched, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if matched {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", absRoot, err)
	}
	sort.Strings(paths)
	return paths, nil
}
