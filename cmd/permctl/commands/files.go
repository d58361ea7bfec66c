package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// resolveFiles expands glob patterns and appends them to explicit paths,
// dropping duplicates. With neither, it falls back to the existing files
// among defaults.
func resolveFiles(paths, globs, defaults []string) ([]string, error) {
	var files []string
	add := func(p string) {
		if !slices.Contains(files, p) {
			files = append(files, p)
		}
	}

	for _, p := range paths {
		add(p)
	}
	for _, pattern := range globs {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid glob %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			add(m)
		}
	}

	if len(paths) == 0 && len(globs) == 0 {
		for _, p := range defaults {
			if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
				continue
			}
			add(p)
		}
	}

	if len(files) == 0 {
		return nil, errors.New("no settings files found")
	}
	return files, nil
}
