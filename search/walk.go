package search

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/monochromegane/go-gitignore"
)

// ListScripts returns the regular files directly inside dir, sorted by name.
// Hidden files and anything matched by dir/.gitignore are left out.
func ListScripts(dir string) ([]string, error) {
	var ignoreMatcher gitignore.IgnoreMatcher

	gitignorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		ignoreMatcher, _ = gitignore.NewGitIgnore(gitignorePath)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		// Follow symlinks so linked scripts count as files.
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		if ignoreMatcher != nil && ignoreMatcher.Match(path, false) {
			continue
		}
		paths = append(paths, path)
	}

	sort.Strings(paths)
	return paths, nil
}
