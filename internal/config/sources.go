package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// SourceFiles returns the absolute paths of the project's source files:
// files under the project root matched by Include and not by Exclude or,
// when enabled, .gitignore. Files claimed by a library are left out.
// The result is sorted.
func (c *Config) SourceFiles(ctx context.Context) ([]string, error) {
	var ignore *GitignoreParser
	if c.RespectGitignore {
		ignore = NewGitignoreParser()
		if err := ignore.LoadGitignore(c.Project.Root); err != nil {
			return nil, err
		}
	}
	libraryFiles := make(map[string]bool)
	for _, lib := range c.Libraries {
		files, err := c.LibraryFiles(lib)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			libraryFiles[f] = true
		}
	}

	var out []string
	err := filepath.WalkDir(c.Project.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(c.Project.Root, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if d.Name() == ".git" || (ignore != nil && ignore.ShouldIgnore(rel, true)) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignore != nil && ignore.ShouldIgnore(rel, false) {
			return nil
		}
		if c.Matches(rel) && !libraryFiles[path] {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// Matches reports whether a root-relative slash path is included and not
// excluded
func (c *Config) Matches(rel string) bool {
	return matchAny(c.Include, rel) && !matchAny(c.Exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// LibraryFiles returns the absolute, sorted paths of the files of lib.
// Library patterns are relative to the project root and are not filtered
// by the source exclusions.
func (c *Config) LibraryFiles(lib Library) ([]string, error) {
	fsys := os.DirFS(c.Project.Root)
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range lib.Patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			abs := filepath.Join(c.Project.Root, filepath.FromSlash(m))
			if !seen[abs] {
				seen[abs] = true
				out = append(out, abs)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
