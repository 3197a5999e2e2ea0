package config

import (
	"bufio"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser matches paths against .gitignore patterns. Patterns are
// translated to doublestar globs once, when added.
type GitignoreParser struct {
	patterns []GitignorePattern
}

type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	// Anchored patterns (leading or inner slash) match from the root only
	Anchored bool

	glob string
}

// NewGitignoreParser creates a new gitignore parser
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing file is
// not an error.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()
	return gp.Parse(file)
}

// Parse reads patterns line by line
func (gp *GitignoreParser) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern adds a single pattern line
func (gp *GitignoreParser) AddPattern(line string) {
	p := GitignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.Anchored = true
		line = line[1:]
	} else if strings.Contains(line, "/") && !strings.HasPrefix(line, "**/") {
		p.Anchored = true
	}
	p.Pattern = line
	p.glob = line
	if !p.Anchored && !strings.HasPrefix(line, "**/") {
		p.glob = "**/" + line
	}
	gp.patterns = append(gp.patterns, p)
}

// ShouldIgnore reports whether a slash- or OS-separated path relative to the
// root is ignored. The last matching pattern wins.
func (gp *GitignoreParser) ShouldIgnore(name string, isDir bool) bool {
	name = filepath.ToSlash(name)
	ignored := false
	for _, p := range gp.patterns {
		if p.matches(name, isDir) {
			ignored = !p.Negate
		}
	}
	return ignored
}

func (p GitignorePattern) matches(name string, isDir bool) bool {
	if !p.Directory || isDir {
		if ok, _ := doublestar.Match(p.glob, name); ok {
			return true
		}
	}
	// anything below a matching directory
	for dir := path.Dir(name); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if ok, _ := doublestar.Match(p.glob, dir); ok {
			return true
		}
	}
	return false
}

// GetExclusionPatterns returns the non-negated patterns as exclusion globs
func (gp *GitignoreParser) GetExclusionPatterns() []string {
	var out []string
	for _, p := range gp.patterns {
		if p.Negate {
			continue
		}
		if p.Directory {
			out = append(out, p.glob+"/**")
			continue
		}
		out = append(out, p.glob, p.glob+"/**")
	}
	return out
}
