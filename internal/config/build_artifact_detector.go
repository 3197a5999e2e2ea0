// Parses .csproj and Directory.Build.props files to find build output
// directories that must not be read as sources.
package config

import (
	"encoding/xml"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/scriptsym/internal/debug"
)

// BuildArtifactDetector finds MSBuild output directories
type BuildArtifactDetector struct {
	projectRoot string
}

// NewBuildArtifactDetector creates a new build artifact detector
func NewBuildArtifactDetector(projectRoot string) *BuildArtifactDetector {
	return &BuildArtifactDetector{projectRoot: projectRoot}
}

type msbuildProject struct {
	PropertyGroups []struct {
		OutputPath                 string `xml:"OutputPath"`
		BaseOutputPath             string `xml:"BaseOutputPath"`
		IntermediateOutputPath     string `xml:"IntermediateOutputPath"`
		BaseIntermediateOutputPath string `xml:"BaseIntermediateOutputPath"`
	} `xml:"PropertyGroup"`
}

// DetectOutputDirectories returns exclusion globs, relative to the project
// root, for every custom output directory declared by a project file.
func (bad *BuildArtifactDetector) DetectOutputDirectories() []string {
	fsys := os.DirFS(bad.projectRoot)
	var files []string
	for _, pattern := range []string{"**/*.csproj", "**/Directory.Build.props"} {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}

	var patterns []string
	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(bad.projectRoot, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		patterns = append(patterns, outputPatterns(path.Dir(rel), data)...)
	}
	return patterns
}

func outputPatterns(dir string, data []byte) []string {
	var proj msbuildProject
	if err := xml.Unmarshal(data, &proj); err != nil {
		debug.Printf("config: skipping unparsable project file in %s: %v\n", dir, err)
		return nil
	}
	var out []string
	for _, pg := range proj.PropertyGroups {
		for _, p := range []string{pg.OutputPath, pg.BaseOutputPath, pg.IntermediateOutputPath, pg.BaseIntermediateOutputPath} {
			if glob, ok := outputGlob(dir, p); ok {
				out = append(out, glob)
			}
		}
	}
	return out
}

// outputGlob turns an MSBuild path such as `build\$(Configuration)\` into
// a glob over its first fixed directory. Paths that start with a property
// or leave the project directory are ignored.
func outputGlob(dir, p string) (string, bool) {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	if i := strings.Index(p, "$("); i >= 0 {
		p = p[:i]
	}
	p = strings.Trim(p, "/")
	if p == "" || strings.HasPrefix(p, "..") || path.IsAbs(p) {
		return "", false
	}
	return path.Join(dir, p) + "/**", true
}

// EnrichExclusionsWithBuildArtifacts adds detected output directories to
// the exclusion list
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	if c.Project.Root == "" {
		return
	}
	detected := NewBuildArtifactDetector(c.Project.Root).DetectOutputDirectories()
	if len(detected) > 0 {
		c.Exclude = DeduplicatePatterns(append(c.Exclude, detected...))
	}
}

// DeduplicatePatterns removes duplicate patterns, keeping first occurrences
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}
	return result
}
