package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArtifactDetector_DetectOutputDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "App"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "App", "App.csproj"), []byte(`
<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <OutputPath>build\$(Configuration)\</OutputPath>
    <BaseIntermediateOutputPath>tmp\obj\</BaseIntermediateOutputPath>
  </PropertyGroup>
  <PropertyGroup>
    <BaseOutputPath>$(SolutionDir)out</BaseOutputPath>
    <IntermediateOutputPath>..\shared\obj</IntermediateOutputPath>
  </PropertyGroup>
</Project>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Directory.Build.props"), []byte(`
<Project><PropertyGroup><BaseOutputPath>artifacts/</BaseOutputPath></PropertyGroup></Project>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Broken.csproj"), []byte(`<Project`), 0644))

	patterns := NewBuildArtifactDetector(root).DetectOutputDirectories()

	assert.ElementsMatch(t, []string{
		"src/App/build/**",
		"src/App/tmp/obj/**",
		"artifacts/**",
	}, patterns)
}

func TestConfig_EnrichExclusionsWithBuildArtifacts(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "App.csproj"),
		[]byte(`<Project><PropertyGroup><OutputPath>dist</OutputPath></PropertyGroup></Project>`), 0644))

	cfg := Default(root)
	cfg.Exclude = []string{"dist/**"}
	cfg.EnrichExclusionsWithBuildArtifacts()
	assert.Equal(t, []string{"dist/**"}, cfg.Exclude, "detected patterns are deduplicated")
}

func TestDeduplicatePatterns(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, DeduplicatePatterns([]string{"a", "b", "a"}))
}
