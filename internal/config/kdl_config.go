package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/scriptsym/internal/debug"
)

// LoadKDL attempts to load configuration from the .scriptsym.kdl file in
// projectRoot. It returns nil, nil when there is no such file.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, FileName)
	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadKDLFile(kdlPath, projectRoot)
}

// LoadKDLFile loads the KDL configuration at path. A relative project root
// in the file is resolved against projectRoot.
func LoadKDLFile(path, projectRoot string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.Project.Root == "":
		if abs, err := filepath.Abs(projectRoot); err == nil {
			cfg.Project.Root = abs
		} else {
			cfg.Project.Root = projectRoot
		}
	case !filepath.IsAbs(cfg.Project.Root):
		cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Project.Root))
	}
	if cfg.Project.Name == "" {
		cfg.Project.Name = filepath.Base(cfg.Project.Root)
	}
	return cfg, nil
}

// parseKDL decodes configuration over the defaults. The project root is
// left empty unless the file sets it.
func parseKDL(content string) (*Config, error) {
	cfg := Default("")
	cfg.Project = Project{}

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children { // project { root "."; name "app"; }
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "naming":
			for _, cn := range n.Children {
				assignSimpleString(cn, "enum_rule", func(v string) { cfg.Naming.EnumRule = v })
				assignSimpleString(cn, "field_rule", func(v string) { cfg.Naming.FieldRule = v })
			}
		case "discovery":
			for _, cn := range n.Children {
				assignSimpleString(cn, "mode", func(v string) { cfg.Discovery.Mode = v })
				assignSimpleString(cn, "standard_library", func(v string) { cfg.Discovery.StandardLibrary = v })
			}
		case "performance":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "parallelism":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.Parallelism = v
					}
				case "timeout_sec":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.TimeoutSec = v
					}
				}
			}
		case "sources":
			parseSources(cfg, n)
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			// An exclude list replaces the default exclusions
			cfg.Exclude = collectStringArgs(n)
		case "libraries":
			for _, cn := range n.Children {
				if nodeName(cn) != "library" {
					continue
				}
				args := collectStringArgs(cn)
				if len(args) == 0 {
					return nil, fmt.Errorf("library node needs a name")
				}
				cfg.Libraries = append(cfg.Libraries, Library{Name: args[0], Patterns: args[1:]})
			}
		case "overrides":
			if s, ok := firstStringArg(n); ok {
				cfg.Overrides = s
			}
		default:
			debug.Printf("config: ignoring unknown node %q\n", nodeName(n))
		}
	}

	return cfg, nil
}

// parseSources handles sources { include "..."; exclude "..."; respect_gitignore false }.
// Include patterns given here replace the default include list.
func parseSources(cfg *Config, n *document.Node) {
	includeSet := false
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "include":
			if !includeSet {
				cfg.Include = nil
				includeSet = true
			}
			cfg.Include = append(cfg.Include, collectStringArgs(cn)...)
		case "exclude":
			cfg.Exclude = collectStringArgs(cn)
		case "respect_gitignore":
			if b, ok := firstBoolArg(cn); ok {
				cfg.RespectGitignore = b
			}
		}
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads inline arguments (exclude "a" "b") or, failing
// that, block children (exclude { "a"; "b" }) where each child's name is the
// value.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
