// Package config loads and validates the analyzer configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/layers"
)

type Config struct {
	SourceDirs       []string `toml:"source_dirs"`
	Extensions       []string `toml:"extensions"`
	DefaultExtension string   `toml:"default_extension"`
	PackageRoot      string   `toml:"package_root"`
	PlatformPrefix   string   `toml:"platform_prefix"`
	PlatformAPIs     []string `toml:"platform_apis"`
	Layers           []Layer  `toml:"layers"`
	Exclude          Exclude  `toml:"exclude"`
	Output           Output   `toml:"output"`
}

type Layer struct {
	Name     string   `toml:"name"`
	Level    int      `toml:"level"`
	Prefixes []string `toml:"prefixes"`
	Isolated bool     `toml:"isolated"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Output struct {
	TopCoupling int `toml:"top_coupling"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a ready-to-use configuration for the conventional
// framework tree layout, used when no config file is present.
func Default() *Config {
	cfg := &Config{
		Layers: []Layer{
			{Name: "core", Level: 0, Prefixes: []string{"src/core"}, Isolated: true},
			{Name: "runtime", Level: 1, Prefixes: []string{"src/runtime", "src/dom"}, Isolated: true},
			{Name: "tooling", Level: 2, Prefixes: []string{"src/tooling", "src/cli"}},
		},
		PlatformAPIs: []string{"fs", "path", "os", "child_process", "http", "https", "net", "process", "url", "crypto"},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.SourceDirs) == 0 {
		c.SourceDirs = []string{"src"}
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".js", ".mjs", ".cjs"}
	}
	if c.DefaultExtension == "" {
		c.DefaultExtension = ".js"
	}
	if c.PackageRoot == "" {
		c.PackageRoot = "@pulse"
	}
	if c.PlatformPrefix == "" {
		c.PlatformPrefix = "node:"
	}
	if len(c.Exclude.Dirs) == 0 {
		c.Exclude.Dirs = []string{"node_modules", ".git", "dist", "coverage"}
	}
	if c.Output.TopCoupling == 0 {
		c.Output.TopCoupling = 15
	}
}

// Validate checks the layer table. Hard errors stop the run; overlap
// between layers is only a warning because declaration order resolves it
// deterministically at classification time.
func (c *Config) Validate() ([]string, error) {
	warnings := make([]string, 0)

	if len(c.Layers) == 0 {
		return nil, fmt.Errorf("no layers declared")
	}

	seenNames := make(map[string]bool, len(c.Layers))
	prefixOwner := make(map[string]string)
	for i, layer := range c.Layers {
		name := strings.TrimSpace(layer.Name)
		if name == "" {
			return nil, fmt.Errorf("layers[%d].name must not be empty", i)
		}
		if seenNames[name] {
			return nil, fmt.Errorf("duplicate layer name %q", name)
		}
		seenNames[name] = true
		if layer.Level < 0 {
			return nil, fmt.Errorf("layers[%d].level must be >= 0, got %d", i, layer.Level)
		}
		if len(layer.Prefixes) == 0 {
			return nil, fmt.Errorf("layer %q declares no path prefixes", name)
		}
		for _, prefix := range layer.Prefixes {
			p := strings.Trim(strings.TrimSpace(prefix), "/")
			if p == "" {
				return nil, fmt.Errorf("layer %q has an empty path prefix", name)
			}
			if owner, dup := prefixOwner[p]; dup && owner != name {
				warnings = append(warnings, fmt.Sprintf(
					"prefix %q declared by both %q and %q; ties resolve by declaration order (%q wins)",
					p, owner, name, owner))
				continue
			}
			prefixOwner[p] = name
		}
	}

	seenAPIs := make(map[string]bool, len(c.PlatformAPIs))
	for _, name := range c.PlatformAPIs {
		n := strings.TrimSpace(name)
		if n == "" || strings.HasPrefix(n, c.PlatformPrefix) {
			warnings = append(warnings, fmt.Sprintf(
				"platform_apis entry %q is not a bare API name; the %q prefix is recognized implicitly", name, c.PlatformPrefix))
			continue
		}
		if seenAPIs[n] {
			warnings = append(warnings, fmt.Sprintf("duplicate platform_apis entry %q", n))
		}
		seenAPIs[n] = true
	}

	return warnings, nil
}

// LayerTable converts the configured layers into the classifier's form,
// preserving declaration order.
func (c *Config) LayerTable() []layers.Layer {
	table := make([]layers.Layer, 0, len(c.Layers))
	for _, l := range c.Layers {
		table = append(table, layers.Layer{
			Name:         l.Name,
			Level:        l.Level,
			PathPrefixes: append([]string(nil), l.Prefixes...),
			Isolated:     l.Isolated,
		})
	}
	return table
}
