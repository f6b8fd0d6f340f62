// Package layers maps module paths onto the declared architectural
// layering of the source tree.
package layers

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Layer is one declared architectural layer. Level defines the partial
// order: lower level means more foundational, may be depended upon by
// higher levels but never the reverse. Isolated layers must not touch
// platform-only APIs.
type Layer struct {
	Name         string
	Level        int
	PathPrefixes []string
	Isolated     bool
}

// Classifier assigns module paths to layers by longest whole-segment
// prefix match. Declaration order breaks exact-length ties; every tie is
// recorded as a warning because it signals overlapping prefix config.
// Not safe for concurrent use; the pipeline classifies in one pass.
type Classifier struct {
	layers []Layer
	byName map[string]Layer

	warnings []string
	warned   map[string]bool
}

func NewClassifier(declared []Layer) *Classifier {
	c := &Classifier{
		layers: append([]Layer(nil), declared...),
		byName: make(map[string]Layer, len(declared)),
		warned: make(map[string]bool),
	}
	for _, l := range c.layers {
		c.byName[l.Name] = l
	}
	return c
}

// Layers returns the declared layers in declaration order.
func (c *Classifier) Layers() []Layer {
	return append([]Layer(nil), c.layers...)
}

// ByName looks a layer up by its declared name.
func (c *Classifier) ByName(name string) (Layer, bool) {
	l, ok := c.byName[name]
	return l, ok
}

// Classify returns the layer for modulePath, or ok=false when the path
// falls outside every declared prefix. Unclassified modules are exempt
// from layer rules but still count toward coupling.
func (c *Classifier) Classify(modulePath string) (Layer, bool) {
	normalized := normalizePath(modulePath)
	if normalized == "" {
		return Layer{}, false
	}

	type match struct {
		layer     Layer
		prefixLen int
		declOrder int
	}
	matches := make([]match, 0, 2)

	for i, layer := range c.layers {
		best := 0
		for _, raw := range layer.PathPrefixes {
			prefix := normalizePath(raw)
			if prefix == "" {
				continue
			}
			if hasSegmentPrefix(normalized, prefix) && len(prefix) > best {
				best = len(prefix)
			}
		}
		if best > 0 {
			matches = append(matches, match{layer: layer, prefixLen: best, declOrder: i})
		}
	}

	if len(matches) == 0 {
		return Layer{}, false
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].prefixLen != matches[j].prefixLen {
			return matches[i].prefixLen > matches[j].prefixLen
		}
		return matches[i].declOrder < matches[j].declOrder
	})

	if len(matches) > 1 && matches[0].prefixLen == matches[1].prefixLen {
		c.warnTie(normalized, matches[0].layer.Name, matches[1].layer.Name)
	}

	return matches[0].layer, true
}

// Warnings returns the accumulated configuration warnings, one per
// distinct ambiguous path, in the order they were first seen.
func (c *Classifier) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

func (c *Classifier) warnTie(modulePath, winner, loser string) {
	key := modulePath
	if c.warned[key] {
		return
	}
	c.warned[key] = true
	c.warnings = append(c.warnings, fmt.Sprintf(
		"ambiguous layer prefixes for %s: both %q and %q match at equal length; using %q (declaration order)",
		modulePath, winner, loser, winner))
}

// hasSegmentPrefix reports whether p starts with prefix on whole path
// segments, so "core" matches "core/a.js" but never "corex/a.js".
func hasSegmentPrefix(p, prefix string) bool {
	if p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}

func normalizePath(s string) string {
	clean := path.Clean(strings.TrimSpace(strings.ReplaceAll(s, "\\", "/")))
	if clean == "." || clean == "/" {
		return ""
	}
	clean = strings.TrimPrefix(clean, "./")
	return strings.TrimPrefix(clean, "/")
}
