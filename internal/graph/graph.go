// Package graph holds the module dependency graph: an adjacency-list
// structure keyed by canonical path, plus the coupling metrics and
// architecture rules evaluated over it.
package graph

import (
	"sort"

	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/resolve"
)

// Graph is the internal-edge subgraph of the analyzed tree. Nodes are
// tracked modules; edges are deduped internal references. Built once per
// run, then read-only.
type Graph struct {
	nodes map[string]*node
}

type node struct {
	path         string
	layer        string
	dependsOn    map[string]bool
	dependedOnBy map[string]bool
}

// CouplingRecord is the per-module coupling summary. DependsOn and
// DependedOnBy are deduped and path-sorted.
type CouplingRecord struct {
	Module       string
	Afferent     int
	Efferent     int
	Instability  float64
	DependsOn    []string
	DependedOnBy []string
}

func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddModule registers a tracked module and its layer name (empty when
// unclassified). Idempotent.
func (g *Graph) AddModule(path, layer string) {
	if n, ok := g.nodes[path]; ok {
		if n.layer == "" {
			n.layer = layer
		}
		return
	}
	g.nodes[path] = &node{
		path:         path,
		layer:        layer,
		dependsOn:    make(map[string]bool),
		dependedOnBy: make(map[string]bool),
	}
}

// AddEdge records one internal dependency. Self-edges (a module
// re-exporting its own path) are dropped; repeated edges collapse, so a
// module textually importing the same target many times still counts it
// once in either direction.
func (g *Graph) AddEdge(from, to string) {
	if from == to {
		return
	}
	fromNode, ok := g.nodes[from]
	if !ok {
		return
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return
	}
	fromNode.dependsOn[to] = true
	toNode.dependedOnBy[from] = true
}

// AddReferences folds every internal resolved reference into the graph.
// Non-internal targets are ignored here; rules handle them separately.
func (g *Graph) AddReferences(refs []resolve.Reference) {
	for _, ref := range refs {
		if ref.Target.Kind != resolve.TargetInternal {
			continue
		}
		g.AddEdge(ref.From, ref.Target.Path)
	}
}

// Layer returns the layer name recorded for a module path.
func (g *Graph) Layer(path string) string {
	if n, ok := g.nodes[path]; ok {
		return n.layer
	}
	return ""
}

// Modules returns every tracked path in sorted order.
func (g *Graph) Modules() []string {
	paths := make([]string, 0, len(g.nodes))
	for p := range g.nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Edges returns the deduped internal edges sorted by (from, to).
func (g *Graph) Edges() [][2]string {
	edges := make([][2]string, 0)
	for _, from := range g.Modules() {
		n := g.nodes[from]
		for _, to := range sortedKeys(n.dependsOn) {
			edges = append(edges, [2]string{from, to})
		}
	}
	return edges
}

// ModuleCount returns the number of tracked modules.
func (g *Graph) ModuleCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of deduped internal edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, n := range g.nodes {
		total += len(n.dependsOn)
	}
	return total
}

// CouplingRecords computes afferent/efferent coupling and instability for
// every tracked module, sorted by path. Instability is Ce/(Ca+Ce); a
// module with neither dependents nor dependencies is defined as maximally
// stable (0), not undefined. Cycles are tolerated: mutually dependent
// modules each accumulate both counts.
func (g *Graph) CouplingRecords() []CouplingRecord {
	records := make([]CouplingRecord, 0, len(g.nodes))
	for _, path := range g.Modules() {
		n := g.nodes[path]
		rec := CouplingRecord{
			Module:       path,
			Afferent:     len(n.dependedOnBy),
			Efferent:     len(n.dependsOn),
			DependsOn:    sortedKeys(n.dependsOn),
			DependedOnBy: sortedKeys(n.dependedOnBy),
		}
		if total := rec.Afferent + rec.Efferent; total > 0 {
			rec.Instability = float64(rec.Efferent) / float64(total)
		}
		records = append(records, rec)
	}
	return records
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
