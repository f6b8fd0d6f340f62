package report

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/graph"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/layers"
)

// Mermaid serializes the internal-edge subgraph as a mermaid flowchart,
// grouping nodes into subgraphs by layer and highlighting violation
// edges. Output is fully ordered so repeated runs emit identical text.
func Mermaid(g *graph.Graph, cls *layers.Classifier, violations []graph.Violation) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	modules := g.Modules()
	ids := makeIDs(modules)

	byLayer := make(map[string][]string)
	for _, mod := range modules {
		byLayer[g.Layer(mod)] = append(byLayer[g.Layer(mod)], mod)
	}

	for _, layer := range cls.Layers() {
		members := byLayer[layer.Name]
		if len(members) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  subgraph layer_%s[\"%s (level %d)\"]\n", sanitizeID(layer.Name), escapeLabel(layer.Name), layer.Level))
		for _, mod := range members {
			b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", ids[mod], escapeLabel(mod)))
		}
		b.WriteString("  end\n")
	}
	for _, mod := range byLayer[""] {
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[mod], escapeLabel(mod)))
	}

	violationTargets := violationEdgeSet(violations)

	b.WriteString("\n")
	linkIndex := 0
	violationLinks := make([]int, 0)
	for _, edge := range g.Edges() {
		from, to := edge[0], edge[1]
		label := ""
		if violationTargets[from+"->"+to] {
			label = "|VIOLATION|"
			violationLinks = append(violationLinks, linkIndex)
		}
		b.WriteString(fmt.Sprintf("  %s -->%s %s\n", ids[from], label, ids[to]))
		linkIndex++
	}

	if len(violationLinks) > 0 {
		b.WriteString(fmt.Sprintf("\n  linkStyle %s stroke:#cc0000,stroke-width:3px;\n", joinInts(violationLinks)))
	}

	return b.String()
}

// violationEdgeSet keys layer-order violations by from->target module so
// offending graph edges can be styled. Platform and cross-layer
// violations have no internal target edge and are skipped.
func violationEdgeSet(violations []graph.Violation) map[string]bool {
	set := make(map[string]bool, len(violations))
	for _, v := range violations {
		if v.RuleID != graph.RuleLayerOrder || v.TargetModule == "" {
			continue
		}
		set[v.Module+"->"+v.TargetModule] = true
	}
	return set
}

func sanitizeID(name string) string {
	if name == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" {
		return "m"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "m_" + out
	}
	return out
}

func makeIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func joinInts(values []int) string {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	parts := make([]string, 0, len(sorted))
	for _, v := range sorted {
		parts = append(parts, fmt.Sprintf("%d", v))
	}
	return strings.Join(parts, ",")
}
