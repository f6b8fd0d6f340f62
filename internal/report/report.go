// Package report merges violations and coupling metrics into the single
// deterministic output structure rendered by the CLI.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/graph"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/resolve"
)

// Overall run status, the sole signal behind the CLI exit code.
const (
	StatusClean      = "clean"
	StatusViolations = "violations-found"
)

// Report is the aggregate analysis result for one run. All slices are in
// their final display order; rendering the same report twice produces
// byte-identical output.
type Report struct {
	Status string

	LayerViolations    []graph.Violation
	PlatformViolations []graph.Violation
	Coupling           []graph.CouplingRecord
	Unresolved         []resolve.Reference

	FilesAnalyzed  int
	ModulesTracked int

	// SingleTarget means only one module's outgoing references were
	// analyzed; afferent coupling cannot be computed and is shown as
	// unavailable instead of a fabricated zero.
	SingleTarget bool
}

// Assemble sorts and groups the run's outputs. Violations group by rule,
// each group ordered by module path then reference; coupling records
// order by total coupling descending with path as tiebreak.
func Assemble(violations []graph.Violation, coupling []graph.CouplingRecord, unresolved []resolve.Reference, filesAnalyzed int) *Report {
	r := &Report{
		Status:         StatusClean,
		FilesAnalyzed:  filesAnalyzed,
		ModulesTracked: len(coupling),
	}

	for _, v := range violations {
		switch v.RuleID {
		case graph.RuleLayerOrder:
			r.LayerViolations = append(r.LayerViolations, v)
		case graph.RulePlatformIsolation:
			r.PlatformViolations = append(r.PlatformViolations, v)
		}
	}
	sortViolations(r.LayerViolations)
	sortViolations(r.PlatformViolations)
	if len(r.LayerViolations) > 0 || len(r.PlatformViolations) > 0 {
		r.Status = StatusViolations
	}

	r.Coupling = append(r.Coupling, coupling...)
	sort.SliceStable(r.Coupling, func(i, j int) bool {
		ti := r.Coupling[i].Afferent + r.Coupling[i].Efferent
		tj := r.Coupling[j].Afferent + r.Coupling[j].Efferent
		if ti != tj {
			return ti > tj
		}
		return r.Coupling[i].Module < r.Coupling[j].Module
	})

	r.Unresolved = append(r.Unresolved, unresolved...)
	sort.SliceStable(r.Unresolved, func(i, j int) bool {
		if r.Unresolved[i].From != r.Unresolved[j].From {
			return r.Unresolved[i].From < r.Unresolved[j].From
		}
		return r.Unresolved[i].Specifier < r.Unresolved[j].Specifier
	})

	return r
}

func sortViolations(vs []graph.Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].Module != vs[j].Module {
			return vs[i].Module < vs[j].Module
		}
		return vs[i].Reference < vs[j].Reference
	})
}

// ViolationCount returns the total number of violations across rules.
func (r *Report) ViolationCount() int {
	return len(r.LayerViolations) + len(r.PlatformViolations)
}

// RenderOptions controls optional report sections.
type RenderOptions struct {
	TopCoupling    int
	ShowUnresolved bool
}

// Render writes the human-readable report sections in their fixed order:
// layer violations, platform API usage, coupling table, summary line.
func (r *Report) Render(w io.Writer, opts RenderOptions) {
	top := opts.TopCoupling
	if top <= 0 {
		top = 15
	}

	fmt.Fprintln(w, "Layer violations")
	fmt.Fprintln(w, "----------------")
	if len(r.LayerViolations) == 0 {
		fmt.Fprintln(w, "No layer violations found.")
	} else {
		for _, v := range r.LayerViolations {
			fmt.Fprintf(w, "  %s\n", v.Message)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Platform API usage")
	fmt.Fprintln(w, "------------------")
	if len(r.PlatformViolations) == 0 {
		fmt.Fprintln(w, "No platform-isolation violations found.")
	} else {
		for _, v := range r.PlatformViolations {
			fmt.Fprintf(w, "  %s\n", v.Message)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Coupling (top %d by Ca+Ce)\n", top)
	fmt.Fprintln(w, "--------------------------")
	fmt.Fprintf(w, "  %-48s %6s %6s %12s\n", "module", "Ca", "Ce", "instability")
	limit := min(top, len(r.Coupling))
	for _, rec := range r.Coupling[:limit] {
		ca := fmt.Sprintf("%d", rec.Afferent)
		if r.SingleTarget {
			ca = "-"
		}
		fmt.Fprintf(w, "  %-48s %6s %6d %12.2f\n", rec.Module, ca, rec.Efferent, rec.Instability)
	}
	if r.SingleTarget {
		fmt.Fprintln(w, "  (afferent coupling unavailable in single-file mode)")
	}
	fmt.Fprintln(w)

	if opts.ShowUnresolved && len(r.Unresolved) > 0 {
		fmt.Fprintln(w, "Unresolved references")
		fmt.Fprintln(w, "---------------------")
		for _, ref := range r.Unresolved {
			fmt.Fprintf(w, "  %s -> %q\n", ref.From, ref.Specifier)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Analyzed %d files: %d violations, %d modules tracked\n",
		r.FilesAnalyzed, r.ViolationCount(), r.ModulesTracked)
}

// String renders with default options, mainly for tests and logs.
func (r *Report) String() string {
	var b strings.Builder
	r.Render(&b, RenderOptions{})
	return b.String()
}
