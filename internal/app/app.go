// Package app wires the analysis pipeline: discover sources, extract
// references, classify layers, resolve targets, evaluate rules, compute
// coupling, assemble the report.
package app

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/config"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/extract"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/graph"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/layers"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/report"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/resolve"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/shared/observability"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/source"
)

type App struct {
	cfg      *config.Config
	provider *source.Provider
	resolver *resolve.Resolver
}

// Result is one completed run: the report plus the graph and classifier
// it was derived from, kept for graph serialization.
type Result struct {
	Report     *report.Report
	Graph      *graph.Graph
	Classifier *layers.Classifier
}

func New(cfg *config.Config, root string) (*App, error) {
	warnings, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		slog.Warn("configuration", "warning", w)
	}

	provider, err := source.NewProvider(root, cfg.Extensions, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		provider: provider,
		resolver: resolve.NewResolver(cfg.PackageRoot, cfg.PlatformAPIs, cfg.PlatformPrefix, cfg.DefaultExtension),
	}, nil
}

// Run analyzes the whole configured source tree.
func (a *App) Run(ctx context.Context) (*Result, error) {
	files, err := a.provider.Discover(a.cfg.SourceDirs)
	if err != nil {
		return nil, err
	}
	return a.analyze(ctx, files, files, false)
}

// RunTarget analyzes a single explicitly named file. The rest of the
// tree is still discovered so relative references can resolve, but only
// the target's outgoing references are evaluated; its report flags
// afferent coupling as unavailable rather than fabricating it.
func (a *App) RunTarget(ctx context.Context, target string) (*Result, error) {
	targetFile, err := a.provider.ReadTarget(target)
	if err != nil {
		return nil, err
	}
	all, err := a.provider.Discover(a.cfg.SourceDirs)
	if err != nil {
		return nil, err
	}
	found := false
	for _, f := range all {
		if f.Path == targetFile.Path {
			found = true
			break
		}
	}
	if !found {
		all = append(all, targetFile)
		sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })
	}
	return a.analyze(ctx, []source.File{targetFile}, all, true)
}

// analyze runs the pipeline over analyzed (the files whose references are
// evaluated) against the full module set in tracked. Extraction is
// parallel; everything after is a single path-ordered pass so output is
// deterministic.
func (a *App) analyze(ctx context.Context, analyzed, tracked []source.File, singleTarget bool) (*Result, error) {
	observability.FilesScanned.Set(float64(len(tracked)))

	moduleSet := make(map[string]bool, len(tracked))
	for _, f := range tracked {
		moduleSet[f.Path] = true
	}

	extracted, err := a.extractAll(ctx, analyzed)
	if err != nil {
		return nil, err
	}

	cls := layers.NewClassifier(a.cfg.LayerTable())

	start := time.Now()
	g := graph.New()
	for _, f := range tracked {
		layerName := ""
		if layer, ok := cls.Classify(f.Path); ok {
			layerName = layer.Name
		}
		g.AddModule(f.Path, layerName)
	}

	resolved := make([]resolve.Reference, 0)
	unresolved := make([]resolve.Reference, 0)
	for _, m := range extracted {
		for _, raw := range m.refs {
			ref := resolve.Reference{
				From:      m.path,
				Kind:      raw.Kind,
				Specifier: raw.Specifier,
				Target:    a.resolver.Resolve(raw, m.path, moduleSet, cls),
			}
			resolved = append(resolved, ref)
			if ref.Target.Kind == resolve.TargetUnresolved {
				unresolved = append(unresolved, ref)
			}
		}
	}
	observability.AnalysisDuration.WithLabelValues("resolve").Observe(time.Since(start).Seconds())

	start = time.Now()
	violations := graph.DetectViolations(resolved, cls)
	g.AddReferences(resolved)
	observability.AnalysisDuration.WithLabelValues("rules").Observe(time.Since(start).Seconds())

	for _, w := range cls.Warnings() {
		slog.Warn("layer classification", "warning", w)
	}

	observability.GraphNodes.Set(float64(g.ModuleCount()))
	observability.GraphEdges.Set(float64(g.EdgeCount()))

	rep := report.Assemble(violations, g.CouplingRecords(), unresolved, len(analyzed))
	rep.SingleTarget = singleTarget
	rep.ModulesTracked = g.ModuleCount()

	layerCount, platformCount := 0, 0
	for _, v := range violations {
		if v.RuleID == graph.RuleLayerOrder {
			layerCount++
		} else {
			platformCount++
		}
	}
	observability.ViolationsFound.WithLabelValues(graph.RuleLayerOrder).Set(float64(layerCount))
	observability.ViolationsFound.WithLabelValues(graph.RulePlatformIsolation).Set(float64(platformCount))

	return &Result{Report: rep, Graph: g, Classifier: cls}, nil
}

type extractedModule struct {
	path string
	refs []extract.RawReference
}

// extractAll scans every file concurrently. Extraction is pure, so the
// only ordering requirement is re-sorting results by path before rule
// evaluation; the fixed-size result slice keeps each worker's output in
// its input slot.
func (a *App) extractAll(ctx context.Context, files []source.File) ([]extractedModule, error) {
	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())
	}()

	results := make([]extractedModule, len(files))

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		i, f := i, f
		eg.Go(func() error {
			results[i] = extractedModule{path: f.Path, refs: extract.Extract(f.Text)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })
	return results, nil
}
