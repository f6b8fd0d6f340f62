package resolve

import (
	"testing"

	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/extract"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/layers"
)

func testResolver() *Resolver {
	return NewResolver("@pulse", []string{"fs", "path", "child_process"}, "node:", ".js")
}

func testClassifier() *layers.Classifier {
	return layers.NewClassifier([]layers.Layer{
		{Name: "core", Level: 0, PathPrefixes: []string{"src/core"}},
		{Name: "tooling", Level: 2, PathPrefixes: []string{"src/tooling"}},
	})
}

func TestResolve_RelativePaths(t *testing.T) {
	r := testResolver()
	modules := map[string]bool{
		"src/core/signals.js":     true,
		"src/core/util/index.js":  true,
		"src/tooling/build.js":    true,
		"src/core/scheduler.m.js": true,
	}
	cls := testClassifier()

	tests := []struct {
		specifier string
		from      string
		wantKind  TargetKind
		wantPath  string
	}{
		{"./signals.js", "src/core/effects.js", TargetInternal, "src/core/signals.js"},
		// implied extension, then directory index
		{"./signals", "src/core/effects.js", TargetInternal, "src/core/signals.js"},
		{"./util", "src/core/effects.js", TargetInternal, "src/core/util/index.js"},
		{"../tooling/build.js", "src/core/a.js", TargetInternal, "src/tooling/build.js"},
		// rooted specifiers are repo-relative
		{"/src/core/signals.js", "src/tooling/b.js", TargetInternal, "src/core/signals.js"},
		{"./missing.js", "src/core/a.js", TargetUnresolved, ""},
		{"../outside/x", "src/core/a.js", TargetUnresolved, ""},
	}
	for _, tt := range tests {
		got := r.Resolve(extract.RawReference{Specifier: tt.specifier, Kind: extract.KindStatic}, tt.from, modules, cls)
		if got.Kind != tt.wantKind {
			t.Errorf("Resolve(%q from %q).Kind = %q, want %q", tt.specifier, tt.from, got.Kind, tt.wantKind)
			continue
		}
		if tt.wantKind == TargetInternal && got.Path != tt.wantPath {
			t.Errorf("Resolve(%q from %q).Path = %q, want %q", tt.specifier, tt.from, got.Path, tt.wantPath)
		}
	}
}

func TestResolve_CrossLayer(t *testing.T) {
	r := testResolver()
	cls := testClassifier()

	got := r.Resolve(extract.RawReference{Specifier: "@pulse/tooling"}, "src/core/a.js", nil, cls)
	if got.Kind != TargetCrossLayer || got.Layer != "tooling" {
		t.Fatalf("expected cross-layer tooling, got %+v", got)
	}

	got = r.Resolve(extract.RawReference{Specifier: "@pulse/core/signals"}, "src/tooling/b.js", nil, cls)
	if got.Kind != TargetCrossLayer || got.Layer != "core" {
		t.Fatalf("expected cross-layer core for deep package path, got %+v", got)
	}

	// Package root with an unknown layer segment is just a third-party name.
	got = r.Resolve(extract.RawReference{Specifier: "@pulse/experimental"}, "src/core/a.js", nil, cls)
	if got.Kind != TargetExternal {
		t.Fatalf("expected external for unknown layer segment, got %+v", got)
	}
}

func TestResolve_PlatformAPIs(t *testing.T) {
	r := testResolver()
	cls := testClassifier()

	got := r.Resolve(extract.RawReference{Specifier: "fs", Kind: extract.KindRequire}, "src/core/a.js", nil, cls)
	if got.Kind != TargetPlatform || got.Name != "fs" {
		t.Fatalf("expected platform fs, got %+v", got)
	}

	got = r.Resolve(extract.RawReference{Specifier: "node:fs"}, "src/core/a.js", nil, cls)
	if got.Kind != TargetPlatform || got.Name != "fs" {
		t.Fatalf("expected prefixed form to strip to fs, got %+v", got)
	}

	// Prefixed names are platform even when not in the configured list.
	got = r.Resolve(extract.RawReference{Specifier: "node:worker_threads"}, "src/core/a.js", nil, cls)
	if got.Kind != TargetPlatform || got.Name != "worker_threads" {
		t.Fatalf("expected prefixed unknown name to stay platform, got %+v", got)
	}
}

func TestResolve_External(t *testing.T) {
	r := testResolver()
	cls := testClassifier()

	for _, spec := range []string{"lodash", "@vendor/pkg", "rollup/plugin"} {
		got := r.Resolve(extract.RawReference{Specifier: spec}, "src/core/a.js", nil, cls)
		if got.Kind != TargetExternal || got.Name != spec {
			t.Errorf("Resolve(%q) = %+v, want external", spec, got)
		}
	}
}
