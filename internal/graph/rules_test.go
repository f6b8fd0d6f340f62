package graph

import (
	"testing"

	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/extract"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/layers"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/resolve"
)

func testClassifier() *layers.Classifier {
	return layers.NewClassifier([]layers.Layer{
		{Name: "core", Level: 0, PathPrefixes: []string{"src/core"}, Isolated: true},
		{Name: "runtime", Level: 1, PathPrefixes: []string{"src/runtime"}},
		{Name: "tooling", Level: 2, PathPrefixes: []string{"src/tooling"}},
	})
}

func internalRef(from, to, specifier string) resolve.Reference {
	return resolve.Reference{
		From:      from,
		Kind:      extract.KindStatic,
		Specifier: specifier,
		Target:    resolve.Target{Kind: resolve.TargetInternal, Path: to},
	}
}

func TestLayerOrder_UpwardReferenceViolates(t *testing.T) {
	refs := []resolve.Reference{
		internalRef("src/core/a.js", "src/tooling/b.js", "../tooling/b.js"),
	}
	violations := DetectViolations(refs, testClassifier())
	if len(violations) != 1 {
		t.Fatalf("expected exactly 1 violation, got %d: %v", len(violations), violations)
	}
	v := violations[0]
	if v.RuleID != RuleLayerOrder || v.Module != "src/core/a.js" || v.TargetLayer != "tooling" {
		t.Errorf("unexpected violation: %+v", v)
	}
	if v.TargetModule != "src/tooling/b.js" {
		t.Errorf("TargetModule = %q, want src/tooling/b.js", v.TargetModule)
	}
}

func TestLayerOrder_DownwardAndSiblingAllowed(t *testing.T) {
	refs := []resolve.Reference{
		internalRef("src/tooling/b.js", "src/core/a.js", "../core/a.js"),
		internalRef("src/core/a.js", "src/core/c.js", "./c.js"),
	}
	violations := DetectViolations(refs, testClassifier())
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestLayerOrder_CrossLayerSpecifier(t *testing.T) {
	refs := []resolve.Reference{
		{
			From:      "src/core/a.js",
			Kind:      extract.KindStatic,
			Specifier: "@pulse/tooling",
			Target:    resolve.Target{Kind: resolve.TargetCrossLayer, Layer: "tooling"},
		},
	}
	violations := DetectViolations(refs, testClassifier())
	if len(violations) != 1 || violations[0].RuleID != RuleLayerOrder {
		t.Fatalf("expected one layer-order violation via package import, got %v", violations)
	}
}

func TestLayerOrder_UnclassifiedExempt(t *testing.T) {
	refs := []resolve.Reference{
		internalRef("scripts/release.js", "src/tooling/b.js", "../src/tooling/b.js"),
		internalRef("src/core/a.js", "scripts/release.js", "../../scripts/release.js"),
	}
	violations := DetectViolations(refs, testClassifier())
	if len(violations) != 0 {
		t.Fatalf("unclassified modules are exempt from layer rules, got %v", violations)
	}
}

func TestPlatformIsolation(t *testing.T) {
	cls := testClassifier()

	refs := []resolve.Reference{
		{
			From:      "src/core/a.js",
			Kind:      extract.KindRequire,
			Specifier: "fs",
			Target:    resolve.Target{Kind: resolve.TargetPlatform, Name: "fs"},
		},
		{
			// tooling is not isolated, platform use is fine there.
			From:      "src/tooling/build.js",
			Kind:      extract.KindRequire,
			Specifier: "fs",
			Target:    resolve.Target{Kind: resolve.TargetPlatform, Name: "fs"},
		},
	}
	violations := DetectViolations(refs, cls)
	if len(violations) != 1 {
		t.Fatalf("expected exactly 1 violation, got %v", violations)
	}
	if violations[0].RuleID != RulePlatformIsolation || violations[0].Module != "src/core/a.js" {
		t.Errorf("unexpected violation: %+v", violations[0])
	}
}

func TestDetectViolations_MultiplePerModule(t *testing.T) {
	refs := []resolve.Reference{
		internalRef("src/core/a.js", "src/tooling/b.js", "../tooling/b.js"),
		internalRef("src/core/a.js", "src/runtime/r.js", "../runtime/r.js"),
		{
			From:      "src/core/a.js",
			Kind:      extract.KindRequire,
			Specifier: "fs",
			Target:    resolve.Target{Kind: resolve.TargetPlatform, Name: "fs"},
		},
	}
	violations := DetectViolations(refs, testClassifier())
	if len(violations) != 3 {
		t.Fatalf("one violation per offending reference, got %d: %v", len(violations), violations)
	}
	// Emission follows input reference order.
	if violations[0].TargetLayer != "tooling" || violations[1].TargetLayer != "runtime" {
		t.Errorf("violations out of input order: %v", violations)
	}
	if violations[2].RuleID != RulePlatformIsolation {
		t.Errorf("expected the platform violation last, got %+v", violations[2])
	}
}
