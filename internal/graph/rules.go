package graph

import (
	"fmt"

	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/layers"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/resolve"
)

// Rule identifiers carried on every violation.
const (
	RuleLayerOrder        = "layer-order"
	RulePlatformIsolation = "platform-isolation"
)

// Violation is one broken architecture rule, produced fresh each run.
// TargetModule is set only for layer-order violations against a resolved
// internal module; cross-layer package imports have no single target.
type Violation struct {
	Module       string
	Reference    string
	RuleID       string
	TargetLayer  string
	TargetModule string
	Message      string
}

// DetectViolations evaluates the layer-order and platform-isolation rules
// over every resolved reference, in input order. Each offending reference
// yields its own violation; there is no short-circuiting and no in-band
// suppression mechanism.
func DetectViolations(refs []resolve.Reference, cls *layers.Classifier) []Violation {
	violations := make([]Violation, 0)
	for _, ref := range refs {
		if v, ok := checkLayerOrder(ref, cls); ok {
			violations = append(violations, v)
		}
		if v, ok := checkPlatformIsolation(ref, cls); ok {
			violations = append(violations, v)
		}
	}
	return violations
}

// checkLayerOrder flags references from a lower (more foundational) layer
// into a higher one. Equal levels are sibling modules and always allowed.
// References where either side is unclassified are exempt.
func checkLayerOrder(ref resolve.Reference, cls *layers.Classifier) (Violation, bool) {
	fromLayer, ok := cls.Classify(ref.From)
	if !ok {
		return Violation{}, false
	}

	var targetLayer layers.Layer
	targetModule := ""
	switch ref.Target.Kind {
	case resolve.TargetInternal:
		targetLayer, ok = cls.Classify(ref.Target.Path)
		targetModule = ref.Target.Path
	case resolve.TargetCrossLayer:
		targetLayer, ok = cls.ByName(ref.Target.Layer)
	default:
		return Violation{}, false
	}
	if !ok {
		return Violation{}, false
	}

	if fromLayer.Level >= targetLayer.Level {
		return Violation{}, false
	}

	return Violation{
		Module:       ref.From,
		Reference:    ref.Specifier,
		RuleID:       RuleLayerOrder,
		TargetLayer:  targetLayer.Name,
		TargetModule: targetModule,
		Message: fmt.Sprintf("%s (layer %s, level %d) must not depend on layer %s (level %d) via %q",
			ref.From, fromLayer.Name, fromLayer.Level, targetLayer.Name, targetLayer.Level, ref.Specifier),
	}, true
}

// checkPlatformIsolation flags platform API references from a layer
// declared isolated.
func checkPlatformIsolation(ref resolve.Reference, cls *layers.Classifier) (Violation, bool) {
	if ref.Target.Kind != resolve.TargetPlatform {
		return Violation{}, false
	}
	fromLayer, ok := cls.Classify(ref.From)
	if !ok || !fromLayer.Isolated {
		return Violation{}, false
	}
	return Violation{
		Module:    ref.From,
		Reference: ref.Specifier,
		RuleID:    RulePlatformIsolation,
		Message: fmt.Sprintf("%s (isolated layer %s) must not use platform API %q",
			ref.From, fromLayer.Name, ref.Target.Name),
	}, true
}
