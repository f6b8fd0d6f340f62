// Package resolve turns raw dependency specifiers into resolved targets:
// tracked internal modules, cross-layer package imports, platform APIs,
// or external names.
package resolve

import (
	"path"
	"strings"

	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/extract"
	"github.com/vincenthirtz/pulse-js-framework-sub001/internal/layers"
)

// TargetKind tags the resolution outcome of a single specifier.
type TargetKind string

const (
	// TargetInternal is a tracked module inside the analyzed tree.
	TargetInternal TargetKind = "internal"
	// TargetCrossLayer is a package-style import naming a layer directly,
	// e.g. "@pulse/core" instead of a relative path into core/.
	TargetCrossLayer TargetKind = "cross-layer"
	// TargetPlatform is a platform-only runtime API such as "fs".
	TargetPlatform TargetKind = "platform"
	// TargetExternal is a third-party or otherwise unrecognized name.
	TargetExternal TargetKind = "external"
	// TargetUnresolved is a relative reference whose file is not in the
	// module set. Recorded, never escalated.
	TargetUnresolved TargetKind = "unresolved"
)

// Target is the tagged resolution result. Exactly one of Path, Layer and
// Name is meaningful depending on Kind: Path for internal, Layer for
// cross-layer, Name for platform/external/unresolved.
type Target struct {
	Kind  TargetKind
	Path  string
	Layer string
	Name  string
}

// Reference is one fully resolved dependency edge candidate: the module
// it came from, how it was expressed, and what it points at.
type Reference struct {
	From      string
	Kind      extract.Kind
	Specifier string
	Target    Target
}

// Resolver holds the naming conventions needed to interpret specifiers.
type Resolver struct {
	// PackageRoot is the published-package namespace whose first path
	// segment names a layer, e.g. "@pulse" for "@pulse/core/signals".
	PackageRoot string
	// PlatformAPIs lists recognized platform-only module names.
	PlatformAPIs []string
	// PlatformPrefix is the explicit platform scheme, e.g. "node:".
	PlatformPrefix string
	// DefaultExtension is tried when a relative specifier omits one.
	DefaultExtension string

	platformSet map[string]bool
}

func NewResolver(packageRoot string, platformAPIs []string, platformPrefix, defaultExtension string) *Resolver {
	set := make(map[string]bool, len(platformAPIs))
	for _, name := range platformAPIs {
		set[name] = true
	}
	return &Resolver{
		PackageRoot:      packageRoot,
		PlatformAPIs:     append([]string(nil), platformAPIs...),
		PlatformPrefix:   platformPrefix,
		DefaultExtension: defaultExtension,
		platformSet:      set,
	}
}

// Resolve maps one raw reference from fromPath onto a Target. moduleSet
// holds every tracked canonical path. Every specifier resolves to exactly
// one target; nothing is dropped.
func (r *Resolver) Resolve(ref extract.RawReference, fromPath string, moduleSet map[string]bool, cls *layers.Classifier) Target {
	spec := strings.TrimSpace(ref.Specifier)

	if isPathSpecifier(spec) {
		return r.resolvePath(spec, fromPath, moduleSet)
	}

	if stripped, ok := strings.CutPrefix(spec, r.PlatformPrefix); ok && r.PlatformPrefix != "" {
		return Target{Kind: TargetPlatform, Name: stripped}
	}
	if r.platformSet[spec] {
		return Target{Kind: TargetPlatform, Name: spec}
	}

	if layerName, ok := r.crossLayerName(spec, cls); ok {
		return Target{Kind: TargetCrossLayer, Layer: layerName}
	}

	return Target{Kind: TargetExternal, Name: spec}
}

func (r *Resolver) resolvePath(spec, fromPath string, moduleSet map[string]bool) Target {
	var canonical string
	if strings.HasPrefix(spec, "/") {
		// Rooted specifiers are repo-relative.
		canonical = path.Clean(strings.TrimPrefix(spec, "/"))
	} else {
		canonical = path.Join(path.Dir(fromPath), spec)
	}

	// Literal path first, then the implied extension, then a directory
	// index module.
	candidates := []string{canonical}
	if r.DefaultExtension != "" && !strings.HasSuffix(canonical, r.DefaultExtension) {
		candidates = append(candidates,
			canonical+r.DefaultExtension,
			path.Join(canonical, "index"+r.DefaultExtension))
	}
	for _, candidate := range candidates {
		if moduleSet[candidate] {
			return Target{Kind: TargetInternal, Path: candidate}
		}
	}
	return Target{Kind: TargetUnresolved, Name: spec}
}

func (r *Resolver) crossLayerName(spec string, cls *layers.Classifier) (string, bool) {
	if r.PackageRoot == "" || cls == nil {
		return "", false
	}
	rest, ok := strings.CutPrefix(spec, r.PackageRoot+"/")
	if !ok {
		return "", false
	}
	layerSegment := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		layerSegment = rest[:i]
	}
	if _, ok := cls.ByName(layerSegment); !ok {
		return "", false
	}
	return layerSegment, true
}

func isPathSpecifier(spec string) bool {
	return strings.HasPrefix(spec, "./") ||
		strings.HasPrefix(spec, "../") ||
		strings.HasPrefix(spec, "/") ||
		spec == "." || spec == ".."
}
