// Package extract pulls dependency references out of JavaScript module
// text using regular-expression scanning. There is no tokenizer: contrived
// syntax (specifiers split across string concatenation, imports inside
// template literals) can over- or under-match. That tradeoff is accepted
// in exchange for not carrying a parser; anything the scanner cannot make
// sense of yields zero references rather than an error.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Kind classifies how a module reference is expressed in source text.
type Kind string

const (
	// KindStatic is a whole-module ESM declaration:
	// `import x from "m"`, `export * from "m"`, `import "m"`.
	KindStatic Kind = "static"
	// KindDynamic is a deferred `import("m")` call, evaluated at runtime.
	KindDynamic Kind = "dynamic"
	// KindRequire is the synchronous CommonJS `require("m")` form, the
	// load mechanism that reaches platform APIs directly.
	KindRequire Kind = "platform-require"
)

// RawReference is one dependency specifier found in module text, in the
// order it first occurs. Duplicates are preserved; deduplication happens
// at resolution time.
type RawReference struct {
	Specifier string
	Kind      Kind
}

var (
	staticFromRe = regexp.MustCompile(`\b(?:import|export)\s[^;]*?\bfrom\s*['"]([^'"]+)['"]`)
	staticBareRe = regexp.MustCompile(`\bimport\s*['"]([^'"]+)['"]`)
	dynamicRe    = regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	requireRe    = regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// Extract scans module text and returns every dependency reference in
// first-occurrence order. It is a pure function: regexp matching in Go is
// stateless, so concurrent calls share no matcher state.
func Extract(text string) []RawReference {
	if text == "" {
		return nil
	}

	clean := blankCommentLines(text)

	type hit struct {
		offset int
		ref    RawReference
	}
	hits := make([]hit, 0, 8)

	collect := func(re *regexp.Regexp, kind Kind) {
		for _, m := range re.FindAllStringSubmatchIndex(clean, -1) {
			hits = append(hits, hit{
				offset: m[0],
				ref:    RawReference{Specifier: clean[m[2]:m[3]], Kind: kind},
			})
		}
	}

	collect(staticFromRe, KindStatic)
	collect(staticBareRe, KindStatic)
	collect(dynamicRe, KindDynamic)
	collect(requireRe, KindRequire)

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].offset < hits[j].offset })

	refs := make([]RawReference, 0, len(hits))
	for _, h := range hits {
		refs = append(refs, h.ref)
	}
	return refs
}

// blankCommentLines replaces every commented-out line with an empty line,
// keeping byte offsets line-aligned so match order survives. A line is
// commented when its trimmed content starts with a line-comment marker or
// a block-comment opener/continuation. Inline trailing comments are left
// alone; documentation examples live on their own lines in practice.
func blankCommentLines(text string) string {
	lines := strings.Split(text, "\n")
	changed := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") ||
			strings.HasPrefix(trimmed, "/*") ||
			strings.HasPrefix(trimmed, "*") {
			lines[i] = ""
			changed = true
		}
	}
	if !changed {
		return text
	}
	return strings.Join(lines, "\n")
}
