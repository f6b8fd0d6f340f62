// Package source discovers and reads the module files under analysis.
// Everything downstream operates on the in-memory snapshot it returns;
// no later stage touches the filesystem.
package source

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
)

// File is one module: its canonical repo-relative path and full text.
type File struct {
	Path string
	Text string
}

// Provider walks configured source directories, applying exclude globs
// and any .gitignore at the scan root.
type Provider struct {
	root       string
	extensions map[string]bool
	dirGlobs   []glob.Glob
	fileGlobs  []glob.Glob
	gitignore  *ignore.GitIgnore
}

func NewProvider(root string, extensions, excludeDirs, excludeFiles []string) (*Provider, error) {
	p := &Provider{
		root:       root,
		extensions: make(map[string]bool, len(extensions)),
	}
	for _, ext := range extensions {
		p.extensions[ext] = true
	}

	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", pattern, err)
		}
		p.dirGlobs = append(p.dirGlobs, g)
	}
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", pattern, err)
		}
		p.fileGlobs = append(p.fileGlobs, g)
	}

	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		p.gitignore = gi
	}

	return p, nil
}

// Discover walks dirs (repo-relative) and returns every matching file
// with its contents, sorted by canonical path. Unreadable files are
// logged and skipped; the walk continues.
func (p *Provider) Discover(dirs []string) ([]File, error) {
	var files []File
	seen := make(map[string]bool)

	for _, dir := range dirs {
		rootDir := filepath.Join(p.root, dir)
		err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				slog.Warn("skipping unreadable entry", "path", path, "error", err)
				return nil
			}

			base := filepath.Base(path)
			if d.IsDir() {
				for _, g := range p.dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			for _, g := range p.fileGlobs {
				if g.Match(base) {
					return nil
				}
			}
			if !p.extensions[filepath.Ext(base)] {
				return nil
			}

			rel, relErr := filepath.Rel(p.root, path)
			if relErr != nil {
				return nil
			}
			canonical := Canonical(rel)
			if seen[canonical] {
				return nil
			}
			if p.gitignore != nil && p.gitignore.MatchesPath(rel) {
				return nil
			}

			data, readErr := os.ReadFile(path)
			if readErr != nil {
				slog.Warn("skipping unreadable file", "path", path, "error", readErr)
				return nil
			}

			seen[canonical] = true
			files = append(files, File{Path: canonical, Text: string(data)})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", rootDir, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ReadTarget reads a single explicitly named file. Unlike directory
// discovery, a miss here is fatal to the caller.
func (p *Provider) ReadTarget(target string) (File, error) {
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.root, target)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read target %s: %w", target, err)
	}
	rel, relErr := filepath.Rel(p.root, path)
	if relErr != nil {
		rel = target
	}
	return File{Path: Canonical(rel), Text: string(data)}, nil
}

// Canonical normalizes a repo-relative path to forward slashes with no
// leading "./", the identity used for modules everywhere downstream.
func Canonical(path string) string {
	clean := filepath.ToSlash(filepath.Clean(path))
	return strings.TrimPrefix(clean, "./")
}
