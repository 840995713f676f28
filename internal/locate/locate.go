// Package locate finds every occurrence of a symbol rule across a source tree.
package locate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/phobologic/envcheck/internal/discover"
	"github.com/phobologic/envcheck/internal/extract"
	"github.com/phobologic/envcheck/internal/model"
	"github.com/phobologic/envcheck/internal/source"
)

// Exclusion decides whether a discovered file is left out of a scan.
type Exclusion interface {
	// Excludes receives the file's path as joined onto the scan root.
	Excludes(path string) bool
}

type nameContains []string

// NameContains excludes files whose base name contains any of substrs.
func NameContains(substrs ...string) Exclusion {
	return nameContains(substrs)
}

func (n nameContains) Excludes(path string) bool {
	base := filepath.Base(path)
	for _, s := range n {
		if s != "" && strings.Contains(base, s) {
			return true
		}
	}
	return false
}

type samePath struct {
	target string
}

// SamePath excludes exactly one file, compared by absolute cleaned path.
func SamePath(path string) Exclusion {
	return samePath{target: absClean(path)}
}

func (s samePath) Excludes(path string) bool {
	return absClean(path) == s.target
}

func absClean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

type pathGlob struct {
	root     string
	patterns discover.Patterns
}

// PathGlob excludes files whose slash-separated path relative to root
// matches any glob pattern.
func PathGlob(root string, patterns ...string) (Exclusion, error) {
	compiled, err := discover.Compile(patterns)
	if err != nil {
		return nil, err
	}
	return pathGlob{root: root, patterns: compiled}, nil
}

func (p pathGlob) Excludes(path string) bool {
	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		return false
	}
	return p.patterns.Match(filepath.ToSlash(rel))
}

// Options configures a scan.
type Options struct {
	Include          []string
	RespectGitignore bool
	Exclude          []Exclusion
	// FS is the tree discovery walks; defaults to os.DirFS(root).
	FS fs.FS
	// ReadFile reads one file; defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// Result holds the usages found and the files or directories that could not
// be read.
type Result struct {
	Usages   model.Usages
	Warnings []model.ScanWarning
	Files    int // number of files scanned
}

// Locate applies rule line by line to every non-excluded file under root.
// Comment lines are skipped. An unreadable file or directory becomes a
// warning and the scan continues with the rest of the tree.
func Locate(root string, rule extract.Rule, opts Options) (Result, error) {
	if err := source.RequireDir(root); err != nil {
		return Result{}, err
	}

	found, err := discover.Files(root, discover.Options{
		Include:          opts.Include,
		RespectGitignore: opts.RespectGitignore,
		FS:               opts.FS,
	})
	if err != nil {
		return Result{}, err
	}

	readFile := opts.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	res := Result{Usages: model.Usages{}, Warnings: found.Warnings}

	for _, f := range found.Files {
		path := filepath.Join(root, f.Path)
		if excluded(path, opts.Exclude) {
			continue
		}

		data, err := readFile(path)
		if err != nil {
			res.Warnings = append(res.Warnings, model.ScanWarning{Path: path, Message: err.Error()})
			continue
		}
		res.Files++

		for idx, line := range source.Lines(string(data)) {
			if source.IsComment(line) {
				continue
			}
			for _, sym := range rule.FindAll(line) {
				res.Usages[sym] = append(res.Usages[sym], model.Occurrence{
					Symbol: sym,
					File:   path,
					Line:   idx + 1,
					Text:   strings.TrimSpace(line),
				})
			}
		}
	}

	return res, nil
}

func excluded(path string, exclusions []Exclusion) bool {
	for _, e := range exclusions {
		if e.Excludes(path) {
			return true
		}
	}
	return false
}
