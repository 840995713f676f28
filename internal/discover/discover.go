// Package discover finds scannable source files beneath a directory.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/envcheck/internal/model"
)

// DefaultInclude selects Python sources, the language the checks target.
var DefaultInclude = []string{"**/*.py"}

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path string // Relative to the scan root, OS separators
}

// Options controls which files Files returns.
type Options struct {
	// Include holds glob patterns matched against slash-separated relative
	// paths. Empty means DefaultInclude.
	Include []string
	// RespectGitignore skips paths matched by the root's .gitignore.
	RespectGitignore bool
	// FS is the tree to walk; defaults to os.DirFS(root), which follows a
	// symlinked root.
	FS fs.FS
}

// Result lists the discovered files and the directories that could not be
// read. Files below an unreadable directory are missing from Files.
type Result struct {
	Files    []FileEntry
	Warnings []model.ScanWarning
}

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	".git":          {},
	".hg":           {},
	".svn":          {},
	"venv":          {},
	".venv":         {},
	".tox":          {},
	".mypy_cache":   {},
	".ruff_cache":   {},
	".pytest_cache": {},
}

type pattern struct {
	raw  string
	glob glob.Glob
}

// Files discovers source files under root, sorted by path. An error is
// returned only when root itself cannot be walked.
func Files(root string, opts Options) (Result, error) {
	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	patterns, err := Compile(include)
	if err != nil {
		return Result{}, err
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = os.DirFS(root)
	}

	var gi *ignore.GitIgnore
	if opts.RespectGitignore {
		gi = loadGitignore(fsys)
	}

	var res Result

	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == "." {
				return err
			}
			res.Warnings = append(res.Warnings, model.ScanWarning{
				Path:    filepath.Join(root, filepath.FromSlash(path)),
				Message: err.Error(),
			})
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if path == "." {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasSuffix(name, ".egg-info") {
				return fs.SkipDir
			}
			return nil
		}

		// Skip symlinks below the root
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if gi != nil && gi.MatchesPath(path) {
			return nil
		}

		if !patterns.Match(path) {
			return nil
		}

		res.Files = append(res.Files, FileEntry{Path: filepath.FromSlash(path)})
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Slice(res.Files, func(i, j int) bool {
		return res.Files[i].Path < res.Files[j].Path
	})

	return res, nil
}

// Patterns is a compiled list of glob patterns.
type Patterns []pattern

// Compile compiles slash-separated glob patterns.
func Compile(raw []string) (Patterns, error) {
	out := make(Patterns, 0, len(raw))
	for _, p := range raw {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", p, err)
		}
		out = append(out, pattern{raw: p, glob: g})
	}
	return out, nil
}

// Match reports whether a slash-separated relative path matches any pattern.
// A root-level file also matches patterns that start with "**/", so
// "**/*.py" covers both "main.py" and "pkg/main.py".
func (ps Patterns) Match(path string) bool {
	for _, p := range ps {
		if p.glob.Match(path) {
			return true
		}
	}

	if !strings.Contains(path, "/") {
		for _, p := range ps {
			if !strings.HasPrefix(p.raw, "**/") {
				continue
			}
			if g, err := glob.Compile(strings.TrimPrefix(p.raw, "**/"), '/'); err == nil && g.Match(path) {
				return true
			}
		}
	}

	return false
}

func loadGitignore(fsys fs.FS) *ignore.GitIgnore {
	data, err := fs.ReadFile(fsys, ".gitignore")
	if err != nil {
		return nil
	}
	return ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
}
