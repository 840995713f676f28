package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paths(res Result) []string {
	out := make([]string, len(res.Files))
	for i, e := range res.Files {
		out[i] = filepath.ToSlash(e.Path)
	}
	return out
}

func TestDiscoverPythonFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.py", "print('hello')")
	writeFile(t, dir, "lib/util.py", "def helper(): pass")
	writeFile(t, dir, "lib/deep/nested.py", "pass")
	// Non-Python file should be ignored
	writeFile(t, dir, "readme.txt", "hello")

	res, err := Files(dir, Options{})
	require.NoError(t, err)

	// Sorted by path
	assert.Equal(t, []string{"lib/deep/nested.py", "lib/util.py", "main.py"}, paths(res))
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "node_modules/pkg.py", "pass")
	writeFile(t, dir, "__pycache__/cached.py", "pass")
	writeFile(t, dir, ".venv/lib/site.py", "pass")
	writeFile(t, dir, "pkg.egg-info/setup.py", "pass")

	res, err := Files(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, paths(res))
}

func TestDiscoverCustomInclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "settings.toml", "a = 1")
	writeFile(t, dir, "conf/app.toml", "a = 1")

	res, err := Files(dir, Options{Include: []string{"**/*.toml"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"conf/app.toml", "settings.toml"}, paths(res))
}

func TestDiscoverInvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := Files(t.TempDir(), Options{Include: []string{"[unterminated"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling pattern")
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Files(filepath.Join(t.TempDir(), "missing"), Options{})
	assert.Error(t, err)
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "generated/\nlocal_*.py\n")
	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "local_settings.py", "pass")
	writeFile(t, dir, "generated/out.py", "pass")

	res, err := Files(dir, Options{RespectGitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, paths(res))

	res, err = Files(dir, Options{})
	require.NoError(t, err)
	assert.Len(t, res.Files, 3)
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.py", "pass")

	err := os.Symlink(filepath.Join(dir, "real.py"), filepath.Join(dir, "link.py"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	res, err := Files(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"real.py"}, paths(res))
}

func TestDiscoverSymlinkedRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real/services/pay.py", "pass")
	link := filepath.Join(dir, "app")
	if err := os.Symlink(filepath.Join(dir, "real"), link); err != nil {
		t.Skip("symlinks not supported")
	}

	res, err := Files(link, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"services/pay.py"}, paths(res))
}

// unreadableDirFS fails to list one directory.
type unreadableDirFS struct {
	fs.FS
	dir string
}

func (u unreadableDirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == u.dir {
		return nil, &fs.PathError{Op: "readdirent", Path: name, Err: fs.ErrPermission}
	}
	return fs.ReadDir(u.FS, name)
}

func TestDiscoverUnreadableDirIsWarning(t *testing.T) {
	t.Parallel()

	fsys := unreadableDirFS{
		FS: fstest.MapFS{
			"main.py":          {Data: []byte("pass")},
			"locked/secret.py": {Data: []byte("pass")},
			"lib/util.py":      {Data: []byte("pass")},
		},
		dir: "locked",
	}

	res, err := Files("app", Options{FS: fsys})
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/util.py", "main.py"}, paths(res))

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, filepath.Join("app", "locked"), res.Warnings[0].Path)
	assert.Contains(t, res.Warnings[0].Message, "permission denied")
}

func TestPatternsMatch(t *testing.T) {
	t.Parallel()

	ps, err := Compile([]string{"**/*.py", "scripts/*.sh"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"main.py", true},
		{"a/b/c.py", true},
		{"scripts/run.sh", true},
		{"scripts/sub/run.sh", false},
		{"run.sh", false},
		{"main.pyc", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ps.Match(tt.path))
		})
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
