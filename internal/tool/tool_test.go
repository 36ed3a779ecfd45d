package tool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cdoc/internal/frontend"
	"github.com/dshills/cdoc/internal/frontend/cfamily"
)

// fakeFrontend returns one declaration per source, or the configured error
type fakeFrontend struct {
	ext   string
	fails map[string]error

	mu     sync.Mutex
	parsed []string
}

func (f *fakeFrontend) Name() string { return "fake" }

func (f *fakeFrontend) Supports(path string) bool { return filepath.Ext(path) == f.ext }

func (f *fakeFrontend) Parse(ctx context.Context, path string) (*frontend.TranslationUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.parsed = append(f.parsed, path)
	f.mu.Unlock()
	if err := f.fails[path]; err != nil {
		return nil, err
	}
	tu := frontend.NewTranslationUnit(path)
	tu.Decls = []*frontend.Decl{{
		Kind:          frontend.DeclFunction,
		QualifiedName: filepath.Base(path),
		Loc:           frontend.Location{Filename: path, Line: 1, Column: 1},
	}}
	return tu, nil
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir, err := frontend.CanonicalPath(t.TempDir())
	require.NoError(t, err)
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestExpandSources(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"src/b.h":           "",
		"src/a.c":           "",
		"src/notes.txt":     "",
		"src/sub/c.cpp":     "",
		"src/.hidden/x.c":   "",
		"src/vendor/v.c":    "",
		"src/testdata/t.c":  "",
		"include/api.h":     "",
		"README.md":         "",
		"tools/gen/main.go": "",
	})
	tl := New(nil, nil)

	got, err := tl.ExpandSources([]string{
		filepath.Join(dir, "include", "api.h"),
		filepath.Join(dir, "src"),
		filepath.Join(dir, "src", "a.c"),
		filepath.Join(dir, "README.md"),
		filepath.Join(dir, "tools"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "include", "api.h"),
		filepath.Join(dir, "src", "a.c"),
		filepath.Join(dir, "src", "b.h"),
		filepath.Join(dir, "src", "sub", "c.cpp"),
		filepath.Join(dir, "README.md"),
		filepath.Join(dir, "tools", "gen", "main.go"),
	}, got)
}

func TestRun_SharedHeaderCollectedOnce(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.c":  "#include \"util.h\"\n/** Adds. */\nint add(int a, int b);\n",
		"util.h":  "/// Helper.\nint helper(void);\n",
		"other.c": "#include \"util.h\"\nint other(void);\n",
	})
	tl := NewWithFrontends(2, nil, cfamily.New(frontend.Options{}, nil))
	sources, err := tl.ExpandSources([]string{
		filepath.Join(dir, "main.c"),
		filepath.Join(dir, "util.h"),
		filepath.Join(dir, "other.c"),
	})
	require.NoError(t, err)

	rep, stats, err := tl.Run(context.Background(), sources)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TranslationUnits)
	assert.Equal(t, 3, stats.Files)
	assert.Equal(t, 3, stats.Decls)
	assert.Equal(t, 2, stats.Comments)

	util, ok := rep.File(filepath.Join(dir, "util.h"))
	require.True(t, ok)
	require.Len(t, util.Decls, 1)
	assert.Equal(t, "helper", util.Decls[0].QualifiedName)
	require.NotNil(t, util.Decls[0].Comment)

	other, ok := rep.File(filepath.Join(dir, "other.c"))
	require.True(t, ok)
	require.Len(t, other.Decls, 1)
	assert.Equal(t, "other", other.Decls[0].QualifiedName)
	assert.Nil(t, other.Decls[0].Comment)
}

func TestRun_UnregisteredHeaderIgnored(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.c": "#include \"util.h\"\nint add(int a, int b);\n",
		"util.h": "int helper(void);\n",
	})
	tl := NewWithFrontends(1, nil, cfamily.New(frontend.Options{}, nil))

	rep, _, err := tl.Run(context.Background(), []string{filepath.Join(dir, "main.c")})
	require.NoError(t, err)

	files := rep.Files()
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "main.c"), files[0].Filename)
	require.Len(t, files[0].Decls, 1)
	assert.Equal(t, "add", files[0].Decls[0].QualifiedName)
}

func TestRun_UnsupportedSource(t *testing.T) {
	fe := &fakeFrontend{ext: ".c"}
	tl := NewWithFrontends(1, nil, fe)

	rep, stats, err := tl.Run(context.Background(), []string{"/src/a.c", "/src/notes.txt"})
	require.Error(t, err)
	assert.Nil(t, rep)
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	var tuErr *TranslationUnitError
	require.True(t, errors.As(err, &tuErr))
	assert.Equal(t, "/src/notes.txt", tuErr.Source)
	assert.Equal(t, "/src/notes.txt: unsupported source file", err.Error())
}

func TestRun_FirstFailureInInputOrder(t *testing.T) {
	errB := errors.New("b is broken")
	errC := errors.New("c is broken")
	fe := &fakeFrontend{ext: ".c", fails: map[string]error{"/src/b.c": errB, "/src/c.c": errC}}
	tl := NewWithFrontends(4, nil, fe)

	_, _, err := tl.Run(context.Background(), []string{"/src/a.c", "/src/b.c", "/src/c.c", "/src/d.c"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errB)

	var tuErr *TranslationUnitError
	require.True(t, errors.As(err, &tuErr))
	assert.Equal(t, "/src/b.c", tuErr.Source)
	assert.Equal(t, "fake", tuErr.Frontend)
}

func TestRun_CollectsInInputOrder(t *testing.T) {
	fe := &fakeFrontend{ext: ".c"}
	tl := NewWithFrontends(8, nil, fe)
	sources := []string{"/src/z.c", "/src/a.c", "/src/m.c"}

	rep, stats, err := tl.Run(context.Background(), sources)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TranslationUnits)
	assert.ElementsMatch(t, sources, fe.parsed)

	files := rep.Files()
	require.Len(t, files, 3)
	assert.Equal(t, "/src/a.c", files[0].Filename)
	assert.Equal(t, "a.c", files[0].Decls[0].QualifiedName)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tl := NewWithFrontends(1, nil, &fakeFrontend{ext: ".c"})

	_, _, err := tl.Run(ctx, []string{"/src/a.c"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunLock(t *testing.T) {
	var l RunLock
	require.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())
	l.Release()
	assert.True(t, l.TryAcquire())
}
