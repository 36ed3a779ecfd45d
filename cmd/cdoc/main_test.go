package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cdoc/internal/frontend"
	"github.com/dshills/cdoc/internal/storage"
)

const mathSource = `/// Adds two numbers.
/// \param a first operand
int add(int a, int b);

int undocumented(void);
`

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	dir, err := frontend.CanonicalPath(t.TempDir())
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_DefaultFormat(t *testing.T) {
	path := writeSource(t, "math.c", mathSource)

	code, out, logs := runCLI(t, path)
	require.Equal(t, 0, code, logs)
	assert.Contains(t, out, "Filename: "+path)
	assert.Contains(t, out, "Name: add")
	assert.Contains(t, out, "Name: undocumented")
	assert.Contains(t, out, "Adds two numbers.")
	assert.Contains(t, out, "Kind: param-command")

	assert.Contains(t, logs, "Output results in json format.")
	assert.Contains(t, logs, "Parsing codebase...")
	assert.Contains(t, logs, "Writing docs...")
}

// The json token selects the structured output, written as YAML documents.
func TestRun_EmitJSON(t *testing.T) {
	path := writeSource(t, "math.c", mathSource)

	code, out, logs := runCLI(t, "--emit", "json", path)
	require.Equal(t, 0, code, logs)
	assert.Contains(t, out, "Filename: "+path)
	assert.Contains(t, out, "Name: add")
	assert.Contains(t, logs, "Output results in json format.")
}

func TestRun_LLVM(t *testing.T) {
	path := writeSource(t, "math.c", mathSource)

	code, out, _ := runCLI(t, "--emit", "llvm", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "Not yet implemented.\n", out)
}

func TestRun_UnknownFormat(t *testing.T) {
	path := writeSource(t, "math.c", mathSource)
	target := filepath.Join(t.TempDir(), "out.yaml")

	code, out, logs := runCLI(t, "--emit", "yaml", "-o", target, path)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, logs, "unknown output format")
	assert.NotContains(t, logs, "Parsing codebase...")
	assert.NoFileExists(t, target)
}

func TestRun_OutputFile(t *testing.T) {
	path := writeSource(t, "math.c", mathSource)
	target := filepath.Join(t.TempDir(), "out.yaml")

	code, out, _ := runCLI(t, "-o", target, path)
	require.Equal(t, 0, code)
	assert.Empty(t, out)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Name: add")
}

func TestRun_ParseFailureWritesNothing(t *testing.T) {
	good := writeSource(t, "math.c", mathSource)
	bad := writeSource(t, "notes.txt", "not a source file")
	target := filepath.Join(t.TempDir(), "out.yaml")

	code, out, logs := runCLI(t, "-o", target, good, bad)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, logs, "unsupported source file")
	assert.NoFileExists(t, target)
}

func TestRun_NoSources(t *testing.T) {
	code, out, logs := runCLI(t)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, logs, errNoSources.Error())
}

func TestRun_Directory(t *testing.T) {
	path := writeSource(t, "math.c", mathSource)
	dir := filepath.Dir(path)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.c"), []byte("/// Does nothing.\nvoid noop(void);\n"), 0o644))

	code, out, _ := runCLI(t, dir)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Name: add")
	assert.Contains(t, out, "Name: noop")
	assert.Less(t, bytes.Index([]byte(out), []byte("math.c")), bytes.Index([]byte(out), []byte("util.c")))
}

func TestRun_EnvironmentAndFlags(t *testing.T) {
	path := writeSource(t, "math.c", mathSource)
	t.Setenv("CDOC_EMIT", "llvm")

	code, out, _ := runCLI(t, path)
	require.Equal(t, 0, code)
	assert.Equal(t, "Not yet implemented.\n", out)

	code, out, _ = runCLI(t, "--emit", "json", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Name: add")
}

func TestRun_ConfigFile(t *testing.T) {
	path := writeSource(t, "math.c", mathSource)
	cfgFile := filepath.Join(t.TempDir(), "cdoc.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("emit: llvm\n"), 0o644))

	code, out, _ := runCLI(t, "--config", cfgFile, path)
	require.Equal(t, 0, code)
	assert.Equal(t, "Not yet implemented.\n", out)

	code, _, logs := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), path)
	assert.Equal(t, 1, code)
	assert.Contains(t, logs, "failed to read config file")
}

func TestRun_Verbose(t *testing.T) {
	path := writeSource(t, "math.c", mathSource)

	code, _, logs := runCLI(t, "-v", path)
	require.Equal(t, 0, code)
	assert.Contains(t, logs, "level=DEBUG")
	assert.Contains(t, logs, "run complete")
}

func TestRun_StoresRun(t *testing.T) {
	path := writeSource(t, "math.c", mathSource)
	db := filepath.Join(t.TempDir(), "runs", "cdoc.db")

	code, _, logs := runCLI(t, "--db", db, path)
	require.Equal(t, 0, code, logs)
	assert.Contains(t, logs, "run stored")

	store, err := storage.NewSQLiteStorage(db)
	require.NoError(t, err)
	defer store.Close()

	run, err := store.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "json", run.Format)
	assert.Equal(t, []string{path}, run.Sources)
	assert.Equal(t, 1, run.FileCount)
	assert.Equal(t, 2, run.DeclCount)
	assert.Equal(t, 1, run.CommentCount)

	rec, err := store.GetFileRecord(context.Background(), run.ID, path)
	require.NoError(t, err)
	require.Len(t, rec.Decls, 2)
	assert.Equal(t, "add", rec.Decls[0].QualifiedName)
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "--version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "cdoc "+version)
	assert.Contains(t, out, "Build Mode: "+storage.BuildMode)
}

func TestServeRejectsArguments(t *testing.T) {
	code, _, logs := runCLI(t, "serve", "extra")
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, logs)
}
