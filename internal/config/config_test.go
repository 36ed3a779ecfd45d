package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cdoc/internal/reporter"
)

func load(t *testing.T, cfgFile string) *Config {
	t.Helper()
	v, err := NewViper(cfgFile)
	require.NoError(t, err)
	cfg, err := New(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := load(t, "")

	assert.Equal(t, "json", cfg.Emit)
	assert.False(t, cfg.Doxygen)
	assert.Empty(t, cfg.Output)
	assert.Empty(t, cfg.IncludeDirs)
	assert.Equal(t, 0, cfg.Jobs)
	assert.Empty(t, cfg.DB)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, reporter.FormatJSON, cfg.Format())
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CDOC_EMIT", "llvm")
	t.Setenv("CDOC_JOBS", "3")
	t.Setenv("CDOC_DOXYGEN", "true")
	t.Setenv("CDOC_INCLUDE_DIRS", "inc,third_party/inc")

	cfg := load(t, "")

	assert.Equal(t, "llvm", cfg.Emit)
	assert.Equal(t, 3, cfg.Jobs)
	assert.True(t, cfg.Doxygen)
	assert.Equal(t, []string{"inc", "third_party/inc"}, cfg.IncludeDirs)
	assert.Equal(t, reporter.FormatLLVM, cfg.Format())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`emit: llvm
doxygen: true
include_dirs:
  - include
system_include_dirs:
  - /usr/include
jobs: 2
db: runs.db
log_level: warn
`), 0o644))

	cfg := load(t, path)

	assert.Equal(t, "llvm", cfg.Emit)
	assert.Equal(t, []string{"include"}, cfg.IncludeDirs)
	assert.Equal(t, []string{"/usr/include"}, cfg.SystemIncludeDirs)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, "runs.db", cfg.DB)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	opts := cfg.FrontendOptions()
	assert.Equal(t, []string{"include"}, opts.IncludeDirs)
	assert.Equal(t, []string{"/usr/include"}, opts.SystemIncludeDirs)
	assert.Empty(t, opts.ExternCSystemIncludeDirs)
	assert.True(t, opts.DoxygenOnly)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_FlagOverridesEnvironment(t *testing.T) {
	t.Setenv("CDOC_EMIT", "llvm")
	v, err := NewViper("")
	require.NoError(t, err)
	v.Set("emit", "json")

	cfg, err := New(v)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Emit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"json", Config{Emit: "json"}, false},
		{"llvm", Config{Emit: "llvm", Jobs: 4, LogLevel: "debug"}, false},
		{"unknown format", Config{Emit: "html"}, true},
		{"empty format", Config{}, true},
		{"negative jobs", Config{Emit: "json", Jobs: -1}, true},
		{"bad log level", Config{Emit: "json", LogLevel: "loud"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	err := (&Config{Emit: "yaml"}).Validate()
	assert.ErrorIs(t, err, reporter.ErrUnknownFormat)
}

func TestLevel_VerboseForcesDebug(t *testing.T) {
	cfg := &Config{LogLevel: "error", Verbose: true}
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	assert.Equal(t, "json", v.GetString("emit"))
	assert.Equal(t, "info", v.GetString("log_level"))
}
