package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/cdoc/internal/config"
	"github.com/dshills/cdoc/internal/mcp"
	"github.com/dshills/cdoc/internal/storage"
	"github.com/dshills/cdoc/internal/tool"
)

const rootLongDesc = `
cdoc extracts the documentation comments attached to declarations in C, C++
and Go sources, parses them into structured comment trees and writes one
record per source file.

Every file reached while parsing a translation unit is documented at most
once, so headers shared by several sources appear a single time.

Settings are read from flags, CDOC_* environment variables and an optional
.cdoc.yaml file, in that order of precedence.
`

// flagKeys maps config keys to the flags that override them
var flagKeys = map[string]string{
	"emit":                         "emit",
	"doxygen":                      "doxygen",
	"output":                       "output",
	"include_dirs":                 "include",
	"system_include_dirs":          "isystem",
	"extern_c_system_include_dirs": "extern-c-isystem",
	"jobs":                         "jobs",
	"db":                           "db",
	"verbose":                      "verbose",
	"log_level":                    "log-level",
}

var errNoSources = errors.New("at least one source file or directory is required")

type cliApp struct {
	stdout  io.Writer
	stderr  io.Writer
	cfgFile string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:           "cdoc [flags] <source>...",
		Short:         "Extract structured documentation comments from source files",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Version = version
	cmd.SetVersionTemplate(fmt.Sprintf("cdoc {{.Version}}\nBuild Time: %s\nBuild Mode: %s\nSQLite Driver: %s\n",
		buildTime, storage.BuildMode, storage.DriverName))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.CompletionOptions.DisableDefaultCmd = true

	pflags := cmd.PersistentFlags()
	pflags.StringVar(&app.cfgFile, "config", "", "config file (default is ./.cdoc.yaml)")
	pflags.Bool("doxygen", false, "only collect Doxygen-style comments (///, //!, /**, /*!)")
	pflags.StringSliceP("include", "I", nil, "add a user include directory")
	pflags.StringSlice("isystem", nil, "add a system include directory")
	pflags.StringSlice("extern-c-isystem", nil, "add a system include directory with implicit extern \"C\"")
	pflags.IntP("jobs", "j", 0, "number of translation units parsed in parallel (0 = one per CPU)")
	pflags.String("db", "", "store the run in this SQLite database")
	pflags.BoolP("verbose", "v", false, "enable debug logging")
	pflags.String("log-level", "info", "log level (debug, info, warn, error)")

	flags := cmd.Flags()
	flags.String("emit", "json", "output format (json or llvm); json writes one YAML document per file")
	flags.StringP("output", "o", "", "write output to file instead of stdout")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := app.loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return errNoSources
		}
		return app.extract(cmd, cfg, args)
	}

	cmd.AddCommand(newServeCmd(app))
	return cmd
}

func newServeCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extractor over the Model Context Protocol on stdio",
		Long: strings.TrimSpace(`
Start an MCP server on stdin/stdout. Each extraction is stored as a run in
the --db database (default ~/.cdoc/cdoc.db) and can be read back or searched
by later tool calls.
`),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := app.loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := app.newLogger(cfg)
		logger.Info("cdoc MCP server starting", "version", version, "build_mode", storage.BuildMode)

		srv, err := mcp.NewServer(cfg.DB, tool.Config{Jobs: cfg.Jobs, Options: cfg.FrontendOptions()}, logger)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}
		if err := srv.Serve(cmd.Context()); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped")
		return nil
	}
	return cmd
}

// loadConfig layers flags over the environment, the config file and the
// defaults, then validates the result.
func (a *cliApp) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}
	cfg, err := config.New(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func (a *cliApp) newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.Level()}))
}

// extract runs the pipeline over sources. Nothing reaches the output until
// every translation unit has been collected and serialized.
func (a *cliApp) extract(cmd *cobra.Command, cfg *config.Config, sources []string) error {
	ctx := cmd.Context()
	logger := a.newLogger(cfg)
	format := cfg.Format()

	logger.Info(fmt.Sprintf("Output results in %s format.", format))

	t := tool.New(&tool.Config{Jobs: cfg.Jobs, Options: cfg.FrontendOptions()}, logger)
	expanded, err := t.ExpandSources(sources)
	if err != nil {
		return err
	}
	if len(expanded) == 0 {
		return errNoSources
	}

	logger.Info("Parsing codebase...")
	rep, stats, err := t.Run(ctx, expanded)
	if err != nil {
		return err
	}

	logger.Info("Writing docs...")
	var buf bytes.Buffer
	if err := rep.Serialize(format, &buf); err != nil {
		return fmt.Errorf("failed to serialize: %w", err)
	}
	if err := a.writeOutput(cfg.Output, buf.Bytes()); err != nil {
		return err
	}

	logger.Debug("run complete",
		"translation_units", stats.TranslationUnits,
		"files", stats.Files,
		"decls", stats.Decls,
		"comments", stats.Comments,
		"duration", stats.Duration)

	if cfg.DB == "" {
		return nil
	}
	return saveRun(cmd, cfg, expanded, rep.Files(), stats, logger)
}

func (a *cliApp) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := a.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
