package tool

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/cdoc/internal/collector"
	"github.com/dshills/cdoc/internal/frontend"
	"github.com/dshills/cdoc/internal/frontend/cfamily"
	"github.com/dshills/cdoc/internal/frontend/gosrc"
	"github.com/dshills/cdoc/internal/reporter"
)

// ErrUnsupportedSource is returned for a source no front-end reads
var ErrUnsupportedSource = errors.New("unsupported source file")

// TranslationUnitError reports the source whose translation unit could not
// be built. It aborts the run.
type TranslationUnitError struct {
	Source   string
	Frontend string
	Err      error
}

func (e *TranslationUnitError) Error() string {
	if e.Frontend == "" {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Source, e.Frontend, e.Err)
}

func (e *TranslationUnitError) Unwrap() error { return e.Err }

// Config contains configuration for the tool
type Config struct {
	Jobs    int // Number of concurrent front-end parses (default: runtime.NumCPU())
	Options frontend.Options
}

// Statistics contains statistics about one run
type Statistics struct {
	TranslationUnits int
	Files            int
	Decls            int
	Comments         int
	Duration         time.Duration
}

// Tool runs front-ends over a list of sources and collects what they find
// into a Reporter.
type Tool struct {
	frontends []frontend.Frontend
	jobs      int
	logger    *slog.Logger
}

// New creates a Tool with the C/C++ and Go front-ends
func New(cfg *Config, logger *slog.Logger) *Tool {
	if cfg == nil {
		cfg = &Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return NewWithFrontends(cfg.Jobs, logger,
		cfamily.New(cfg.Options, logger),
		gosrc.New(cfg.Options, logger),
	)
}

// NewWithFrontends creates a Tool with explicit front-ends. The first
// front-end supporting a source parses it.
func NewWithFrontends(jobs int, logger *slog.Logger, frontends ...frontend.Frontend) *Tool {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tool{frontends: frontends, jobs: jobs, logger: logger}
}

// Supports reports whether some front-end reads path
func (t *Tool) Supports(path string) bool {
	return t.frontendFor(path) != nil
}

func (t *Tool) frontendFor(path string) frontend.Frontend {
	for _, fe := range t.frontends {
		if fe.Supports(path) {
			return fe
		}
	}
	return nil
}

// ExpandSources canonicalizes paths and replaces every directory with the
// supported files beneath it, skipping hidden, vendor and testdata
// directories. Files named explicitly are kept even when unsupported so Run
// can report them. Duplicates are dropped; the first occurrence wins.
func (t *Tool) ExpandSources(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		abs, err := frontend.CanonicalPath(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		if !isDir(abs) {
			add(abs)
			continue
		}

		var found []string
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != abs && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if t.Supports(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata"
}

// Run builds a translation unit for every source and collects them, in
// order, into a new Reporter registered with the sources. Front-end parsing
// runs concurrently; collection does not. Paths must already be canonical,
// as returned by ExpandSources.
func (t *Tool) Run(ctx context.Context, sources []string) (*reporter.Reporter, *Statistics, error) {
	startTime := time.Now()

	tus, err := t.parseAll(ctx, sources)
	if err != nil {
		return nil, nil, err
	}

	rep := reporter.New(sources)
	col := collector.New(rep, t.logger)
	for _, tu := range tus {
		col.HandleTranslationUnit(tu)
		col.EndSourceFile()
	}

	files, decls, comments := rep.Totals()
	return rep, &Statistics{
		TranslationUnits: len(tus),
		Files:            files,
		Decls:            decls,
		Comments:         comments,
		Duration:         time.Since(startTime),
	}, nil
}

// parseAll parses sources with at most t.jobs front-end calls in flight. When
// several sources fail, the first one in input order is reported.
func (t *Tool) parseAll(ctx context.Context, sources []string) ([]*frontend.TranslationUnit, error) {
	tus := make([]*frontend.TranslationUnit, len(sources))
	errs := make([]error, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.jobs)
	for i, src := range sources {
		fe := t.frontendFor(src)
		if fe == nil {
			errs[i] = &TranslationUnitError{Source: src, Err: ErrUnsupportedSource}
			break
		}
		g.Go(func() error {
			tu, err := fe.Parse(gctx, src)
			if err != nil {
				errs[i] = &TranslationUnitError{Source: src, Frontend: fe.Name(), Err: err}
				return errs[i]
			}
			tus[i] = tu
			return nil
		})
	}

	waitErr := g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var canceled error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			if canceled == nil {
				canceled = err
			}
		default:
			return nil, err
		}
	}
	if canceled != nil {
		return nil, canceled
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return tus, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
