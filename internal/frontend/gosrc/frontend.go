package gosrc

import (
	"context"
	"fmt"
	"go/ast"
	"go/build"
	"go/token"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/dshills/cdoc/internal/frontend"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax

// Frontend treats the package that contains a Go file as its translation
// unit.
type Frontend struct {
	opts   frontend.Options
	goroot string
	logger *slog.Logger
}

// New creates a Go front-end
func New(opts frontend.Options, logger *slog.Logger) *Frontend {
	if logger == nil {
		logger = slog.Default()
	}
	goroot := build.Default.GOROOT
	if goroot != "" {
		if p, err := frontend.CanonicalPath(goroot); err == nil {
			goroot = p
		}
	}
	return &Frontend{opts: opts, goroot: goroot, logger: logger}
}

// Name implements frontend.Frontend
func (f *Frontend) Name() string { return "gosrc" }

// Supports reports whether path is a Go source file
func (f *Frontend) Supports(path string) bool {
	return filepath.Ext(path) == ".go"
}

// Parse loads the package containing path. The main file is walked first,
// followed by the other files of the package in build order.
func (f *Frontend) Parse(ctx context.Context, path string) (*frontend.TranslationUnit, error) {
	main, err := frontend.CanonicalPath(path)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     filepath.Dir(main),
		Fset:    fset,
		Tests:   strings.HasSuffix(main, "_test.go"),
	}
	pkgs, err := packages.Load(cfg, "file="+main)
	if err != nil {
		return nil, fmt.Errorf("failed to load package of %s: %w", main, err)
	}

	pkg, files := f.packageOf(pkgs, fset, main)
	if pkg == nil {
		return nil, fmt.Errorf("%w: %s: no package contains this file", frontend.ErrParse, main)
	}
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s: %s", frontend.ErrParse, main, pkg.Errors[0].Error())
	}

	tu := frontend.NewTranslationUnit(main)
	for _, pf := range files {
		e := newDeclExtractor(f, fset, pkg.PkgPath, pf)
		e.extract()
		tu.Comments = append(tu.Comments, e.comments...)
		tu.Decls = append(tu.Decls, e.decls...)
	}

	f.logger.Debug("loaded go package",
		"package", pkg.PkgPath,
		"files", len(files),
		"decls", len(tu.Decls))
	return tu, nil
}

// parsedFile is one syntax tree with its canonical path
type parsedFile struct {
	path string
	file *ast.File
}

// packageOf picks the package whose syntax includes main and returns its
// files, main first. When no package does, the first package carrying errors
// is returned so the caller can report them.
func (f *Frontend) packageOf(pkgs []*packages.Package, fset *token.FileSet, main string) (*packages.Package, []parsedFile) {
	for _, pkg := range pkgs {
		var (
			files []parsedFile
			found bool
		)
		for _, syn := range pkg.Syntax {
			name, err := frontend.CanonicalPath(fset.File(syn.Pos()).Name())
			if err != nil {
				continue
			}
			pf := parsedFile{path: name, file: syn}
			if name == main {
				found = true
				files = append([]parsedFile{pf}, files...)
				continue
			}
			files = append(files, pf)
		}
		if found {
			return pkg, files
		}
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return pkg, nil
		}
	}
	return nil, nil
}

func (f *Frontend) characteristic(path string) frontend.Characteristic {
	if f.goroot != "" && strings.HasPrefix(path, f.goroot+string(filepath.Separator)) {
		return frontend.System
	}
	return frontend.User
}
