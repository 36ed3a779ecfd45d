package cfamily

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/dshills/cdoc/internal/frontend"
)

var cExtensions = map[string]bool{".c": true}

var cppExtensions = map[string]bool{
	".h": true, ".cc": true, ".cp": true, ".cpp": true, ".cxx": true, ".c++": true,
	".hh": true, ".hpp": true, ".hxx": true, ".inl": true, ".ipp": true,
}

// Frontend parses C and C++ sources with tree-sitter, following #include
// directives through the configured search paths.
type Frontend struct {
	opts   frontend.Options
	search []searchDir
	logger *slog.Logger
}

// New creates a C/C++ front-end. Include directories are resolved against
// the working directory.
func New(opts frontend.Options, logger *slog.Logger) *Frontend {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Frontend{opts: opts, logger: logger}
	add := func(dirs []string, ch frontend.Characteristic) {
		for _, d := range dirs {
			abs, err := frontend.CanonicalPath(d)
			if err != nil {
				logger.Warn("ignoring include directory", "dir", d, "error", err)
				continue
			}
			f.search = append(f.search, searchDir{path: abs, characteristic: ch})
		}
	}
	add(opts.IncludeDirs, frontend.User)
	add(opts.SystemIncludeDirs, frontend.System)
	add(opts.ExternCSystemIncludeDirs, frontend.ExternCSystem)
	return f
}

// Name implements frontend.Frontend
func (f *Frontend) Name() string { return "cfamily" }

// Supports reports whether path has a C or C++ source or header extension
func (f *Frontend) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return cExtensions[ext] || cppExtensions[ext]
}

// Parse builds the translation unit rooted at path. Files reached through
// includes are parsed with the grammar of the main file.
func (f *Frontend) Parse(ctx context.Context, path string) (*frontend.TranslationUnit, error) {
	main, err := frontend.CanonicalPath(path)
	if err != nil {
		return nil, err
	}

	language := cpp.GetLanguage()
	if cExtensions[filepath.Ext(main)] {
		language = c.GetLanguage()
	}

	w := &walker{
		ctx:      ctx,
		fe:       f,
		language: language,
		tu:       frontend.NewTranslationUnit(main),
		entered:  make(map[string]bool),
	}
	if err := w.enterFile(main, frontend.User); err != nil {
		return nil, err
	}
	return w.tu, nil
}

// walker builds one translation unit
type walker struct {
	ctx      context.Context
	fe       *Frontend
	language *sitter.Language
	tu       *frontend.TranslationUnit
	// entered holds every file already read into this unit
	entered map[string]bool
}
