package collector

import (
	"log/slog"

	"github.com/dshills/cdoc/internal/frontend"
	"github.com/dshills/cdoc/internal/reporter"
	"github.com/dshills/cdoc/pkg/types"
)

// Collector moves declarations and comments of translation units into a
// Reporter, reporting every file at most once per run.
//
// A Collector is not safe for concurrent use; translation units must be
// handed to it one at a time.
type Collector struct {
	reporter *reporter.Reporter
	logger   *slog.Logger
}

// New creates a Collector writing into rep
func New(rep *reporter.Reporter, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{reporter: rep, logger: logger}
}

// HandleTranslationUnit collects the declarations of tu in traversal order and
// then the comments no declaration claimed.
func (c *Collector) HandleTranslationUnit(tu *frontend.TranslationUnit) {
	var decls, attached, unattached int

	for _, d := range tu.Decls {
		if !c.isNewComment(d.Loc) {
			continue
		}
		info := types.DeclInfo{QualifiedName: d.QualifiedName}
		if rc := d.RawComment; rc != nil {
			rc.SetAttached()
			ci := reporter.ParseFullComment(rc.Parse(tu.Traits, d))
			info.Comment = &ci
			attached++
		}
		c.reporter.AddDecl(d.Loc.Filename, info)
		decls++
	}

	for _, rc := range tu.Comments {
		if rc.IsAttached() || !c.isNewComment(rc.Loc) {
			continue
		}
		c.reporter.AddComment(rc.Loc.Filename, reporter.ParseFullComment(rc.Parse(tu.Traits, nil)))
		unattached++
	}

	c.logger.Debug("collected translation unit",
		"file", tu.MainFile,
		"decls", decls,
		"attached", attached,
		"unattached", unattached)
}

// EndSourceFile marks every file touched by the current translation unit as
// seen, so later translation units skip it.
func (c *Collector) EndSourceFile() {
	for _, f := range c.reporter.FilesInTU() {
		c.reporter.AddFileSeen(f)
	}
	c.reporter.ClearFilesInTU()
}

// isNewComment reports whether something at loc should be collected, and if
// so marks its file as touched by the current translation unit.
func (c *Collector) isNewComment(loc frontend.Location) bool {
	if !loc.IsValid() {
		return false
	}
	if loc.IsInSystemHeader() || loc.IsInExternCSystemHeader() {
		return false
	}
	if !c.reporter.HasFile(loc.Filename) || c.reporter.HasSeenFile(loc.Filename) {
		return false
	}
	c.reporter.AddFileInTU(loc.Filename)
	return true
}
