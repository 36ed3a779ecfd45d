package frontend

import (
	"context"
	"errors"

	"github.com/dshills/cdoc/internal/comments"
)

// ErrParse is wrapped by front-ends when a source cannot be turned into a
// complete translation unit
var ErrParse = errors.New("parse failed")

// TranslationUnit is everything a front-end learned from one main source file
// and the files it pulled in.
type TranslationUnit struct {
	MainFile string
	// Decls are in traversal order
	Decls []*Decl
	// Comments holds every surfaced comment, grouped by file in the order
	// files were entered and sorted by offset within a file
	Comments []*RawComment
	// Traits carries the command registry shared by every comment of the unit
	Traits *comments.Traits
}

// NewTranslationUnit returns an empty unit for mainFile
func NewTranslationUnit(mainFile string) *TranslationUnit {
	return &TranslationUnit{
		MainFile: mainFile,
		Traits:   comments.NewTraits(),
	}
}

// Frontend produces translation units from source files
type Frontend interface {
	// Name identifies the front-end in logs
	Name() string
	// Supports reports whether path is a main source file this front-end reads
	Supports(path string) bool
	// Parse builds the translation unit rooted at path
	Parse(ctx context.Context, path string) (*TranslationUnit, error)
}

// Options are shared by every front-end
type Options struct {
	IncludeDirs              []string
	SystemIncludeDirs        []string
	ExternCSystemIncludeDirs []string
	// DoxygenOnly drops ordinary comments before attachment
	DoxygenOnly bool
}
