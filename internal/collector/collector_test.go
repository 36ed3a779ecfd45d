package collector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cdoc/internal/frontend"
	"github.com/dshills/cdoc/internal/reporter"
	"github.com/dshills/cdoc/pkg/types"
)

func loc(file string, line int) frontend.Location {
	return frontend.Location{Filename: file, Offset: line * 100, Line: line, Column: 1}
}

func rawComment(file string, line int, text string) *frontend.RawComment {
	l := loc(file, line)
	return frontend.NewRawComment(text, l, l.Offset+len(text), line+strings.Count(text, "\n"))
}

func decl(file string, line int, name string, rc *frontend.RawComment, params ...string) *frontend.Decl {
	return &frontend.Decl{
		Kind:          frontend.DeclFunction,
		QualifiedName: name,
		Loc:           loc(file, line),
		RawComment:    rc,
		Params:        params,
	}
}

func newTU(main string, decls []*frontend.Decl, cs ...*frontend.RawComment) *frontend.TranslationUnit {
	tu := frontend.NewTranslationUnit(main)
	tu.Decls = decls
	tu.Comments = cs
	return tu
}

func TestCollector_DocumentedFunction(t *testing.T) {
	const file = "/src/math.c"
	rc := rawComment(file, 1, "/** Adds two numbers.\n * @param a first operand\n * @param b second operand\n */")
	tu := newTU(file, []*frontend.Decl{decl(file, 5, "add", rc, "a", "b")}, rc)

	rep := reporter.New([]string{file})
	c := New(rep, nil)
	c.HandleTranslationUnit(tu)
	c.EndSourceFile()

	rec, ok := rep.File(file)
	require.True(t, ok)
	require.Len(t, rec.Decls, 1)
	assert.Empty(t, rec.UnattachedComments)

	d := rec.Decls[0]
	assert.Equal(t, "add", d.QualifiedName)
	require.NotNil(t, d.Comment)

	var params []types.CommentInfo
	for _, child := range d.Comment.Children {
		if child.Kind == types.KindParamCommand {
			params = append(params, child)
		}
	}
	require.Len(t, params, 2)
	assert.Equal(t, "a", params[0].ParamName)
	assert.Equal(t, "b", params[1].ParamName)
	assert.Empty(t, params[0].Direction)
	assert.Empty(t, params[1].Direction)
	assert.True(t, rc.IsAttached())
}

func TestCollector_StrayRemark(t *testing.T) {
	const file = "/src/stray.c"
	rep := reporter.New([]string{file})
	c := New(rep, nil)

	c.HandleTranslationUnit(newTU(file, nil, rawComment(file, 1, "// a stray remark")))
	c.EndSourceFile()

	rec, _ := rep.File(file)
	assert.Empty(t, rec.Decls)
	require.Len(t, rec.UnattachedComments, 1)

	root := rec.UnattachedComments[0]
	assert.Equal(t, types.KindFullComment, root.Kind)
	require.Len(t, root.Children, 1)
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, "a stray remark", root.Children[0].Children[0].Text)
}

func TestCollector_DeclWithoutComment(t *testing.T) {
	const file = "/src/a.c"
	rep := reporter.New([]string{file})
	c := New(rep, nil)

	c.HandleTranslationUnit(newTU(file, []*frontend.Decl{decl(file, 1, "bare", nil)}))

	rec, _ := rep.File(file)
	require.Len(t, rec.Decls, 1)
	assert.Equal(t, "bare", rec.Decls[0].QualifiedName)
	assert.Nil(t, rec.Decls[0].Comment)
}

// headerTU builds a translation unit for main that includes the shared header
// with one documented declaration and one stray comment.
func headerTU(main, header string) *frontend.TranslationUnit {
	doc := rawComment(header, 1, "/// Shared helper.")
	stray := rawComment(header, 10, "// end of header")
	mainDoc := rawComment(main, 3, "/// Entry.")
	return newTU(main,
		[]*frontend.Decl{
			decl(header, 2, "helper", doc),
			decl(main, 4, "main", mainDoc),
		},
		doc, stray, mainDoc,
	)
}

func TestCollector_SharedHeaderCollectedOnce(t *testing.T) {
	const header = "/src/shared.h"
	sources := []string{"/src/a.c", "/src/b.c", header}

	rep := reporter.New(sources)
	c := New(rep, nil)
	for _, main := range []string{"/src/a.c", "/src/b.c"} {
		c.HandleTranslationUnit(headerTU(main, header))
		c.EndSourceFile()
	}

	once := reporter.New(sources)
	c1 := New(once, nil)
	c1.HandleTranslationUnit(headerTU("/src/a.c", header))
	c1.EndSourceFile()

	twiceRec, _ := rep.File(header)
	onceRec, _ := once.File(header)
	assert.Len(t, twiceRec.Decls, 1)
	assert.Len(t, twiceRec.UnattachedComments, 1)
	assert.Equal(t, onceRec, twiceRec)

	for _, main := range []string{"/src/a.c", "/src/b.c"} {
		rec, _ := rep.File(main)
		assert.Len(t, rec.Decls, 1, main)
	}
	assert.True(t, rep.HasSeenFile(header))
	assert.Empty(t, rep.FilesInTU())
}

func TestCollector_AttachedUnattachedPartition(t *testing.T) {
	const file = "/src/p.c"
	first := rawComment(file, 1, "/// First.")
	second := rawComment(file, 3, "/// Second.")
	loose := rawComment(file, 6, "// loose")
	tu := newTU(file,
		[]*frontend.Decl{decl(file, 2, "f", first), decl(file, 4, "g", second), decl(file, 7, "h", nil)},
		first, second, loose,
	)

	rep := reporter.New([]string{file})
	New(rep, nil).HandleTranslationUnit(tu)

	rec, _ := rep.File(file)
	var attached []string
	for _, d := range rec.Decls {
		if d.Comment != nil {
			attached = append(attached, d.Comment.PlainText())
		}
	}
	var unattached []string
	for _, ci := range rec.UnattachedComments {
		unattached = append(unattached, ci.PlainText())
	}

	assert.Equal(t, []string{"First.", "Second."}, attached)
	assert.Equal(t, []string{"loose"}, unattached)
	assert.Equal(t, 3, rec.CommentCount())
}

// Attached comments follow declaration order while unattached ones follow the
// raw comment list. The two are not reconciled.
func TestCollector_EmissionOrder(t *testing.T) {
	const file = "/src/order.c"
	early := rawComment(file, 1, "/// Early.")
	late := rawComment(file, 10, "/// Late.")
	strayB := rawComment(file, 20, "// b")
	strayA := rawComment(file, 5, "// a")
	tu := newTU(file,
		[]*frontend.Decl{decl(file, 11, "late", late), decl(file, 2, "early", early)},
		early, late, strayB, strayA,
	)

	rep := reporter.New([]string{file})
	New(rep, nil).HandleTranslationUnit(tu)

	rec, _ := rep.File(file)
	require.Len(t, rec.Decls, 2)
	assert.Equal(t, "late", rec.Decls[0].QualifiedName)
	assert.Equal(t, "early", rec.Decls[1].QualifiedName)

	require.Len(t, rec.UnattachedComments, 2)
	assert.Equal(t, "b", rec.UnattachedComments[0].PlainText())
	assert.Equal(t, "a", rec.UnattachedComments[1].PlainText())
}

func TestCollector_SkipsIneligibleLocations(t *testing.T) {
	const file = "/src/main.c"
	sys := frontend.Location{Filename: "/usr/include/stdio.h", Line: 1, Characteristic: frontend.System}
	externC := frontend.Location{Filename: "/sys/c.h", Line: 1, Characteristic: frontend.ExternCSystem}

	sysComment := frontend.NewRawComment("/// sys", sys, 7, 1)
	tu := newTU(file,
		[]*frontend.Decl{
			{QualifiedName: "nowhere"},
			{QualifiedName: "printf", Loc: sys},
			{QualifiedName: "c_api", Loc: externC},
			decl("/src/unlisted.h", 1, "unlisted", nil),
		},
		sysComment,
		rawComment("/src/unlisted.h", 5, "// not an input"),
	)

	// System headers are skipped even when listed as inputs.
	rep := reporter.New([]string{file, sys.Filename, externC.Filename})
	New(rep, nil).HandleTranslationUnit(tu)

	assert.Empty(t, rep.FilesInTU())
	for _, f := range []string{file, sys.Filename, externC.Filename} {
		rec, _ := rep.File(f)
		assert.Empty(t, rec.Decls, f)
		assert.Empty(t, rec.UnattachedComments, f)
	}
	assert.False(t, rep.HasFile("/src/unlisted.h"))
	assert.False(t, sysComment.IsAttached())
}

func TestCollector_EndSourceFile(t *testing.T) {
	const file = "/src/a.c"
	rep := reporter.New([]string{file, "/src/b.c"})
	c := New(rep, nil)

	c.HandleTranslationUnit(newTU(file, []*frontend.Decl{decl(file, 1, "f", nil)}))
	assert.Equal(t, []string{file}, rep.FilesInTU())
	assert.False(t, rep.HasSeenFile(file))

	c.EndSourceFile()
	assert.Empty(t, rep.FilesInTU())
	assert.True(t, rep.HasSeenFile(file))
	assert.False(t, rep.HasSeenFile("/src/b.c"))

	// A later unit reaching the same file adds nothing.
	c.HandleTranslationUnit(newTU("/src/b.c", []*frontend.Decl{decl(file, 1, "f", nil)}))
	rec, _ := rep.File(file)
	assert.Len(t, rec.Decls, 1)
	assert.Empty(t, rep.FilesInTU())
}
