package frontend

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cdoc/internal/comments"
)

const testFile = "/src/t.c"

func rawAt(t *testing.T, src, text string) *RawComment {
	t.Helper()
	off := strings.Index(src, text)
	require.GreaterOrEqual(t, off, 0, "comment %q not in source", text)
	line := strings.Count(src[:off], "\n") + 1
	loc := Location{Filename: testFile, Offset: off, Line: line, Column: 1}
	return NewRawComment(text, loc, off+len(text), line+strings.Count(text, "\n"))
}

func declAt(t *testing.T, src, text, name string) *Decl {
	t.Helper()
	off := strings.Index(src, text)
	require.GreaterOrEqual(t, off, 0, "decl %q not in source", text)
	line := strings.Count(src[:off], "\n") + 1
	return &Decl{
		Kind:          DeclVariable,
		QualifiedName: name,
		Loc:           Location{Filename: testFile, Offset: off, Line: line, Column: 1},
		EndOffset:     off + len(text),
	}
}

func TestLocation(t *testing.T) {
	assert.False(t, Location{}.IsValid())
	assert.False(t, Location{Filename: "a.c"}.IsValid())
	assert.Equal(t, "<invalid>", Location{}.String())

	user := Location{Filename: "/a.c", Line: 3, Column: 7}
	assert.True(t, user.IsValid())
	assert.False(t, user.IsInSystemHeader())
	assert.Equal(t, "/a.c:3:7", user.String())

	sys := Location{Filename: "/usr/include/stdio.h", Line: 1, Characteristic: System}
	assert.True(t, sys.IsInSystemHeader())
	assert.False(t, sys.IsInExternCSystemHeader())

	externC := Location{Filename: "/sys/c.h", Line: 1, Characteristic: ExternCSystem}
	assert.True(t, externC.IsInSystemHeader())
	assert.True(t, externC.IsInExternCSystemHeader())
	assert.Equal(t, "extern-c-system", ExternCSystem.String())
}

func TestCanonicalPath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.h")
	require.NoError(t, os.WriteFile(target, []byte("int x;\n"), 0o644))
	link := filepath.Join(dir, "link.h")
	require.NoError(t, os.Symlink(target, link))

	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)

	got, err := CanonicalPath(link)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	missing := filepath.Join(dir, "nope", "..", "missing.h")
	got, err = CanonicalPath(missing)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "missing.h"), got)
}

func TestDecl_ParamIndex(t *testing.T) {
	d := &Decl{Params: []string{"a", "b"}}
	assert.Equal(t, 0, d.ParamIndex("a"))
	assert.Equal(t, 1, d.ParamIndex("b"))
	assert.Equal(t, comments.InvalidParamIndex, d.ParamIndex("c"))
}

func TestDecl_TemplateParamPosition(t *testing.T) {
	// template <typename T, template <typename U, int N> class C>
	d := &Decl{TemplateParams: []TemplateParam{
		{Name: "T"},
		{Name: "C", Params: []TemplateParam{{Name: "U"}, {Name: "N"}}},
	}}

	assert.Equal(t, []int{0}, d.TemplateParamPosition("T"))
	assert.Equal(t, []int{1}, d.TemplateParamPosition("C"))
	assert.Equal(t, []int{1, 1}, d.TemplateParamPosition("N"))
	assert.Nil(t, d.TemplateParamPosition("X"))
}

func TestNewRawComment_Style(t *testing.T) {
	loc := Location{Filename: testFile, Line: 1}

	assert.True(t, NewRawComment("/// doc", loc, 7, 1).IsDoxygen())
	assert.True(t, NewRawComment("/** doc */", loc, 10, 1).IsDoxygen())
	assert.False(t, NewRawComment("// plain", loc, 8, 1).IsDoxygen())

	trailing := NewRawComment("///< after", loc, 10, 1)
	assert.True(t, trailing.Trailing)
	assert.False(t, trailing.IsAttached())
	trailing.SetAttached()
	assert.True(t, trailing.IsAttached())
}

func TestRawComment_Parse(t *testing.T) {
	rc := NewRawComment("/// \\param b second", Location{Filename: testFile, Line: 1}, 19, 1)

	fc := rc.Parse(nil, &Decl{Params: []string{"a", "b"}})
	require.Len(t, fc.Blocks, 1)
	pc, ok := fc.Blocks[0].(*comments.ParamCommandComment)
	require.True(t, ok)
	assert.Equal(t, 1, pc.ParamIndex)

	fc = rc.Parse(nil, nil)
	pc = fc.Blocks[0].(*comments.ParamCommandComment)
	assert.False(t, pc.IsParamIndexValid())
}

func TestMerge(t *testing.T) {
	src := "/// a\n/// b\n\n/// c\n// d\nint x;\n"
	cs := []*RawComment{
		rawAt(t, src, "/// a"),
		rawAt(t, src, "/// b"),
		rawAt(t, src, "/// c"),
		rawAt(t, src, "// d"),
	}

	merged := Merge([]byte(src), cs)
	require.Len(t, merged, 3)
	assert.Equal(t, "/// a\n/// b", merged[0].Text)
	assert.Equal(t, 2, merged[0].EndLine)
	assert.Equal(t, "/// c", merged[1].Text)
	assert.Equal(t, "// d", merged[2].Text)
}

func TestMerge_TrailingKeptApart(t *testing.T) {
	src := "/// lead\n///< trail\n"
	merged := Merge([]byte(src), []*RawComment{rawAt(t, src, "/// lead"), rawAt(t, src, "///< trail")})
	assert.Len(t, merged, 2)
}

func TestKeepDoxygen(t *testing.T) {
	src := "/// a\n// b\n/** c */\n"
	kept := KeepDoxygen([]*RawComment{rawAt(t, src, "/// a"), rawAt(t, src, "// b"), rawAt(t, src, "/** c */")})
	require.Len(t, kept, 2)
	assert.Equal(t, "/// a", kept[0].Text)
	assert.Equal(t, "/** c */", kept[1].Text)
}

func TestAttach(t *testing.T) {
	src := `/** Adds. */
int add(int a, int b);

int x; ///< the x
enum E { A, ///< first
  B };
/// far

int far;
int y;
`
	cs := []*RawComment{
		rawAt(t, src, "/** Adds. */"),
		rawAt(t, src, "///< the x"),
		rawAt(t, src, "///< first"),
		rawAt(t, src, "/// far"),
	}
	add := declAt(t, src, "int add(int a, int b);", "add")
	x := declAt(t, src, "int x;", "x")
	e := declAt(t, src, "enum E { A, ///< first\n  B }", "E")
	a := declAt(t, src, "A,", "A")
	far := declAt(t, src, "int far;", "far")
	y := declAt(t, src, "int y;", "y")

	Attach([]byte(src), []*Decl{add, x, e, a, far, y}, cs)

	assert.Same(t, cs[0], add.RawComment)
	assert.Same(t, cs[1], x.RawComment)
	assert.Nil(t, e.RawComment)
	assert.Same(t, cs[2], a.RawComment)
	assert.Same(t, cs[3], far.RawComment)
	assert.Nil(t, y.RawComment)
}

func TestAttach_KeepsExisting(t *testing.T) {
	src := "/// doc\nint v;\n"
	cs := []*RawComment{rawAt(t, src, "/// doc")}
	other := NewRawComment("// other", Location{Filename: testFile, Line: 9}, 0, 9)
	d := declAt(t, src, "int v;", "v")
	d.RawComment = other

	Attach([]byte(src), []*Decl{d}, cs)
	assert.Same(t, other, d.RawComment)
}

func TestAttach_CommentAfterCode(t *testing.T) {
	src := "int a; // about a\nint b;\n"
	cs := []*RawComment{rawAt(t, src, "// about a")}
	b := declAt(t, src, "int b;", "b")

	Attach([]byte(src), []*Decl{b}, cs)
	assert.Nil(t, b.RawComment)
}
