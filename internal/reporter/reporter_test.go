package reporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cdoc/pkg/types"
)

func TestNew_RegistersSources(t *testing.T) {
	r := New([]string{"/src/b.c", "/src/a.c"})

	assert.True(t, r.HasFile("/src/a.c"))
	assert.True(t, r.HasFile("/src/b.c"))
	assert.False(t, r.HasFile("/src/c.c"))

	files := r.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "/src/a.c", files[0].Filename)
	assert.Empty(t, files[0].Decls)
	assert.Empty(t, files[0].UnattachedComments)
}

func TestAddFile_KeepsExistingRecord(t *testing.T) {
	r := New([]string{"/a.c"})
	r.AddDecl("/a.c", types.DeclInfo{QualifiedName: "f"})
	r.AddFile("/a.c")

	rec, ok := r.File("/a.c")
	require.True(t, ok)
	assert.Len(t, rec.Decls, 1)
}

func TestAddDecl_AppendsInOrder(t *testing.T) {
	r := New([]string{"/a.c"})
	r.AddDecl("/a.c", types.DeclInfo{QualifiedName: "first"})
	r.AddDecl("/a.c", types.DeclInfo{QualifiedName: "second"})
	r.AddComment("/a.c", types.CommentInfo{Kind: types.KindFullComment})

	rec, _ := r.File("/a.c")
	require.Len(t, rec.Decls, 2)
	assert.Equal(t, "first", rec.Decls[0].QualifiedName)
	assert.Equal(t, "second", rec.Decls[1].QualifiedName)
	assert.Len(t, rec.UnattachedComments, 1)
}

func TestAddDecl_UnregisteredFilePanics(t *testing.T) {
	r := New(nil)
	assert.Panics(t, func() { r.AddDecl("/missing.c", types.DeclInfo{QualifiedName: "f"}) })
	assert.Panics(t, func() { r.AddComment("/missing.c", types.CommentInfo{Kind: types.KindFullComment}) })
}

func TestFirstSeenTracking(t *testing.T) {
	r := New([]string{"/a.c", "/h.h"})

	r.AddFileInTU("/h.h")
	r.AddFileInTU("/a.c")
	r.AddFileInTU("/h.h")
	assert.Equal(t, []string{"/a.c", "/h.h"}, r.FilesInTU())
	assert.False(t, r.HasSeenFile("/h.h"))

	for _, f := range r.FilesInTU() {
		r.AddFileSeen(f)
	}
	r.ClearFilesInTU()

	assert.Empty(t, r.FilesInTU())
	assert.True(t, r.HasSeenFile("/a.c"))
	assert.True(t, r.HasSeenFile("/h.h"))
}

func TestTotals(t *testing.T) {
	r := New([]string{"/a.c", "/b.c"})
	r.AddDecl("/a.c", types.DeclInfo{QualifiedName: "f", Comment: &types.CommentInfo{Kind: types.KindFullComment}})
	r.AddDecl("/a.c", types.DeclInfo{QualifiedName: "g"})
	r.AddComment("/b.c", types.CommentInfo{Kind: types.KindFullComment})

	files, decls, comments := r.Totals()
	assert.Equal(t, 2, files)
	assert.Equal(t, 2, decls)
	assert.Equal(t, 2, comments)
}
