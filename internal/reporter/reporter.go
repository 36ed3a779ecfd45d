package reporter

import (
	"fmt"
	"sort"

	"github.com/dshills/cdoc/pkg/types"
)

// Reporter aggregates declarations and comments per source file and tracks
// which files were already collected during the run.
//
// A Reporter is owned by a single goroutine for the whole run.
type Reporter struct {
	files map[string]*types.FileRecord

	// filesInTU holds files touched by the translation unit being processed
	filesInTU map[string]struct{}
	// filesSeen holds files fully collected by earlier translation units
	filesSeen map[string]struct{}
}

// New creates a Reporter with an empty record for every source file
func New(sources []string) *Reporter {
	r := &Reporter{
		files:     make(map[string]*types.FileRecord, len(sources)),
		filesInTU: make(map[string]struct{}),
		filesSeen: make(map[string]struct{}),
	}
	for _, s := range sources {
		r.AddFile(s)
	}
	return r
}

// AddFile registers filename. Registering a file twice keeps the first record.
func (r *Reporter) AddFile(filename string) {
	if _, ok := r.files[filename]; ok {
		return
	}
	r.files[filename] = types.NewFileRecord(filename)
}

// AddDecl appends a declaration to the record of filename.
// It panics if filename was never registered.
func (r *Reporter) AddDecl(filename string, decl types.DeclInfo) {
	rec := r.mustFile(filename)
	rec.Decls = append(rec.Decls, decl)
}

// AddComment appends an unattached comment to the record of filename.
// It panics if filename was never registered.
func (r *Reporter) AddComment(filename string, comment types.CommentInfo) {
	rec := r.mustFile(filename)
	rec.UnattachedComments = append(rec.UnattachedComments, comment)
}

func (r *Reporter) mustFile(filename string) *types.FileRecord {
	rec, ok := r.files[filename]
	if !ok {
		panic(fmt.Sprintf("reporter: file %q was never registered", filename))
	}
	return rec
}

// HasFile reports whether filename is a registered input file
func (r *Reporter) HasFile(filename string) bool {
	_, ok := r.files[filename]
	return ok
}

// HasSeenFile reports whether filename was collected by an earlier
// translation unit
func (r *Reporter) HasSeenFile(filename string) bool {
	_, ok := r.filesSeen[filename]
	return ok
}

// AddFileInTU marks filename as touched by the current translation unit
func (r *Reporter) AddFileInTU(filename string) {
	r.filesInTU[filename] = struct{}{}
}

// AddFileSeen marks filename as fully collected
func (r *Reporter) AddFileSeen(filename string) {
	r.filesSeen[filename] = struct{}{}
}

// FilesInTU returns the files touched by the current translation unit, sorted
func (r *Reporter) FilesInTU() []string {
	out := make([]string, 0, len(r.filesInTU))
	for f := range r.filesInTU {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// ClearFilesInTU forgets the files touched by the current translation unit
func (r *Reporter) ClearFilesInTU() {
	clear(r.filesInTU)
}

// File returns the record of filename
func (r *Reporter) File(filename string) (*types.FileRecord, bool) {
	rec, ok := r.files[filename]
	return rec, ok
}

// Files returns all records ordered by filename
func (r *Reporter) Files() []*types.FileRecord {
	out := make([]*types.FileRecord, 0, len(r.files))
	for _, rec := range r.files {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}

// Totals returns the number of files, declarations and comment trees held
func (r *Reporter) Totals() (files, decls, comments int) {
	for _, rec := range r.files {
		decls += len(rec.Decls)
		comments += rec.CommentCount()
	}
	return len(r.files), decls, comments
}
