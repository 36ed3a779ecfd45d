// Package reporter turns parsed comment trees into serializable records and
// aggregates them per source file.
//
// ParseFullComment converts a comments.FullComment into a sparse
// types.CommentInfo tree. The Reporter keeps one types.FileRecord per input
// file together with the first-seen bookkeeping the collector uses to avoid
// reporting a file twice when it is reached from several translation units.
// Serialize writes the json format as YAML (one document per file) or the
// placeholder llvm output.
package reporter
