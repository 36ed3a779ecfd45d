// Package types provides the shared data model of cdoc.
//
// These types are what the extraction pipeline produces and what every
// output surface (YAML, SQLite, MCP) consumes.
//
// # Core Types
//
// CommentInfo is one node of a structured comment tree. Its Kind decides which
// of the optional fields are meaningful; the rest stay empty and are omitted
// from serialized output:
//
//	param := types.CommentInfo{
//	    Kind:      types.KindParamCommand,
//	    ParamName: "a",
//	    Children: []types.CommentInfo{
//	        {Kind: types.KindParagraph, Children: []types.CommentInfo{
//	            {Kind: types.KindText, Text: "first operand"},
//	        }},
//	    },
//	}
//
// DeclInfo pairs a declaration's qualified name with its comment tree:
//
//	decl := types.DeclInfo{QualifiedName: "math::add", Comment: &root}
//
// FileRecord is the aggregation root, one per input file:
//
//	rec := types.NewFileRecord("/src/math.h")
//	rec.Decls = append(rec.Decls, decl)
//
// # Serialization
//
// Struct tags carry both the YAML keys written by the command line tool
// (Filename, Decls, Name, Comment, Kind, ...) and the snake_case JSON keys
// used for storage and the MCP server.
package types
