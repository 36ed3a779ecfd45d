// Package gosrc is the Go front-end.
//
// The translation unit of a Go file is the package that contains it, loaded
// with golang.org/x/tools/go/packages. Every file of the package contributes
// its package clause and its top-level declarations: functions, methods,
// types with their fields and interface methods, constants and variables.
// Comments are attached the way go/ast attaches doc comments, falling back to
// the line comment of a spec or field. Files under GOROOT count as system
// files.
package gosrc
