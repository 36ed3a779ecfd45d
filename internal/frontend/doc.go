// Package frontend defines what a language front-end hands to the collector:
// translation units made of declarations and raw comments with resolved
// source locations.
//
// Front-ends live in sub-packages (cfamily for C and C++, gosrc for Go). The
// helpers in this package (Merge, KeepDoxygen, Attach) implement the comment
// grouping and attachment rules they share.
package frontend
