// Package cfamily is the C and C++ front-end.
//
// Sources are parsed with tree-sitter (the C grammar for .c files, the C++
// grammar for everything else). #include directives are followed through the
// including directory and the configured search paths, so one translation
// unit covers the main file and every header it reaches. Files found in
// system directories are marked as such; the collector ignores them.
//
// Declarations are qualified with their enclosing namespaces, records and
// scoped enums. Function parameters and locals are not reported.
package cfamily
