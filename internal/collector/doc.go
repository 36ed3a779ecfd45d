// Package collector walks translation units and records their documented
// declarations and stray comments in a reporter.Reporter.
//
// For every translation unit the collector first visits declarations in
// traversal order, parsing and claiming the raw comment attached to each,
// then sweeps the comments nobody claimed. A file only contributes while it
// is a registered input outside system headers and has not been completed by
// an earlier translation unit; EndSourceFile closes the current unit.
package collector
