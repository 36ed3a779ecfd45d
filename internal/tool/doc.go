// Package tool drives a documentation run.
//
// A run turns each source file into a translation unit with the first
// front-end that supports it, then feeds the units to a collector one at a
// time, in the order the sources were given:
//
//	t := tool.New(&tool.Config{Jobs: 4}, logger)
//	sources, err := t.ExpandSources([]string{"src", "include/api.h"})
//	rep, stats, err := t.Run(ctx, sources)
//	err = rep.Serialize(reporter.FormatJSON, os.Stdout)
//
// Front-end parsing is the only concurrent stage. Any front-end failure
// aborts the run with a *TranslationUnitError and no reporter.
package tool
