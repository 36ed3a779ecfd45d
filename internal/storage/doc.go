// Package storage persists documentation runs in SQLite.
//
// Each run records its sources, output format and totals, plus one row per
// file record. Declarations and unattached comments keep their collection
// order; comment trees are stored as JSON.
//
// # Database Schema
//
// Tables:
//   - runs: one row per completed run, keyed by a UUID
//   - files: filenames of a run
//   - decls: declarations of a file with their comment tree
//   - unattached_comments: comments no declaration claimed
//   - schema_version: applied migrations
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("cdoc.db")
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	run := &storage.Run{Format: "json", Sources: sources}
//	if err := db.SaveRun(ctx, run, rep.Files()); err != nil {
//	    return err
//	}
//	rec, err := db.GetFileRecord(ctx, run.ID, "/src/math.c")
//
// # Drivers
//
// The default build uses modernc.org/sqlite. Build with -tags cgo_sqlite to
// use github.com/mattn/go-sqlite3 instead. BuildMode reports which one is
// compiled in.
//
// # Migrations
//
// Schema versions are semantic versions. NewSQLiteStorage applies every
// migration newer than the highest recorded version; RollbackMigration undoes
// the latest one.
package storage
