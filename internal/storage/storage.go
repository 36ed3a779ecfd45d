package storage

import (
	"context"
	"time"

	"github.com/dshills/cdoc/pkg/types"
)

// Storage persists completed documentation runs and answers lookups over them
type Storage interface {
	// Run operations
	SaveRun(ctx context.Context, run *Run, records []*types.FileRecord) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	LatestRun(ctx context.Context) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// File operations
	ListFiles(ctx context.Context, runID string) ([]string, error)
	GetFileRecord(ctx context.Context, runID, filename string) (*types.FileRecord, error)

	// Search operations
	SearchDecls(ctx context.Context, runID, query string, limit int) ([]*DeclMatch, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage
}

// Run is one completed extraction. ID is assigned by SaveRun when empty.
type Run struct {
	ID           string
	Format       string
	Sources      []string
	FileCount    int
	DeclCount    int
	CommentCount int
	CreatedAt    time.Time
}

// DeclMatch is a declaration found by SearchDecls
type DeclMatch struct {
	RunID         string
	Filename      string
	QualifiedName string
	Comment       *types.CommentInfo
}
