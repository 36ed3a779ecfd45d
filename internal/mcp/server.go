package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/cdoc/internal/storage"
	"github.com/dshills/cdoc/internal/tool"
)

const (
	// ServerName is the MCP server name
	ServerName = "cdoc"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	storage storage.Storage
	toolCfg tool.Config
	lock    tool.RunLock
	logger  *slog.Logger
}

// DefaultDBPath returns ~/.cdoc/cdoc.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cdoc", "cdoc.db"), nil
}

// NewServer opens the run database at dbPath (DefaultDBPath when empty) and
// registers the tools. toolCfg configures every extraction it runs.
func NewServer(dbPath string, toolCfg tool.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dbPath == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		storage: store,
		toolCfg: toolCfg,
		logger:  logger,
	}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	s.logger.Info("serving MCP on stdio", "storage", storage.BuildMode)
	return server.ServeStdio(s.mcp)
}

// Close releases the storage without serving
func (s *Server) Close() error {
	return s.storage.Close()
}

func (s *Server) registerTools() {
	s.mcp.AddTool(extractCommentsTool(), s.handleExtractComments)
	s.mcp.AddTool(getFileCommentsTool(), s.handleGetFileComments)
	s.mcp.AddTool(searchDeclarationsTool(), s.handleSearchDeclarations)
	s.mcp.AddTool(listRunsTool(), s.handleListRuns)
}
