package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/dshills/cdoc/internal/reporter"
	"github.com/dshills/cdoc/internal/storage"
	"github.com/dshills/cdoc/internal/tool"
)

// MCP error codes
const (
	ErrorCodeInvalidParams        = -32602 // Invalid method parameters
	ErrorCodeInternalError        = -32603 // Internal JSON-RPC error
	ErrorCodeSourceNotFound       = -32001 // A source path does not exist
	ErrorCodeExtractionInProgress = -32002 // Another extraction is already running
	ErrorCodeNotFound             = -32003 // No such run or file
	ErrorCodeEmptyQuery           = -32004 // Query parameter is empty
	ErrorCodeExtractionFailed     = -32005 // A translation unit could not be built
)

// handleExtractComments handles the extract_comments tool invocation
func (s *Server) handleExtractComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	sources, err := getStringSlice(args, "sources")
	if err != nil || len(sources) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "sources parameter is required", map[string]interface{}{
			"param":  "sources",
			"reason": "missing, empty or not a list of strings",
		})
	}
	for _, src := range sources {
		if err := validatePath(src); err != nil {
			code := ErrorCodeInvalidParams
			if errors.Is(err, ErrPathNotFound) {
				code = ErrorCodeSourceNotFound
			}
			return nil, newMCPError(code, "invalid source", map[string]interface{}{
				"param":  "sources",
				"path":   src,
				"reason": err.Error(),
			})
		}
	}
	includeDirs, err := getStringSlice(args, "include_dirs")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "include_dirs must be a list of strings", map[string]interface{}{
			"param": "include_dirs",
		})
	}

	if !s.lock.TryAcquire() {
		return nil, newMCPError(ErrorCodeExtractionInProgress, "another extraction is already running", nil)
	}
	defer s.lock.Release()

	cfg := s.toolCfg
	cfg.Options.DoxygenOnly = getBoolDefault(args, "doxygen", cfg.Options.DoxygenOnly)
	cfg.Options.IncludeDirs = append(append([]string{}, cfg.Options.IncludeDirs...), includeDirs...)
	t := tool.New(&cfg, s.logger)

	expanded, err := t.ExpandSources(sources)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to expand sources", map[string]interface{}{
			"error": err.Error(),
		})
	}

	rep, stats, err := t.Run(ctx, expanded)
	if err != nil {
		var tuErr *tool.TranslationUnitError
		if errors.As(err, &tuErr) {
			return nil, newMCPError(ErrorCodeExtractionFailed, "extraction failed", map[string]interface{}{
				"source": tuErr.Source,
				"error":  tuErr.Err.Error(),
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	run := &storage.Run{
		Format:       string(reporter.FormatJSON),
		Sources:      expanded,
		FileCount:    stats.Files,
		DeclCount:    stats.Decls,
		CommentCount: stats.Comments,
	}
	if err := s.storage.SaveRun(ctx, run, rep.Files()); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to store run", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"run_id":            run.ID,
		"translation_units": stats.TranslationUnits,
		"files":             stats.Files,
		"decls":             stats.Decls,
		"comments":          stats.Comments,
		"duration_ms":       stats.Duration.Milliseconds(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetFileComments handles the get_file_comments tool invocation
func (s *Server) handleGetFileComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	filename, ok := args["filename"].(string)
	if !ok || filename == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "filename parameter is required", map[string]interface{}{
			"param":  "filename",
			"reason": "missing or empty",
		})
	}

	runID, err := s.resolveRun(ctx, getStringDefault(args, "run_id", ""))
	if err != nil {
		return nil, err
	}

	rec, err := s.storage.GetFileRecord(ctx, runID, filename)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeNotFound, "file not found in run", map[string]interface{}{
			"run_id":   runID,
			"filename": filename,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read file record", map[string]interface{}{
			"error": err.Error(),
		})
	}

	out, err := yaml.Marshal(rec)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to encode file record", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleSearchDeclarations handles the search_declarations tool invocation
func (s *Server) handleSearchDeclarations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	runID, err := s.resolveRun(ctx, getStringDefault(args, "run_id", ""))
	if err != nil {
		return nil, err
	}

	matches, err := s.storage.SearchDecls(ctx, runID, query, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		r := map[string]interface{}{
			"filename": m.Filename,
			"name":     m.QualifiedName,
		}
		if m.Comment != nil {
			r["text"] = m.Comment.PlainText()
		}
		results = append(results, r)
	}

	response := map[string]interface{}{
		"run_id":  runID,
		"query":   query,
		"count":   len(results),
		"results": results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListRuns handles the list_runs tool invocation
func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	runs, err := s.storage.ListRuns(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list runs", map[string]interface{}{
			"error": err.Error(),
		})
	}

	out := make([]map[string]interface{}, 0, len(runs))
	for _, r := range runs {
		out = append(out, map[string]interface{}{
			"run_id":     r.ID,
			"created_at": r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			"sources":    len(r.Sources),
			"files":      r.FileCount,
			"decls":      r.DeclCount,
			"comments":   r.CommentCount,
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"runs": out})), nil
}

// resolveRun returns runID, or the latest run when it is empty
func (s *Server) resolveRun(ctx context.Context, runID string) (string, error) {
	var (
		run *storage.Run
		err error
	)
	if runID == "" {
		run, err = s.storage.LatestRun(ctx)
	} else {
		run, err = s.storage.GetRun(ctx, runID)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return "", newMCPError(ErrorCodeNotFound, "run not found", map[string]interface{}{
			"run_id":  runID,
			"message": "Use extract_comments to create a run.",
		})
	}
	if err != nil {
		return "", newMCPError(ErrorCodeInternalError, "failed to read run", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return run.ID, nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks that a source path is absolute and readable
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts an optional list of strings. JSON arrays arrive as
// []interface{}.
func getStringSlice(args map[string]interface{}, key string) ([]string, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must contain only strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s must be a list of strings", key)
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
)
