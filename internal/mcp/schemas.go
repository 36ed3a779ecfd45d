package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// extractCommentsTool returns the tool definition for extract_comments
func extractCommentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "extract_comments",
		Description: "Extract the documentation comments of C, C++ or Go sources and store them as a run",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sources": map[string]interface{}{
					"type":        "array",
					"description": "Absolute paths of source files or directories to document",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"doxygen": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, only Doxygen-style comments (///, //!, /**, /*!) are collected",
					"default":     false,
				},
				"include_dirs": map[string]interface{}{
					"type":        "array",
					"description": "Additional user include directories for C and C++ sources",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"sources"},
		},
	}
}

// getFileCommentsTool returns the tool definition for get_file_comments
func getFileCommentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_file_comments",
		Description: "Return the structured comments collected for one file, as YAML",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"filename": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path of the file as it was collected",
				},
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run to read from (default: the latest run)",
				},
			},
			Required: []string{"filename"},
		},
	}
}

// searchDeclarationsTool returns the tool definition for search_declarations
func searchDeclarationsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_declarations",
		Description: "Find documented declarations whose qualified name or comment text contains a query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive substring to look for",
				},
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run to search (default: the latest run)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// listRunsTool returns the tool definition for list_runs
func listRunsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_runs",
		Description: "List stored extraction runs, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of runs to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}
