// Package mcp implements the Model Context Protocol (MCP) server for cdoc.
//
// The server exposes the comment extractor to AI coding assistants. Every
// extraction is stored as a run in SQLite, so later calls can read or search
// the collected comments without reparsing:
//   - extract_comments: Parse sources and store their comments as a new run
//   - get_file_comments: Return one file's records from a run as YAML
//   - search_declarations: Find declarations by qualified name or comment text
//   - list_runs: List stored runs, newest first
//
// # Basic Usage
//
// The server is started via the serve command and speaks JSON-RPC 2.0 on
// stdin and stdout:
//
//	cdoc serve --db ~/.cdoc/cdoc.db
//
// # Tool: extract_comments
//
//	Request:
//	{
//	  "name": "extract_comments",
//	  "arguments": {
//	    "sources": ["/path/to/project/src"],
//	    "doxygen": true,
//	    "include_dirs": ["/path/to/project/include"]
//	  }
//	}
//
//	Response:
//	{
//	  "run_id": "5b0e7c1e-...",
//	  "translation_units": 12,
//	  "files": 31,
//	  "decls": 408,
//	  "comments": 377,
//	  "duration_ms": 184
//	}
//
// Only one extraction runs at a time. A concurrent call fails with
// -32002 instead of queueing.
//
// # Tool: search_declarations
//
//	Request:
//	{
//	  "name": "search_declarations",
//	  "arguments": {"query": "allocator", "limit": 5}
//	}
//
// The query is a case-insensitive substring. run_id defaults to the latest
// run for both search_declarations and get_file_comments.
//
// # Error Handling
//
// Handlers return *MCPError values carrying a JSON-RPC code and a data map:
//   - -32602: Invalid params
//   - -32603: Internal error (database, filesystem)
//   - -32001: Source path does not exist
//   - -32002: Extraction in progress
//   - -32003: Run or file not found
//   - -32004: Empty query
//   - -32005: A translation unit failed to parse
//
// # Logging
//
// stdout carries the protocol, so the server logs to stderr only.
package mcp
