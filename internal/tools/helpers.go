// Package tools implements the MCP tool adapters for the ZenTao query
// engine.
//
// Each tool follows the same pattern:
//   - A struct with its dependencies (query.Engine) injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() validates arguments, runs the resolve→compose→project
//     pipeline, and renders the result
//
// Every tool renders two representations of the same record slice, a
// human-readable listing and a structured payload, via
// mcp.NewToolResultStructured, so the two cannot diverge.
package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// idArg extracts an optional numeric id argument. Missing, non-numeric
// and zero all mean "no constraint": ZenTao stores 0 for "none", so a
// zero id never identifies a row.
func idArg(req mcp.CallToolRequest, key string) *int64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok || v == 0 {
		return nil
	}
	n := int64(v)
	return &n
}

// orNone renders a nullable label for the text listing.
func orNone(s *string) string {
	if s == nil {
		return "(none)"
	}
	return *s
}
