// Package mcp provides an MCP (Model Context Protocol) server adapter for fieldmap.
// It lets AI assistants map catalog items and inspect templates.
package mcp

import "errors"

// ErrMissingMappingService is returned when the mapping service is not provided.
var ErrMissingMappingService = errors.New("mcp: mapping service is required")
