// SPDX-License-Identifier: Apache-2.0

// Package tool exposes the catalogue parsers as MCP tools.
package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/glitchcat/glitchcat/internal/catalogue/parsers"
)

// MetadataListFormats describes the list_catalogue_formats tool.
var MetadataListFormats = &mcp.Tool{
	Name:        "list_catalogue_formats",
	Description: "List the catalogue formats parse_catalogue understands, in detection order.",
	InputSchema: map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	},
}

type InputListFormats struct{}

type OutputListFormats struct {
	Formats []string `json:"formats"`
}

// ListFormats reports the registered parsers.
func ListFormats(_ context.Context, _ *mcp.CallToolRequest, _ InputListFormats) (*mcp.CallToolResult, OutputListFormats, error) {
	return nil, OutputListFormats{Formats: parsers.NewDefaultPipeline(parsers.AppendAlways).RegisteredParsers()}, nil
}

// NewServer builds an MCP server with every catalogue tool registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "glitchcat", Version: version}, nil)
	mcp.AddTool(server, MetadataParseCatalogue, ParseCatalogue)
	mcp.AddTool(server, MetadataListFormats, ListFormats)
	return server
}
