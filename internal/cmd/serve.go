// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/glitchcat/glitchcat/internal/logging"
	"github.com/glitchcat/glitchcat/internal/tool"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalogue parsers as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logging.FromContext(ctx).Info().Str("version", a.version).Msg("Starting MCP server")
			transport := a.transport
			if transport == nil {
				transport = &mcp.StdioTransport{}
			}
			return tool.NewServer(a.version).Run(ctx, transport)
		},
	}
}
