package main

import (
	"context"

	"github.com/spf13/cobra"

	"chatline/internal/mcp"
	"chatline/internal/session"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	p, err := loadProject()
	if err != nil {
		return err
	}

	st, err := openStore(ctx, p.cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	manager := session.NewManager(st, p.scripts.Scripts, &p.cfg.Tables, p.log)
	p.log.Info().Int("senders", len(manager.Senders())).Msg("serving over stdio")

	server := mcp.NewServer(manager, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
