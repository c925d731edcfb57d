package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dukerupert/kinobi/internal/config"
	"github.com/dukerupert/kinobi/internal/logging"
	kinobimcp "github.com/dukerupert/kinobi/internal/mcp"
	"github.com/dukerupert/kinobi/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $KINOBI_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// stdout carries the protocol; logs go to stderr.
	logger := logging.Setup(cfg.LogLevel)

	st, db, err := store.Open(cfg, logger.With("component", "store"), nil)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	mcpServer := server.NewMCPServer(
		"kinobi-mcp",
		cfg.AppVersion,
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	kinobimcp.RegisterReadTools(mcpServer, st, time.Now)
	kinobimcp.RegisterWriteTools(mcpServer, st, nil, time.Now)

	if err := server.ServeStdio(mcpServer); err != nil {
		slog.Error("kinobi-mcp", "error", err)
		os.Exit(1)
	}
}
