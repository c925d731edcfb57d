// Package mcp exposes sync spaces as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dukerupert/kinobi/internal/chore"
	"github.com/dukerupert/kinobi/internal/instance"
	"github.com/dukerupert/kinobi/internal/model"
	"github.com/dukerupert/kinobi/internal/scoring"
	"github.com/dukerupert/kinobi/internal/store"
)

// RegisterReadTools adds the read-only tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, st store.InstanceStore, now func() time.Time) {
	s.AddTool(listChoresTool(), listChoresHandler(st, now))
	s.AddTool(leaderboardTool(), leaderboardHandler(st, now))
	s.AddTool(historyTool(), historyHandler(st))
}

func syncIDParam() mcp.ToolOption {
	return mcp.WithString("sync_id",
		mcp.Description("Sync space identifier"),
		mcp.Required(),
	)
}

// --- list_chores ---

func listChoresTool() mcp.Tool {
	return mcp.NewTool("list_chores",
		mcp.WithDescription("List the chores of a sync space with their current due state (good, warning, urgent, overdue) and time remaining."),
		syncIDParam(),
	)
}

func listChoresHandler(st store.InstanceStore, now func() time.Time) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		inst, err := load(ctx, st, req)
		if err != nil {
			return toolError(err)
		}
		t := now()
		return formatEntities(inst.Chores, func(c model.Chore) string {
			ds := chore.ComputeDueState(c, inst.Config, t)
			return fmt.Sprintf("%s  %s %s  %s  %s  (%d pts, every %gh)",
				c.ID, c.Icon, c.Name, ds.Status, chore.FormatRemaining(ds.Remaining), c.Points, c.CycleDuration)
		})
	}
}

// --- leaderboard ---

func leaderboardTool() mcp.Tool {
	return mcp.NewTool("leaderboard",
		mcp.WithDescription("Rank the tenders of a sync space by points earned."),
		syncIDParam(),
		mcp.WithString("period",
			mcp.Description("Time window"),
			mcp.Enum("all", "7d", "30d"),
		),
		mcp.WithString("sort",
			mcp.Description("Ranking key"),
			mcp.Enum("points", "completions", "average"),
		),
	)
}

func leaderboardHandler(st store.InstanceStore, now func() time.Time) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		period, err := scoring.ParsePeriod(req.GetString("period", ""))
		if err != nil {
			return toolError(err)
		}
		sortKey, err := scoring.ParseSortKey(req.GetString("sort", ""))
		if err != nil {
			return toolError(err)
		}
		inst, err := load(ctx, st, req)
		if err != nil {
			return toolError(err)
		}
		board := scoring.Leaderboard(inst, scoring.Options{Period: period, Sort: sortKey}, now())
		return formatEntities(board, func(e model.LeaderboardEntry) string {
			return fmt.Sprintf("#%d %s  %d pts  %d completions", e.Rank, e.Tender.Name, e.Score.TotalPoints, e.Score.CompletionCount)
		})
	}
}

// --- history ---

func historyTool() mcp.Tool {
	return mcp.NewTool("history",
		mcp.WithDescription("Show the most recent completions of a sync space, newest first."),
		syncIDParam(),
		mcp.WithNumber("limit",
			mcp.Description("Maximum entries to return (default 20)"),
		),
	)
}

func historyHandler(st store.InstanceStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		inst, err := load(ctx, st, req)
		if err != nil {
			return toolError(err)
		}
		entries := instance.History(inst)
		if limit := req.GetInt("limit", 20); limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		names := make(map[string]string, len(inst.Chores))
		for _, c := range inst.Chores {
			names[c.ID] = c.Name
		}
		return formatEntities(entries, func(e model.HistoryEntry) string {
			return formatEntry(e, names)
		})
	}
}

func formatEntry(e model.HistoryEntry, choreNames map[string]string) string {
	name, ok := choreNames[e.ChoreID]
	if !ok {
		name = e.ChoreID + " (deleted)"
	}
	line := fmt.Sprintf("%s  %s  %s  %s", e.ID, e.Timestamp.UTC().Format(time.RFC3339), e.Person, name)
	if e.Notes != nil {
		line += "  " + *e.Notes
	}
	return line
}

func load(ctx context.Context, st store.InstanceStore, req mcp.CallToolRequest) (*model.Instance, error) {
	syncID := strings.TrimSpace(req.GetString("sync_id", ""))
	if syncID == "" {
		return nil, fmt.Errorf("sync_id is required")
	}
	return st.Load(ctx, syncID)
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}
