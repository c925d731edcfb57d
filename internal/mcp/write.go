package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dukerupert/kinobi/internal/instance"
	"github.com/dukerupert/kinobi/internal/metrics"
	"github.com/dukerupert/kinobi/internal/store"
)

// RegisterWriteTools adds the tools that modify a sync space.
func RegisterWriteTools(s *server.MCPServer, st store.InstanceStore, m *metrics.Metrics, now func() time.Time) {
	s.AddTool(tendTool(), tendHandler(st, m, now))
}

// --- tend ---

func tendTool() mcp.Tool {
	return mcp.NewTool("tend",
		mcp.WithDescription("Record that a tender completed a chore now. The chore's due date moves one cycle ahead and the tender earns its points."),
		syncIDParam(),
		mcp.WithString("tender",
			mcp.Description("Name of the person who did the chore"),
			mcp.Required(),
		),
		mcp.WithString("chore_id",
			mcp.Description("Chore id as shown by list_chores"),
			mcp.Required(),
		),
		mcp.WithString("notes",
			mcp.Description("Optional free-text note"),
		),
	)
}

func tendHandler(st store.InstanceStore, m *metrics.Metrics, now func() time.Time) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		syncID := strings.TrimSpace(req.GetString("sync_id", ""))
		inst, err := load(ctx, st, req)
		if err != nil {
			return toolError(err)
		}

		in := instance.TendInput{
			Tender:  req.GetString("tender", ""),
			ChoreID: req.GetString("chore_id", ""),
		}
		if notes := req.GetString("notes", ""); notes != "" {
			in.Notes = &notes
		}
		entry, err := instance.Tend(inst, in, now())
		if err != nil {
			return toolError(err)
		}
		if err := st.Save(ctx, syncID, inst); err != nil {
			return toolError(fmt.Errorf("save: %w", err))
		}
		m.TendRecorded()

		return mcp.NewToolResultText(fmt.Sprintf("Recorded %s (%s tended %s)", entry.ID, entry.Person, entry.ChoreID)), nil
	}
}
