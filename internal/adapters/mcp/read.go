package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tourtags/internal/application"
	"tourtags/internal/application/commands"
	"tourtags/internal/application/tagtree"
	"tourtags/internal/format"
)

const maxTreeDepth = 4

// RegisterReadTools adds the tree browsing tools to the MCP server. Every
// handler runs on the session's goroutine.
func RegisterReadTools(s *server.MCPServer, session *tagtree.Session) {
	s.AddTool(childrenTool(), childrenHandler(session))
	s.AddTool(treeTool(), treeHandler(session))
	s.AddTool(nodeStatsTool(), nodeStatsHandler(session))
	s.AddTool(tourIDsTool(), tourIDsHandler(session))
}

// --- children ---

func childrenTool() mcp.Tool {
	return mcp.NewTool("children",
		mcp.WithDescription("List the children of a tree node with their statistics. Without a key lists the root level (categories and root tags)."),
		mcp.WithString("key",
			mcp.Description("Node key as printed by the tools (e.g. category:5, tag:3, year:3/2022, month:3/2022-04). Omit for the root."),
		),
	)
}

func childrenHandler(session *tagtree.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := application.ParseKey(req.GetString("key", ""))
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		err = withNode(ctx, session, key, func(tree *tagtree.Tree, id tagtree.NodeID) {
			for _, child := range tree.FetchChildren(ctx, id) {
				writeRow(&sb, tree, child, "")
			}
		})
		if err != nil {
			return toolError(err)
		}
		if sb.Len() == 0 {
			return mcp.NewToolResultText("No children."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display a subtree with statistics, fetching levels as needed."),
		mcp.WithString("key",
			mcp.Description("Node key of the subtree root. Omit for the whole tree."),
		),
		mcp.WithNumber("depth",
			mcp.Description(fmt.Sprintf("Number of levels to show (1-%d, default 2)", maxTreeDepth)),
		),
	)
}

func treeHandler(session *tagtree.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := application.ParseKey(req.GetString("key", ""))
		if err != nil {
			return toolError(err)
		}
		depth := min(max(req.GetInt("depth", 2), 1), maxTreeDepth)

		var sb strings.Builder
		err = withNode(ctx, session, key, func(tree *tagtree.Tree, id tagtree.NodeID) {
			renderTree(ctx, &sb, tree, id, "", depth)
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(ctx context.Context, sb *strings.Builder, tree *tagtree.Tree, id tagtree.NodeID, prefix string, depth int) {
	if depth == 0 {
		return
	}
	for _, child := range tree.FetchChildren(ctx, id) {
		writeRow(sb, tree, child, prefix)
		renderTree(ctx, sb, tree, child, prefix+"  ", depth-1)
	}
}

// --- node_stats ---

func nodeStatsTool() mcp.Tool {
	return mcp.NewTool("node_stats",
		mcp.WithDescription("Show every statistic of one node: distance, times, speed, pace, altitude and tour count."),
		mcp.WithString("key",
			mcp.Description("Node key (e.g. tag:3, year:3/2022, tour:42)"),
			mcp.Required(),
		),
	)
}

func nodeStatsHandler(session *tagtree.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := req.GetString("key", "")
		if raw == "" {
			return toolError(fmt.Errorf("key is required"))
		}
		key, err := application.ParseKey(raw)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		err = withNode(ctx, session, key, func(tree *tagtree.Tree, id tagtree.NodeID) {
			v, _ := tree.Node(id)
			fmt.Fprintf(&sb, "%s  %s\n", v.Key, format.Label(v))
			for _, row := range format.Details(v.Stats) {
				fmt.Fprintf(&sb, "  %-16s %s\n", row[0], row[1])
			}
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- tour_ids ---

func tourIDsTool() mcp.Tool {
	return mcp.NewTool("tour_ids",
		mcp.WithDescription("Collect the ids of all tours below the given nodes, deduplicated and sorted."),
		mcp.WithString("keys",
			mcp.Description("Comma or space separated node keys (e.g. \"tag:3, year:4/2021\")"),
			mcp.Required(),
		),
	)
}

func tourIDsHandler(session *tagtree.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keys, err := parseKeys(req.GetString("keys", ""))
		if err != nil {
			return toolError(err)
		}

		var result *commands.CollectToursResult
		var cmdErr error
		err = session.Do(ctx, func(tree *tagtree.Tree) {
			result, cmdErr = commands.NewCollectToursCommand(tree, keys).Execute(ctx)
		})
		if err == nil {
			err = cmdErr
		}
		if err != nil {
			return toolError(err)
		}

		ids := make([]string, len(result.TourIDs))
		for i, id := range result.TourIDs {
			ids[i] = fmt.Sprint(id)
		}
		text := result.Message + "\n" + strings.Join(ids, ",")
		for _, key := range result.Missing {
			text += fmt.Sprintf("\nnot found: %s", key)
		}
		return mcp.NewToolResultText(text), nil
	}
}

// --- helpers ---

// withNode resolves key on the session goroutine and runs fn with its node.
func withNode(ctx context.Context, session *tagtree.Session, key application.Key, fn func(*tagtree.Tree, tagtree.NodeID)) error {
	var notFound error
	err := session.Do(ctx, func(tree *tagtree.Tree) {
		id, ok := tree.Locate(ctx, key)
		if !ok {
			notFound = &application.NodeNotFoundError{Key: key}
			return
		}
		fn(tree, id)
	})
	if err != nil {
		return err
	}
	return notFound
}

func writeRow(sb *strings.Builder, tree *tagtree.Tree, id tagtree.NodeID, prefix string) {
	v, ok := tree.Node(id)
	if !ok {
		return
	}
	fmt.Fprintf(sb, "%s%s  %s  %s\n", prefix, v.Key, format.Label(v), format.Summary(v))
}

func parseKeys(s string) ([]application.Key, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one key is required")
	}
	keys := make([]application.Key, 0, len(fields))
	for _, f := range fields {
		key, err := application.ParseKey(f)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
