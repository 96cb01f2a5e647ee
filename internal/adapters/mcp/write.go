package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tourtags/internal/application"
	"tourtags/internal/application/commands"
	"tourtags/internal/application/tagtree"
	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// RegisterWriteTools adds the tour and tag editing tools to the MCP server.
// Each commits to store and then posts the resulting event to session so the
// cached tree follows the database.
func RegisterWriteTools(s *server.MCPServer, store ports.TourStore, session *tagtree.Session) {
	s.AddTool(tagToursTool(), tagToursHandler(store, session, true))
	s.AddTool(untagToursTool(), tagToursHandler(store, session, false))
	s.AddTool(deleteToursTool(), deleteToursHandler(store, session))
	s.AddTool(retitleTourTool(), retitleTourHandler(store, session))
	s.AddTool(createTagTool(), createTagHandler(store, session))
	s.AddTool(createCategoryTool(), createCategoryHandler(store, session))
}

// --- tag_tours / untag_tours ---

func tagToursTool() mcp.Tool {
	return mcp.NewTool("tag_tours",
		mcp.WithDescription("Attach a tag to tours. Tours that already carry the tag are left alone."),
		mcp.WithNumber("tag_id",
			mcp.Description("Id of the tag"),
			mcp.Required(),
		),
		mcp.WithString("tour_ids",
			mcp.Description("Comma separated tour ids (see tour_ids)"),
			mcp.Required(),
		),
	)
}

func untagToursTool() mcp.Tool {
	return mcp.NewTool("untag_tours",
		mcp.WithDescription("Remove a tag from tours."),
		mcp.WithNumber("tag_id",
			mcp.Description("Id of the tag"),
			mcp.Required(),
		),
		mcp.WithString("tour_ids",
			mcp.Description("Comma separated tour ids"),
			mcp.Required(),
		),
	)
}

func tagToursHandler(store ports.TourStore, session *tagtree.Session, add bool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tagID := int64(req.GetInt("tag_id", 0))
		tourIDs, err := application.ParseIDList("tourIDs", req.GetString("tour_ids", ""))
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewTagToursCommand(store, tagID, tourIDs)
		if !add {
			cmd = commands.NewUntagToursCommand(store, tagID, tourIDs)
		}
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return publish(ctx, session, result.Message, result.Event)
	}
}

// --- delete_tours ---

func deleteToursTool() mcp.Tool {
	return mcp.NewTool("delete_tours",
		mcp.WithDescription("Delete tours and all their tag links."),
		mcp.WithString("tour_ids",
			mcp.Description("Comma separated tour ids"),
			mcp.Required(),
		),
	)
}

func deleteToursHandler(store ports.TourStore, session *tagtree.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tourIDs, err := application.ParseIDList("tourIDs", req.GetString("tour_ids", ""))
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewDeleteToursCommand(store, tourIDs).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return publish(ctx, session, result.Message, result.Event)
	}
}

// --- retitle_tour ---

func retitleTourTool() mcp.Tool {
	return mcp.NewTool("retitle_tour",
		mcp.WithDescription("Change the title of one tour."),
		mcp.WithNumber("tour_id",
			mcp.Description("Id of the tour"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
			mcp.Required(),
		),
	)
}

func retitleTourHandler(store ports.TourStore, session *tagtree.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tourID := int64(req.GetInt("tour_id", 0))
		title := req.GetString("title", "")

		result, err := commands.NewRetitleTourCommand(store, tourID, title).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return publish(ctx, session, result.Message, result.Event)
	}
}

// --- create_tag ---

func createTagTool() mcp.Tool {
	return mcp.NewTool("create_tag",
		mcp.WithDescription("Create a tag at the root or inside a category. The expand type decides how its tours are grouped."),
		mcp.WithString("name",
			mcp.Description("Tag name"),
			mcp.Required(),
		),
		mcp.WithNumber("category_id",
			mcp.Description("Parent category id. Omit or 0 for a root tag."),
		),
		mcp.WithString("expand_type",
			mcp.Description("How tours are grouped below the tag"),
			mcp.Enum("ymd", "yd", "flat"),
		),
	)
}

func createTagHandler(store ports.TourStore, session *tagtree.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		expandType, err := domain.ParseExpandType(req.GetString("expand_type", "ymd"))
		if err != nil {
			return toolError(err)
		}
		name := req.GetString("name", "")
		categoryID := int64(req.GetInt("category_id", 0))

		result, err := commands.NewCreateTagCommand(store, name, categoryID, expandType).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return publish(ctx, session, result.Message, result.Event)
	}
}

// --- create_category ---

func createCategoryTool() mcp.Tool {
	return mcp.NewTool("create_category",
		mcp.WithDescription("Create a category at the root or inside another category."),
		mcp.WithString("name",
			mcp.Description("Category name"),
			mcp.Required(),
		),
		mcp.WithNumber("parent_id",
			mcp.Description("Parent category id. Omit or 0 for a root category."),
		),
	)
}

func createCategoryHandler(store ports.TourStore, session *tagtree.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("name", "")
		parentID := int64(req.GetInt("parent_id", 0))

		result, err := commands.NewCreateCategoryCommand(store, name, parentID).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return publish(ctx, session, result.Message, result.Event)
	}
}

// publish posts a committed event. The store change stands even when the
// session is gone, so that case is reported alongside the message.
func publish(ctx context.Context, session *tagtree.Session, message string, evt domain.Event) (*mcp.CallToolResult, error) {
	if err := session.Post(ctx, evt); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("%s (tree not updated: %v)", message, err)), nil
	}
	return mcp.NewToolResultText(message), nil
}
