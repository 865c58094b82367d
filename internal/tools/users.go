package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zentaolab/zentao-mcp/internal/query"
)

// UsersTool handles the list_users MCP tool.
type UsersTool struct {
	engine *query.Engine
}

// NewUsersTool creates a UsersTool.
func NewUsersTool(engine *query.Engine) *UsersTool {
	return &UsersTool{engine: engine}
}

// usersResult is the structured payload for list_users.
type usersResult struct {
	Users      []query.UserRecord `json:"users"`
	TotalUsers int                `json:"total_users"`
}

// Definition returns the MCP tool definition for list_users.
func (t *UsersTool) Definition() mcp.Tool {
	return mcp.NewTool("list_users",
		mcp.WithDescription(
			"List the users in the ZenTao system: account, real name and role. "+
				"The account is the key bug and project person fields reference.",
		),
	)
}

// Handle processes the list_users tool call.
func (t *UsersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	users, err := t.engine.Users(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing users: %v", err)), nil
	}
	if users == nil {
		users = []query.UserRecord{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ZenTao users (%d):\n\n", len(users))
	for i, u := range users {
		fmt.Fprintf(&b, "User %d:\n", i+1)
		fmt.Fprintf(&b, "  account: %s\n", u.Account)
		fmt.Fprintf(&b, "  name: %s\n", u.Realname)
		fmt.Fprintf(&b, "  role: %s\n", u.Role)
		b.WriteString(strings.Repeat("-", 30) + "\n")
	}

	return mcp.NewToolResultStructured(usersResult{
		Users:      users,
		TotalUsers: len(users),
	}, b.String()), nil
}
