package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zentaolab/zentao-mcp/internal/query"
)

// BugsTool handles the get_bugs MCP tool.
type BugsTool struct {
	engine *query.Engine
}

// NewBugsTool creates a BugsTool.
func NewBugsTool(engine *query.Engine) *BugsTool {
	return &BugsTool{engine: engine}
}

// bugFilters echoes the effective filter set back to the caller.
// Absent filters are null, and limit is the value actually applied
// after clamping.
type bugFilters struct {
	Limit        int     `json:"limit"`
	ProductID    *int64  `json:"product_id"`
	ProjectID    *int64  `json:"project_id"`
	Status       *string `json:"status"`
	UserRealname *string `json:"user_realname"`
}

// bugsResult is the structured payload for get_bugs.
type bugsResult struct {
	Bugs      []query.BugRecord `json:"bugs"`
	TotalBugs int               `json:"total_bugs"`
	Filters   bugFilters        `json:"filters"`
}

// Definition returns the MCP tool definition for get_bugs.
func (t *BugsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_bugs",
		mcp.WithDescription(
			"List bugs from the ZenTao system with optional filters. Each bug carries "+
				"its product/project/module names and the real names of everyone involved.",
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Max records to return (default %d, cap %d)",
				query.DefaultLimit, query.MaxLimit)),
		),
		mcp.WithNumber("product_id",
			mcp.Description("Filter by product id"),
		),
		mcp.WithNumber("project_id",
			mcp.Description("Filter by project id"),
		),
		mcp.WithString("status",
			mcp.Description("Filter by bug status (e.g. active, resolved, closed)"),
		),
		mcp.WithString("user_realname",
			mcp.Description("Filter by a person's real name; matches bugs the person "+
				"opened, is assigned, resolved or closed"),
		),
	)
}

// Handle processes the get_bugs tool call.
func (t *BugsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := query.ClampLimit(intArg(req, "limit", query.DefaultLimit))
	f := query.FilterSet{
		ProductID: idArg(req, "product_id"),
		ProjectID: idArg(req, "project_id"),
		Status:    req.GetString("status", ""),
		Limit:     limit,
	}

	realname := req.GetString("user_realname", "")

	echo := bugFilters{
		Limit:     limit,
		ProductID: f.ProductID,
		ProjectID: f.ProjectID,
	}
	if f.Status != "" {
		echo.Status = &f.Status
	}
	if realname != "" {
		echo.UserRealname = &realname
	}

	// Stage one: resolve the display name to the account key the joins
	// use. A miss short-circuits to an empty result; it is not an
	// error, and it must never fall through to an unfiltered query.
	if realname != "" {
		account, err := t.engine.ResolvePerson(ctx, realname)
		switch {
		case errors.Is(err, query.ErrBlankName):
			return mcp.NewToolResultError("'user_realname' must not be blank"), nil
		case errors.Is(err, query.ErrNotFound):
			return mcp.NewToolResultStructured(bugsResult{
				Bugs:      []query.BugRecord{},
				TotalBugs: 0,
				Filters:   echo,
			}, fmt.Sprintf("No user named %q; no bugs to report.", realname)), nil
		case err != nil:
			return mcp.NewToolResultError(fmt.Sprintf("resolving user: %v", err)), nil
		}
		f.PersonKey = account
	}

	// Stage two: the composed query.
	bugs, err := t.engine.Bugs(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing bugs: %v", err)), nil
	}
	if bugs == nil {
		bugs = []query.BugRecord{}
	}

	return mcp.NewToolResultStructured(bugsResult{
		Bugs:      bugs,
		TotalBugs: len(bugs),
		Filters:   echo,
	}, renderBugs(bugs, echo)), nil
}

// renderBugs builds the human-readable listing from the same canonical
// records the structured payload carries.
func renderBugs(bugs []query.BugRecord, f bugFilters) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ZenTao bugs (%d):\n", len(bugs))

	var active []string
	if f.ProductID != nil {
		active = append(active, fmt.Sprintf("product id %d", *f.ProductID))
	}
	if f.ProjectID != nil {
		active = append(active, fmt.Sprintf("project id %d", *f.ProjectID))
	}
	if f.Status != nil {
		active = append(active, fmt.Sprintf("status %q", *f.Status))
	}
	if f.UserRealname != nil {
		active = append(active, fmt.Sprintf("involving %q", *f.UserRealname))
	}
	active = append(active, fmt.Sprintf("limit %d", f.Limit))
	fmt.Fprintf(&b, "Filters: %s\n", strings.Join(active, ", "))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for i, bug := range bugs {
		fmt.Fprintf(&b, "Bug %d:\n", i+1)
		fmt.Fprintf(&b, "  id: %d\n", bug.ID)
		fmt.Fprintf(&b, "  title: %s\n", bug.Title)
		fmt.Fprintf(&b, "  product: %s (id %d)\n", orNone(bug.ProductName), bug.Product)
		fmt.Fprintf(&b, "  project: %s (id %d)\n", orNone(bug.ProjectName), bug.Project)
		fmt.Fprintf(&b, "  module: %s (id %d)\n", orNone(bug.ModuleName), bug.Module)
		fmt.Fprintf(&b, "  severity: %d  priority: %d  status: %s\n", bug.Severity, bug.Pri, bug.Status)
		fmt.Fprintf(&b, "  opened by: %s (%s) - %s\n", orNone(bug.OpenedByName), bug.OpenedBy, orNone(bug.OpenedDate))
		if bug.AssignedTo != "" {
			fmt.Fprintf(&b, "  assigned to: %s (%s) - %s\n", orNone(bug.AssignedToName), bug.AssignedTo, orNone(bug.AssignedDate))
		}
		if bug.ResolvedBy != "" {
			fmt.Fprintf(&b, "  resolved by: %s (%s) - %s\n", orNone(bug.ResolvedByName), bug.ResolvedBy, orNone(bug.ResolvedDate))
		}
		if bug.ClosedBy != "" {
			fmt.Fprintf(&b, "  closed by: %s (%s) - %s\n", orNone(bug.ClosedByName), bug.ClosedBy, orNone(bug.ClosedDate))
		}
		if bug.Steps != "" {
			steps := bug.Steps
			if len(steps) > 200 {
				steps = steps[:200] + "..."
			}
			fmt.Fprintf(&b, "  steps: %s\n", steps)
		}
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}
	return b.String()
}
