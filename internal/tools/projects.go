package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zentaolab/zentao-mcp/internal/query"
)

// ProjectsTool handles the get_projects_by_product MCP tool.
//
// The pipeline is two-stage: an exact-match product name lookup, then
// the association-joined project query. A name with no match is a
// user-visible not-found condition, distinct from a product that exists
// but has zero linked projects.
type ProjectsTool struct {
	engine *query.Engine
}

// NewProjectsTool creates a ProjectsTool.
func NewProjectsTool(engine *query.Engine) *ProjectsTool {
	return &ProjectsTool{engine: engine}
}

// projectsResult is the structured payload for get_projects_by_product.
type projectsResult struct {
	Product       query.ProductRecord   `json:"product"`
	Projects      []query.ProjectRecord `json:"projects"`
	TotalProjects int                   `json:"total_projects"`
}

// Definition returns the MCP tool definition for get_projects_by_product.
func (t *ProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_projects_by_product",
		mcp.WithDescription(
			"List the projects linked to a product, looked up by exact product name. "+
				"Returns the product record plus its projects with dates, status and leads.",
		),
		mcp.WithString("product_name",
			mcp.Required(),
			mcp.Description("Exact product name (case-sensitive)"),
		),
	)
}

// Handle processes the get_projects_by_product tool call.
func (t *ProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("product_name", "")
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("'product_name' is required and must not be blank"), nil
	}

	product, err := t.engine.ResolveProduct(ctx, name)
	if errors.Is(err, query.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no product named %q", name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolving product: %v", err)), nil
	}

	projects, err := t.engine.ProjectsByProduct(ctx, *product)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing projects: %v", err)), nil
	}
	if projects == nil {
		projects = []query.ProjectRecord{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product %q:\n", product.Name)
	fmt.Fprintf(&b, "  id: %d\n", product.ID)
	fmt.Fprintf(&b, "  code: %s\n", product.Code)
	fmt.Fprintf(&b, "  product owner: %s\n", product.PO)
	fmt.Fprintf(&b, "  QA lead: %s\n", product.QD)
	b.WriteString("\n" + strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Linked projects (%d):\n\n", len(projects))

	for i, p := range projects {
		fmt.Fprintf(&b, "Project %d:\n", i+1)
		fmt.Fprintf(&b, "  id: %d\n", p.ID)
		fmt.Fprintf(&b, "  name: %s\n", p.Name)
		fmt.Fprintf(&b, "  code: %s\n", p.Code)
		fmt.Fprintf(&b, "  begin: %s\n", orNone(p.Begin))
		fmt.Fprintf(&b, "  end: %s\n", orNone(p.End))
		fmt.Fprintf(&b, "  status: %s\n", p.Status)
		fmt.Fprintf(&b, "  product owner: %s\n", p.PO)
		fmt.Fprintf(&b, "  project manager: %s\n", p.PM)
		fmt.Fprintf(&b, "  QA lead: %s\n", p.QD)
		b.WriteString(strings.Repeat("-", 40) + "\n")
	}

	return mcp.NewToolResultStructured(projectsResult{
		Product:       *product,
		Projects:      projects,
		TotalProjects: len(projects),
	}, b.String()), nil
}
