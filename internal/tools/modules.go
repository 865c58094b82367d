package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zentaolab/zentao-mcp/internal/query"
)

// ModulesTool handles the list_modules MCP tool.
type ModulesTool struct {
	engine *query.Engine
}

// NewModulesTool creates a ModulesTool.
func NewModulesTool(engine *query.Engine) *ModulesTool {
	return &ModulesTool{engine: engine}
}

// modulesResult is the structured payload for list_modules.
type modulesResult struct {
	Modules      []query.ModuleRecord `json:"modules"`
	TotalModules int                  `json:"total_modules"`
	ProductID    *int64               `json:"product_id"`
}

// Definition returns the MCP tool definition for list_modules.
func (t *ModulesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_modules",
		mcp.WithDescription(
			"List the functional modules in the ZenTao system, optionally restricted "+
				"to one product. Each module names its owning product id.",
		),
		mcp.WithNumber("product_id",
			mcp.Description("Filter by owning product id"),
		),
	)
}

// Handle processes the list_modules tool call.
func (t *ModulesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	productID := idArg(req, "product_id")

	modules, err := t.engine.Modules(ctx, productID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing modules: %v", err)), nil
	}
	if modules == nil {
		modules = []query.ModuleRecord{}
	}

	var b strings.Builder
	if productID != nil {
		fmt.Fprintf(&b, "Modules of product %d (%d):\n\n", *productID, len(modules))
	} else {
		fmt.Fprintf(&b, "Modules (%d):\n\n", len(modules))
	}
	for i, m := range modules {
		fmt.Fprintf(&b, "Module %d:\n", i+1)
		fmt.Fprintf(&b, "  id: %d\n", m.ID)
		fmt.Fprintf(&b, "  name: %s\n", m.Name)
		fmt.Fprintf(&b, "  product id: %d\n", m.Root)
		b.WriteString(strings.Repeat("-", 30) + "\n")
	}

	return mcp.NewToolResultStructured(modulesResult{
		Modules:      modules,
		TotalModules: len(modules),
		ProductID:    productID,
	}, b.String()), nil
}
