package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zentaolab/zentao-mcp/internal/query"
)

// ProductsTool handles the list_products MCP tool.
type ProductsTool struct {
	engine *query.Engine
}

// NewProductsTool creates a ProductsTool.
func NewProductsTool(engine *query.Engine) *ProductsTool {
	return &ProductsTool{engine: engine}
}

// productsResult is the structured payload for list_products.
type productsResult struct {
	Products      []query.ProductRecord `json:"products"`
	TotalProducts int                   `json:"total_products"`
}

// Definition returns the MCP tool definition for list_products.
func (t *ProductsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_products",
		mcp.WithDescription(
			"List the products in the ZenTao system, including product id, name, "+
				"code, product owner and QA lead.",
		),
	)
}

// Handle processes the list_products tool call.
func (t *ProductsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	products, err := t.engine.Products(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing products: %v", err)), nil
	}
	if products == nil {
		products = []query.ProductRecord{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ZenTao products (%d):\n\n", len(products))
	for _, p := range products {
		fmt.Fprintf(&b, "Product %d: %s\n", p.ID, p.Name)
		fmt.Fprintf(&b, "  code: %s\n", p.Code)
		fmt.Fprintf(&b, "  product owner: %s\n", p.PO)
		fmt.Fprintf(&b, "  QA lead: %s\n", p.QD)
		fmt.Fprintf(&b, "  created by: %s", p.CreatedBy)
		if p.CreatedDate != nil {
			fmt.Fprintf(&b, " on %s", *p.CreatedDate)
		}
		b.WriteString("\n" + strings.Repeat("-", 40) + "\n")
	}

	return mcp.NewToolResultStructured(productsResult{
		Products:      products,
		TotalProducts: len(products),
	}, b.String()), nil
}
