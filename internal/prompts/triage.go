// Package prompts implements the MCP prompts shipped with the server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// TriagePrompt handles the bug-triage MCP prompt. It walks the AI
// through the query tools in the order the pipeline expects them to be
// used: orient on products and people first, then narrow into bugs.
type TriagePrompt struct{}

// NewTriagePrompt creates a TriagePrompt.
func NewTriagePrompt() *TriagePrompt {
	return &TriagePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *TriagePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("bug-triage",
		mcp.WithPromptDescription(
			"Survey the open bugs of a product and summarize who is blocked on what. "+
				"Uses list_products, list_users and get_bugs.",
		),
		mcp.WithArgument("product",
			mcp.ArgumentDescription("Product name to triage; omit to survey all products"),
		),
	)
}

// Handle processes the bug-triage prompt request.
func (p *TriagePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	product := req.Params.Arguments["product"]

	instructions := "Please triage the current bugs:\n\n" +
		"1. Run `list_products` to see what exists"
	if product != "" {
		instructions = "Please triage the current bugs of product \"" + product + "\":\n\n" +
			"1. Run `list_products` and find the product's id"
	}
	instructions += "\n" +
		"2. Run `get_bugs` with status \"active\" (add product_id if one product is in scope)\n" +
		"3. Group the bugs by assigned person (the assigned_to_name field)\n" +
		"4. Flag bugs with severity 1 or 2 first, then priority 1\n" +
		"5. Summarize per person: what they are assigned and what looks stuck"

	return &mcp.GetPromptResult{
		Description: "Bug triage walkthrough",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(instructions),
			},
		},
	}, nil
}
