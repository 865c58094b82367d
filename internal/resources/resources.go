// Package resources implements MCP resource handlers.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (zentao://...) following MCP
// conventions. The schema resource describes the entities behind the
// query tools so an agent can plan filter combinations without trial
// calls.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zentaolab/zentao-mcp/internal/schema"
)

// Handler manages the ZenTao resource endpoints.
type Handler struct{}

// NewHandler creates a resource Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// entityInfo is the serialized description of one queryable entity.
type entityInfo struct {
	Entity       string   `json:"entity"`
	Table        string   `json:"table"`
	PersonFields []string `json:"person_fields,omitempty"`
}

// SchemaResource returns the MCP resource definition for the entity schema.
func (h *Handler) SchemaResource() mcp.Resource {
	return mcp.NewResource(
		"zentao://schema",
		"ZenTao Entity Schema",
		mcp.WithResourceDescription("The entities and join keys behind the query tools"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSchema returns the entity schema as JSON.
func (h *Handler) HandleSchema(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	kinds := []schema.EntityKind{
		schema.Product, schema.Project, schema.Bug, schema.Module, schema.User,
	}
	entities := make([]entityInfo, 0, len(kinds))
	for _, k := range kinds {
		entities = append(entities, entityInfo{
			Entity:       k.String(),
			Table:        k.Table(),
			PersonFields: schema.PersonFields(k),
		})
	}

	payload := map[string]any{
		"entities":          entities,
		"association_table": schema.LinkTable,
		"soft_delete":       schema.NotDeleted,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
