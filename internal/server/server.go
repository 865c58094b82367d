// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it opens the store, builds the query
// engine, and injects it into the tools. No business logic lives here,
// only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/zentaolab/zentao-mcp/internal/config"
	"github.com/zentaolab/zentao-mcp/internal/prompts"
	"github.com/zentaolab/zentao-mcp/internal/query"
	"github.com/zentaolab/zentao-mcp/internal/resources"
	"github.com/zentaolab/zentao-mcp/internal/store"
	"github.com/zentaolab/zentao-mcp/internal/tools"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the store's database connection
// and must be called on shutdown (typically via defer).
func New(cfg *config.Config, log *zap.Logger) (*server.MCPServer, func(), error) {
	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, noop, fmt.Errorf("opening store: %w", err)
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Warn("store close", zap.Error(err))
		}
	}

	engine := query.New(db, log)

	s := server.NewMCPServer(
		"zentao-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register query tools ---

	productsTool := tools.NewProductsTool(engine)
	s.AddTool(productsTool.Definition(), productsTool.Handle)

	projectsTool := tools.NewProjectsTool(engine)
	s.AddTool(projectsTool.Definition(), projectsTool.Handle)

	bugsTool := tools.NewBugsTool(engine)
	s.AddTool(bugsTool.Definition(), bugsTool.Handle)

	usersTool := tools.NewUsersTool(engine)
	s.AddTool(usersTool.Definition(), usersTool.Handle)

	modulesTool := tools.NewModulesTool(engine)
	s.AddTool(modulesTool.Definition(), modulesTool.Handle)

	// --- Register prompts ---

	triagePrompt := prompts.NewTriagePrompt()
	s.AddPrompt(triagePrompt.Definition(), triagePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler()
	s.AddResource(resourceHandler.SchemaResource(), resourceHandler.HandleSchema)

	return s, cleanup, nil
}

// noop is the cleanup returned when the store never opened.
func noop() {}

func serverInstructions() string {
	return `This server exposes read-only queries against a ZenTao project
management database: products, projects, bugs, users and functional modules.

Usage notes:
- All lookups by name (product_name, user_realname) are exact and
  case-sensitive. Run list_products or list_users first if unsure.
- get_bugs filters combine with AND; user_realname matches bugs the person
  opened, is assigned, resolved or closed.
- Results are ordered by id ascending and capped at 200 records per call.
- Soft-deleted records never appear. Nothing here can modify the system.`
}
