package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `Read-only access to a helpdesk ticketing system: ticket retrieval,
search (bounded, export, enhanced client-side filtering, batch), case volume and search
statistics analytics, relationship and duplicate discovery, SLA policy and breach evaluation,
knowledge base search, and incremental export streams.

Start with search_tickets for small result sets and search_tickets_export when you need more
than 1000 results. build_search_query helps construct query strings from structured filters.
All tools are read-only; nothing mutates the upstream account.`

// Config contains server configuration.
type Config struct {
	Handler *Handler
	Logger  *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and
// middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "helpdesk-mcp",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Handler, cfg.Logger)

	return server
}

// registerTools registers the full tool catalog, routing every call
// through the handler's dispatch.
func registerTools(server *sdkmcp.Server, handler *Handler, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, def := range buildToolCatalog() {
		schema, err := toSchema(def.InputSchema)
		if err != nil {
			logger.Error("skipping tool with invalid schema", "tool", def.Name, "error", err)
			continue
		}
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: schema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			payload, err := handler.Handle(ctx, name, req.Params.Arguments)
			if err != nil {
				return errorResult(err), nil
			}
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, err
			}
			return &sdkmcp.CallToolResult{
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
			}, nil
		})
	}
}

// errorResult renders a tool failure as an in-band error payload so the
// caller sees the structured code and recovery hint.
func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = &APIError{Code: "INTERNAL_ERROR", Message: err.Error()}
	}
	data, merr := json.Marshal(apiErr)
	if merr != nil {
		data = []byte(`{"code":"INTERNAL_ERROR","message":"error serialization failed"}`)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}

func toSchema(m map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}
