package mcp

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// NewHTTPHandler creates a plain JSON-RPC handler over the tool
// surface. Every tool is stateless, so requests dispatch straight to
// the handler without an MCP session.
func NewHTTPHandler(handler *Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &httpHandler{handler: handler, logger: logger}
}

type httpHandler struct {
	handler *Handler
	logger  *slog.Logger
}

type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	Result  any           `json:"result,omitempty"`
	Error   *jsonrpcError `json:"error,omitempty"`
	ID      any           `json:"id,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, -32700, "Parse error", nil, nil)
		return
	}
	var req jsonrpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, -32700, "Parse error", nil, nil)
		return
	}

	switch req.Method {
	case "initialize":
		h.writeResult(w, req.ID, map[string]any{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": "helpdesk-mcp", "version": "0.1.0"},
			"instructions":    serverInstructions,
		})

	case "ping":
		h.writeResult(w, req.ID, map[string]any{})

	case "tools/list":
		h.writeResult(w, req.ID, map[string]any{"tools": buildToolCatalog()})

	case "tools/call":
		var call toolCallParams
		if err := json.Unmarshal(req.Params, &call); err != nil {
			h.writeError(w, -32602, "Invalid params", nil, req.ID)
			return
		}
		payload, err := h.handler.Handle(r.Context(), call.Name, call.Arguments)
		if err != nil {
			apiErr, ok := err.(*APIError)
			if !ok {
				apiErr = &APIError{Code: "INTERNAL_ERROR", Message: err.Error()}
			}
			h.writeError(w, -32000, apiErr.Message, apiErr, req.ID)
			return
		}
		data, err := json.Marshal(payload)
		if err != nil {
			h.writeError(w, -32603, "Internal error: "+err.Error(), nil, req.ID)
			return
		}
		h.writeResult(w, req.ID, map[string]any{
			"content": []map[string]any{{"type": "text", "text": string(data)}},
		})

	default:
		h.writeError(w, -32601, "Method not found: "+req.Method, nil, req.ID)
	}
}

// writeResult writes a successful JSON-RPC response. Always 200 OK;
// JSON-RPC errors travel in the body.
func (h *httpHandler) writeResult(w http.ResponseWriter, id any, result any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(jsonrpcResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *httpHandler) writeError(w http.ResponseWriter, code int, message string, data any, id any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(jsonrpcResponse{
		JSONRPC: "2.0",
		Error:   &jsonrpcError{Code: code, Message: message, Data: data},
		ID:      id,
	}); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}
