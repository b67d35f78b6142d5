package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Server answers MCP JSON-RPC requests over any framed transport.
type Server struct {
	name    string
	version string
	tools   *ToolHandler
	prompts *PromptHandler
	logger  zerolog.Logger
}

// NewServer wires the handlers behind a named server identity.
func NewServer(name, version string, tools *ToolHandler, prompts *PromptHandler, logger zerolog.Logger) *Server {
	return &Server{
		name:    name,
		version: version,
		tools:   tools,
		prompts: prompts,
		logger:  logger,
	}
}

// Handle processes one raw JSON-RPC message and returns the encoded
// response, or nil for notifications (which get no reply).
func (s *Server) Handle(ctx context.Context, raw []byte) []byte {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return encodeResponse(errorResponse(nil, CodeParseError, "parse error: "+err.Error()))
	}

	// Requests without an id are notifications.
	if req.ID == nil {
		s.logger.Debug().Str("method", req.Method).Msg("notification ignored")
		return nil
	}

	resp := s.handleRequest(ctx, &req)
	return encodeResponse(resp)
}

func (s *Server) handleRequest(ctx context.Context, req *Request) *Response {
	s.logger.Debug().Str("method", req.Method).Msg("handling request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "ping":
		return successResponse(req.ID, map[string]any{})
	case "tools/list":
		return successResponse(req.ID, ListToolsResult{Tools: s.tools.Tools()})
	case "tools/call":
		return s.handleToolCall(ctx, req)
	case "prompts/list":
		return successResponse(req.ID, ListPromptsResult{Prompts: s.prompts.Prompts()})
	case "prompts/get":
		return s.handlePromptGet(ctx, req)
	default:
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req *Request) *Response {
	return successResponse(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: map[string]any{
			"tools":   map[string]any{},
			"prompts": map[string]any{},
		},
		ServerInfo: ServerInfo{Name: s.name, Version: s.version},
	})
}

func (s *Server) handleToolCall(ctx context.Context, req *Request) *Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "invalid tool call params: "+err.Error())
	}

	content, err := s.tools.HandleTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Error().Err(err).Str("tool", params.Name).Msg("tool call failed")
		rpcErr := toRPCError(err)
		return &Response{JSONRPC: JSONRPCVersion, ID: req.ID, Error: rpcErr}
	}
	return successResponse(req.ID, CallToolResult{Content: content})
}

func (s *Server) handlePromptGet(ctx context.Context, req *Request) *Response {
	var params GetPromptParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "invalid prompt params: "+err.Error())
	}

	result, err := s.prompts.HandlePrompt(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Error().Err(err).Str("prompt", params.Name).Msg("prompt failed")
		var rpcErr *RPCError
		if !errors.As(err, &rpcErr) {
			rpcErr = toRPCError(err)
		}
		return &Response{JSONRPC: JSONRPCVersion, ID: req.ID, Error: rpcErr}
	}
	return successResponse(req.ID, result)
}

func successResponse(id any, result any) *Response {
	return &Response{JSONRPC: JSONRPCVersion, ID: id, Result: result}
}

func errorResponse(id any, code int, message string) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}

func encodeResponse(resp *Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		// Result failed to encode; the error envelope itself always will.
		fallback := errorResponse(resp.ID, CodeInternalError, "failed to encode response")
		data, _ = json.Marshal(fallback)
	}
	return data
}
