package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	logseq "github.com/logseq/logseq.go"
	"github.com/logseq/logseq.go/pkg/config"
	"github.com/logseq/logseq.go/pkg/connection"
)

// queueCaller replays canned results and records every call.
type queueCaller struct {
	methods []string
	results []any
	err     error
}

func (q *queueCaller) Call(ctx context.Context, method string, args []any, opts ...connection.CallOption) (any, error) {
	q.methods = append(q.methods, method)
	if q.err != nil {
		return nil, q.err
	}
	if len(q.results) == 0 {
		return nil, nil
	}
	result := q.results[0]
	q.results = q.results[1:]
	return result, nil
}

func (q *queueCaller) Close() error { return nil }

type ServerTestSuite struct {
	suite.Suite

	caller *queueCaller
	server *Server
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.caller = &queueCaller{}
	client := logseq.New(config.Default(), logseq.WithCaller(s.caller))
	s.server = NewServer("logseq-mcp", config.Version,
		NewToolHandler(client, true, true),
		NewPromptHandler(client),
		zerolog.Nop())
}

func (s *ServerTestSuite) handle(method string, params any) *Response {
	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}
	raw, err := json.Marshal(req)
	s.Require().NoError(err)

	out := s.server.Handle(context.Background(), raw)
	s.Require().NotNil(out)

	var resp Response
	s.Require().NoError(json.Unmarshal(out, &resp))
	return &resp
}

func (s *ServerTestSuite) TestInitialize() {
	resp := s.handle("initialize", map[string]any{})
	s.Require().Nil(resp.Error)

	result := resp.Result.(map[string]any)
	s.Equal(ProtocolVersion, result["protocolVersion"])

	info := result["serverInfo"].(map[string]any)
	s.Equal("logseq-mcp", info["name"])
	s.Equal(config.Version, info["version"])
}

func (s *ServerTestSuite) TestPing() {
	resp := s.handle("ping", nil)
	s.Require().Nil(resp.Error)
	s.Equal(map[string]any{}, resp.Result)
}

func (s *ServerTestSuite) TestToolsListFullSet() {
	resp := s.handle("tools/list", nil)
	s.Require().Nil(resp.Error)

	result := resp.Result.(map[string]any)
	tools := result["tools"].([]any)
	s.Len(tools, 25)
}

func (s *ServerTestSuite) TestToolsListHonorsFeatureFlags() {
	client := logseq.New(config.Default(), logseq.WithCaller(s.caller))
	server := NewServer("logseq-mcp", config.Version,
		NewToolHandler(client, false, false),
		NewPromptHandler(client),
		zerolog.Nop())

	names := map[string]bool{}
	for _, tool := range server.tools.Tools() {
		names[tool.Name] = true
	}
	s.Len(names, 22)
	s.False(names[ToolAdvancedQuery])
	s.False(names[ToolGitCommit])
	s.False(names[ToolGitStatus])
}

func (s *ServerTestSuite) TestToolCallDeleteBlock() {
	resp := s.handle("tools/call", map[string]any{
		"name":      ToolDeleteBlock,
		"arguments": map[string]any{"uuid": "abc-123"},
	})
	s.Require().Nil(resp.Error)
	s.Equal([]string{"logseq.Editor.removeBlock"}, s.caller.methods)

	result := resp.Result.(map[string]any)
	content := result["content"].([]any)
	s.Require().Len(content, 1)
	first := content[0].(map[string]any)
	s.Equal("text", first["type"])
	s.Equal("Block deleted successfully", first["text"])
}

func (s *ServerTestSuite) TestToolCallValidationError() {
	resp := s.handle("tools/call", map[string]any{
		"name":      ToolInsertBlock,
		"arguments": map[string]any{"parent_block": "page"},
	})
	s.Require().NotNil(resp.Error)
	s.Equal(CodeInvalidParams, resp.Error.Code)
	s.Contains(resp.Error.Message, "Validation error: ")
	s.Empty(s.caller.methods, "validation failures must not reach the transport")
}

func (s *ServerTestSuite) TestToolCallUnknownTool() {
	resp := s.handle("tools/call", map[string]any{
		"name":      "logseq_no_such_tool",
		"arguments": map[string]any{},
	})
	s.Require().NotNil(resp.Error)
	s.Equal(CodeInternalError, resp.Error.Code)
	s.Contains(resp.Error.Message, "unknown tool")
}

func (s *ServerTestSuite) TestToolCallGetBlockNotFound() {
	s.caller.results = []any{nil}
	resp := s.handle("tools/call", map[string]any{
		"name":      ToolGetBlock,
		"arguments": map[string]any{"uuid": "missing"},
	})
	s.Require().NotNil(resp.Error)
	s.Equal(CodeInvalidParams, resp.Error.Code)
	s.Contains(resp.Error.Message, "Not found: ")
}

func (s *ServerTestSuite) TestToolCallGetTasks() {
	s.caller.results = []any{[]any{
		[]any{map[string]any{"uuid": "t1", "content": "TODO write docs", "marker": "TODO"}},
		[]any{map[string]any{"uuid": "t2", "content": "DONE ship it", "marker": "DONE"}},
	}}
	resp := s.handle("tools/call", map[string]any{
		"name":      ToolGetTasks,
		"arguments": map[string]any{"marker": "TODO"},
	})
	s.Require().Nil(resp.Error)

	result := resp.Result.(map[string]any)
	content := result["content"].([]any)
	text := content[0].(map[string]any)["text"].(string)
	s.Contains(text, "Found 1 results:")
	s.Contains(text, "TODO write docs")
}

func (s *ServerTestSuite) TestMethodNotFound() {
	resp := s.handle("resources/list", nil)
	s.Require().NotNil(resp.Error)
	s.Equal(CodeMethodNotFound, resp.Error.Code)
}

func (s *ServerTestSuite) TestNotificationGetsNoResponse() {
	out := s.server.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	s.Nil(out)
}

func (s *ServerTestSuite) TestParseError() {
	out := s.server.Handle(context.Background(), []byte(`{not json`))
	s.Require().NotNil(out)

	var resp Response
	s.Require().NoError(json.Unmarshal(out, &resp))
	s.Require().NotNil(resp.Error)
	s.Equal(CodeParseError, resp.Error.Code)
}

func (s *ServerTestSuite) TestPromptsList() {
	resp := s.handle("prompts/list", nil)
	s.Require().Nil(resp.Error)

	result := resp.Result.(map[string]any)
	prompts := result["prompts"].([]any)
	s.Len(prompts, 6)
}

func (s *ServerTestSuite) TestPromptGetCurrentPage() {
	s.caller.results = []any{map[string]any{"uuid": "p1", "name": "journal"}}
	resp := s.handle("prompts/get", map[string]any{
		"name": PromptGetCurrentPage,
	})
	s.Require().Nil(resp.Error)

	result := resp.Result.(map[string]any)
	s.Equal("Current page", result["description"])
	messages := result["messages"].([]any)
	s.Require().Len(messages, 1)
	text := messages[0].(map[string]any)["content"].(map[string]any)["text"].(string)
	s.Contains(text, "Page: journal")
}

func (s *ServerTestSuite) TestPromptErrorsEmbedInResult() {
	s.caller.err = fmt.Errorf("boom")
	resp := s.handle("prompts/get", map[string]any{
		"name": PromptGetAllPages,
	})
	s.Require().Nil(resp.Error)

	result := resp.Result.(map[string]any)
	s.Contains(result["description"], "Error:")
}

func (s *ServerTestSuite) TestUnknownPrompt() {
	resp := s.handle("prompts/get", map[string]any{
		"name": "logseq_no_such_prompt",
	})
	s.Require().NotNil(resp.Error)
	s.Equal(CodeMethodNotFound, resp.Error.Code)
}
