package mcp

import (
	"context"
	"fmt"

	logseq "github.com/logseq/logseq.go"
	"github.com/logseq/logseq.go/pkg/format"
)

// Prompt names.
const (
	PromptInsertBlock    = "logseq_insert_block"
	PromptCreatePage     = "logseq_create_page"
	PromptGetPage        = "logseq_get_page"
	PromptGetCurrentPage = "logseq_get_current_page"
	PromptGetAllPages    = "logseq_get_all_pages"
	PromptSimpleQuery    = "logseq_simple_query"
)

// PromptHandler serves prompt templates backed by live graph reads.
type PromptHandler struct {
	client *logseq.Client
}

// NewPromptHandler builds a prompt dispatcher.
func NewPromptHandler(client *logseq.Client) *PromptHandler {
	return &PromptHandler{client: client}
}

// Prompts lists the available prompt definitions.
func (h *PromptHandler) Prompts() []Prompt {
	return []Prompt{
		{
			Name:        PromptInsertBlock,
			Description: "Insert a block into a Logseq page",
			Arguments: []PromptArgument{
				{Name: "parent_block", Description: "Parent block UUID or page name", Required: false},
				{Name: "content", Description: "Block content", Required: true},
			},
		},
		{
			Name:        PromptCreatePage,
			Description: "Create a new Logseq page",
			Arguments: []PromptArgument{
				{Name: "page_name", Description: "Name of the page", Required: true},
			},
		},
		{
			Name:        PromptGetPage,
			Description: "Show a page's metadata",
			Arguments: []PromptArgument{
				{Name: "page_name", Description: "Name of the page", Required: true},
			},
		},
		{
			Name:        PromptGetCurrentPage,
			Description: "Show the currently active page",
		},
		{
			Name:        PromptGetAllPages,
			Description: "List every page in the graph",
		},
		{
			Name:        PromptSimpleQuery,
			Description: "Run a simple Logseq query",
			Arguments: []PromptArgument{
				{Name: "query", Description: "Query string, e.g. '[[project]]'", Required: true},
			},
		},
	}
}

// HandlePrompt resolves one prompt. Operation failures are reported
// inside the prompt text so the conversation can continue.
func (h *PromptHandler) HandlePrompt(ctx context.Context, name string, arguments map[string]string) (*GetPromptResult, error) {
	switch name {
	case PromptInsertBlock:
		return h.insertBlock(ctx, arguments)
	case PromptCreatePage:
		return h.createPage(ctx, arguments)
	case PromptGetPage:
		return h.getPage(ctx, arguments)
	case PromptGetCurrentPage:
		return h.getCurrentPage(ctx)
	case PromptGetAllPages:
		return h.getAllPages(ctx)
	case PromptSimpleQuery:
		return h.simpleQuery(ctx, arguments)
	default:
		return nil, &RPCError{Code: CodeMethodNotFound, Message: fmt.Sprintf("unknown prompt: %s", name)}
	}
}

func (h *PromptHandler) insertBlock(ctx context.Context, arguments map[string]string) (*GetPromptResult, error) {
	block, err := h.client.InsertBlock(ctx, logseq.InsertBlockInput{
		ParentBlock: arguments["parent_block"],
		Content:     arguments["content"],
	})
	if err != nil {
		return promptError("Failed to insert block", err), nil
	}
	text := "Block inserted"
	if block != nil {
		text = "Inserted block:\n" + format.Block(*block, 0)
	}
	return promptResult("Block inserted into Logseq", text), nil
}

func (h *PromptHandler) createPage(ctx context.Context, arguments map[string]string) (*GetPromptResult, error) {
	page, err := h.client.CreatePage(ctx, logseq.CreatePageInput{
		PageName: arguments["page_name"],
	})
	if err != nil {
		return promptError("Failed to create page", err), nil
	}
	text := "Page created"
	if page != nil {
		text = format.Page(*page)
	}
	return promptResult("Page created in Logseq", text), nil
}

func (h *PromptHandler) getPage(ctx context.Context, arguments map[string]string) (*GetPromptResult, error) {
	page, err := h.client.GetPage(ctx, logseq.GetPageInput{
		PageName: arguments["page_name"],
	})
	if err != nil {
		return promptError("Failed to get page", err), nil
	}
	if page == nil {
		return promptResult("Page lookup", "Page not found: "+arguments["page_name"]), nil
	}
	return promptResult("Page details", format.Page(*page)), nil
}

func (h *PromptHandler) getCurrentPage(ctx context.Context) (*GetPromptResult, error) {
	page, err := h.client.CurrentPage(ctx)
	if err != nil {
		return promptError("Failed to get current page", err), nil
	}
	if page == nil {
		return promptResult("Current page", "No active page"), nil
	}
	return promptResult("Current page", format.Page(*page)), nil
}

func (h *PromptHandler) getAllPages(ctx context.Context) (*GetPromptResult, error) {
	pages, err := h.client.AllPages(ctx, logseq.GetAllPagesInput{})
	if err != nil {
		return promptError("Failed to list pages", err), nil
	}
	return promptResult("All pages in the graph", format.Pages(pages)), nil
}

func (h *PromptHandler) simpleQuery(ctx context.Context, arguments map[string]string) (*GetPromptResult, error) {
	results, err := h.client.SimpleQuery(ctx, logseq.SimpleQueryInput{
		Query: arguments["query"],
	})
	if err != nil {
		return promptError("Failed to run query", err), nil
	}
	return promptResult("Query results", format.QueryResults(results)), nil
}

func promptResult(description, text string) *GetPromptResult {
	return &GetPromptResult{
		Description: description,
		Messages: []PromptMessage{
			{Role: "user", Content: NewTextContent(text)},
		},
	}
}

func promptError(description string, err error) *GetPromptResult {
	return promptResult("Error: "+description, description+": "+err.Error())
}
