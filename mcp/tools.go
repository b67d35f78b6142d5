package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	logseq "github.com/logseq/logseq.go"
	"github.com/logseq/logseq.go/pkg/entity"
	"github.com/logseq/logseq.go/pkg/errs"
	"github.com/logseq/logseq.go/pkg/format"
)

// Tool names.
const (
	ToolInsertBlock           = "logseq_insert_block"
	ToolUpdateBlock           = "logseq_update_block"
	ToolDeleteBlock           = "logseq_delete_block"
	ToolGetBlock              = "logseq_get_block"
	ToolMoveBlock             = "logseq_move_block"
	ToolInsertBatch           = "logseq_insert_batch"
	ToolGetPageBlocks         = "logseq_get_page_blocks"
	ToolGetCurrentPageContent = "logseq_get_current_page_content"
	ToolCreatePage            = "logseq_create_page"
	ToolGetPage               = "logseq_get_page"
	ToolDeletePage            = "logseq_delete_page"
	ToolRenamePage            = "logseq_rename_page"
	ToolGetAllPages           = "logseq_get_all_pages"
	ToolGetCurrentPage        = "logseq_get_current_page"
	ToolGetCurrentBlock       = "logseq_get_current_block"
	ToolEditBlock             = "logseq_edit_block"
	ToolExitEditingMode       = "logseq_exit_editing_mode"
	ToolGetEditingContent     = "logseq_get_editing_content"
	ToolSimpleQuery           = "logseq_simple_query"
	ToolAdvancedQuery         = "logseq_advanced_query"
	ToolGetTasks              = "logseq_get_tasks"
	ToolGetCurrentGraph       = "logseq_get_current_graph"
	ToolGetUserConfigs        = "logseq_get_user_configs"
	ToolGitCommit             = "logseq_git_commit"
	ToolGitStatus             = "logseq_git_status"
)

// ToolHandler dispatches tool calls onto the client.
type ToolHandler struct {
	client *logseq.Client

	enableAdvancedQueries bool
	enableGitOperations   bool
}

// NewToolHandler builds a dispatcher. Feature flags control whether
// the advanced-query and git tools are registered at all.
func NewToolHandler(client *logseq.Client, enableAdvancedQueries, enableGitOperations bool) *ToolHandler {
	return &ToolHandler{
		client:                client,
		enableAdvancedQueries: enableAdvancedQueries,
		enableGitOperations:   enableGitOperations,
	}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

// Tools lists the registered tool definitions.
func (h *ToolHandler) Tools() []Tool {
	tools := []Tool{
		{
			Name:        ToolInsertBlock,
			Description: "Insert a new block in Logseq",
			InputSchema: objectSchema(map[string]any{
				"parent_block":  prop("string", "Parent block UUID or page name"),
				"content":       prop("string", "Block content"),
				"is_page_block": prop("boolean", "Create as page-level block"),
				"before":        prop("boolean", "Insert before parent instead of after"),
				"custom_uuid":   prop("string", "Custom UUID for the block"),
				"properties":    prop("object", "Block properties"),
			}, "content"),
		},
		{
			Name:        ToolUpdateBlock,
			Description: "Update an existing block",
			InputSchema: objectSchema(map[string]any{
				"uuid":       prop("string", "Block UUID"),
				"content":    prop("string", "New content"),
				"properties": prop("object", "Updated properties"),
			}, "uuid", "content"),
		},
		{
			Name:        ToolDeleteBlock,
			Description: "Delete a block",
			InputSchema: objectSchema(map[string]any{
				"uuid": prop("string", "Block UUID to delete"),
			}, "uuid"),
		},
		{
			Name:        ToolGetBlock,
			Description: "Get block details by UUID",
			InputSchema: objectSchema(map[string]any{
				"uuid": prop("string", "Block UUID"),
			}, "uuid"),
		},
		{
			Name:        ToolMoveBlock,
			Description: "Move block to another location",
			InputSchema: objectSchema(map[string]any{
				"uuid":        prop("string", "Block UUID to move"),
				"target_uuid": prop("string", "Target block UUID"),
				"as_child":    prop("boolean", "Move as child of target"),
			}, "uuid", "target_uuid"),
		},
		{
			Name:        ToolInsertBatch,
			Description: "Insert multiple blocks at once",
			InputSchema: objectSchema(map[string]any{
				"parent": prop("string", "Parent block or page"),
				"blocks": prop("array", "List of block data"),
			}, "parent", "blocks"),
		},
		{
			Name:        ToolGetPageBlocks,
			Description: "Get all blocks in a page",
			InputSchema: objectSchema(map[string]any{
				"page_name": prop("string", "Page name"),
			}, "page_name"),
		},
		{
			Name:        ToolGetCurrentPageContent,
			Description: "Get current page block tree",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        ToolCreatePage,
			Description: "Create a new page",
			InputSchema: objectSchema(map[string]any{
				"page_name":          prop("string", "Page name"),
				"properties":         prop("object", "Page properties"),
				"journal":            prop("boolean", "Create as journal page"),
				"format":             prop("string", "Page format: markdown or org"),
				"create_first_block": prop("boolean", "Create initial empty block (default true)"),
			}, "page_name"),
		},
		{
			Name:        ToolGetPage,
			Description: "Get page details",
			InputSchema: objectSchema(map[string]any{
				"page_name":        prop("string", "Page name or UUID"),
				"include_children": prop("boolean", "Include child blocks"),
			}, "page_name"),
		},
		{
			Name:        ToolDeletePage,
			Description: "Delete a page",
			InputSchema: objectSchema(map[string]any{
				"page_name": prop("string", "Page name to delete"),
			}, "page_name"),
		},
		{
			Name:        ToolRenamePage,
			Description: "Rename a page",
			InputSchema: objectSchema(map[string]any{
				"old_name": prop("string", "Current page name"),
				"new_name": prop("string", "New page name"),
			}, "old_name", "new_name"),
		},
		{
			Name:        ToolGetAllPages,
			Description: "List all pages",
			InputSchema: objectSchema(map[string]any{
				"repo": prop("string", "Repository name (optional)"),
			}),
		},
		{
			Name:        ToolGetCurrentPage,
			Description: "Get current active page",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        ToolGetCurrentBlock,
			Description: "Get currently focused block",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        ToolEditBlock,
			Description: "Enter edit mode for block",
			InputSchema: objectSchema(map[string]any{
				"uuid": prop("string", "Block UUID"),
				"pos":  prop("integer", "Cursor position (0-10000)"),
			}, "uuid"),
		},
		{
			Name:        ToolExitEditingMode,
			Description: "Exit edit mode",
			InputSchema: objectSchema(map[string]any{
				"select_block": prop("boolean", "Keep block selected"),
			}),
		},
		{
			Name:        ToolGetEditingContent,
			Description: "Get content of block being edited",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        ToolSimpleQuery,
			Description: "Run a simple Logseq query",
			InputSchema: objectSchema(map[string]any{
				"query": prop("string", "Query string (e.g., '[[tag]]')"),
			}, "query"),
		},
		{
			Name:        ToolGetTasks,
			Description: "Get all tasks with optional filters",
			InputSchema: objectSchema(map[string]any{
				"marker":   prop("string", "Filter by marker (TODO, DOING, DONE, etc.)"),
				"priority": prop("string", "Filter by priority (A, B, C)"),
			}),
		},
		{
			Name:        ToolGetCurrentGraph,
			Description: "Get current graph information",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        ToolGetUserConfigs,
			Description: "Get user configurations",
			InputSchema: objectSchema(map[string]any{}),
		},
	}

	if h.enableAdvancedQueries {
		tools = append(tools, Tool{
			Name:        ToolAdvancedQuery,
			Description: "Run an advanced Datascript query",
			InputSchema: objectSchema(map[string]any{
				"query":  prop("string", "Datascript query"),
				"inputs": prop("array", "Query inputs"),
			}, "query"),
		})
	}
	if h.enableGitOperations {
		tools = append(tools,
			Tool{
				Name:        ToolGitCommit,
				Description: "Execute git commit",
				InputSchema: objectSchema(map[string]any{
					"message": prop("string", "Commit message"),
				}, "message"),
			},
			Tool{
				Name:        ToolGitStatus,
				Description: "Get git status",
				InputSchema: objectSchema(map[string]any{}),
			},
		)
	}
	return tools
}

// decodeArgs maps loose tool arguments onto a typed input.
func decodeArgs[T any](arguments map[string]any) (T, error) {
	var input T
	data, err := json.Marshal(arguments)
	if err != nil {
		return input, errs.Wrap(errs.KindValidation, err, "arguments are not JSON-encodable")
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, errs.Wrap(errs.KindValidation, err, "invalid arguments: "+err.Error())
	}
	return input, nil
}

// HandleTool dispatches one tool call and renders its text result.
func (h *ToolHandler) HandleTool(ctx context.Context, name string, arguments map[string]any) ([]TextContent, error) {
	text, err := h.dispatch(ctx, name, arguments)
	if err != nil {
		return nil, err
	}
	return []TextContent{NewTextContent(text)}, nil
}

func (h *ToolHandler) dispatch(ctx context.Context, name string, arguments map[string]any) (string, error) {
	switch name {
	case ToolInsertBlock:
		in, err := decodeArgs[logseq.InsertBlockInput](arguments)
		if err != nil {
			return "", err
		}
		block, err := h.client.InsertBlock(ctx, in)
		if err != nil {
			return "", err
		}
		if block == nil {
			return "Block inserted successfully", nil
		}
		return format.Blocks([]entity.Block{*block}), nil

	case ToolUpdateBlock:
		in, err := decodeArgs[logseq.UpdateBlockInput](arguments)
		if err != nil {
			return "", err
		}
		block, err := h.client.UpdateBlock(ctx, in)
		if err != nil {
			return "", err
		}
		if block == nil {
			return "Block updated successfully", nil
		}
		return "Updated block: " + clip(block.Content, 100), nil

	case ToolDeleteBlock:
		in, err := decodeArgs[logseq.DeleteBlockInput](arguments)
		if err != nil {
			return "", err
		}
		if err := h.client.DeleteBlock(ctx, in); err != nil {
			return "", err
		}
		return "Block deleted successfully", nil

	case ToolGetBlock:
		in, err := decodeArgs[logseq.GetBlockInput](arguments)
		if err != nil {
			return "", err
		}
		block, err := h.client.GetBlock(ctx, in)
		if err != nil {
			return "", err
		}
		if block == nil {
			return "", errs.Newf(errs.KindNotFound, "block %s", in.UUID)
		}
		return format.Blocks([]entity.Block{*block}), nil

	case ToolMoveBlock:
		in, err := decodeArgs[logseq.MoveBlockInput](arguments)
		if err != nil {
			return "", err
		}
		block, err := h.client.MoveBlock(ctx, in)
		if err != nil {
			return "", err
		}
		if block == nil {
			return "Block moved successfully", nil
		}
		return fmt.Sprintf("Moved block to: %v", block.Parent), nil

	case ToolInsertBatch:
		in, err := decodeArgs[logseq.BatchBlockInput](arguments)
		if err != nil {
			return "", err
		}
		blocks, err := h.client.InsertBatch(ctx, in)
		if err != nil {
			return "", err
		}
		if blocks == nil {
			return "Batch insert completed successfully", nil
		}
		return fmt.Sprintf("Inserted %d blocks", len(blocks)), nil

	case ToolGetPageBlocks:
		in, err := decodeArgs[logseq.GetPageInput](arguments)
		if err != nil {
			return "", err
		}
		if in.PageName == "" {
			return "", errs.New(errs.KindValidation, "page_name is required")
		}
		blocks, err := h.client.PageBlocksTree(ctx, in.PageName)
		if err != nil {
			return "", err
		}
		return format.Blocks(blocks), nil

	case ToolGetCurrentPageContent:
		blocks, err := h.client.CurrentPageBlocksTree(ctx)
		if err != nil {
			return "", err
		}
		return format.Blocks(blocks), nil

	case ToolCreatePage:
		in, err := decodeArgs[logseq.CreatePageInput](arguments)
		if err != nil {
			return "", err
		}
		page, err := h.client.CreatePage(ctx, in)
		if err != nil {
			return "", err
		}
		if page == nil {
			return "Page created successfully", nil
		}
		return format.Page(*page), nil

	case ToolGetPage:
		in, err := decodeArgs[logseq.GetPageInput](arguments)
		if err != nil {
			return "", err
		}
		page, err := h.client.GetPage(ctx, in)
		if err != nil {
			return "", err
		}
		if page == nil {
			return "", errs.Newf(errs.KindNotFound, "page %s", in.PageName)
		}
		return format.Page(*page), nil

	case ToolDeletePage:
		in, err := decodeArgs[logseq.DeletePageInput](arguments)
		if err != nil {
			return "", err
		}
		if err := h.client.DeletePage(ctx, in); err != nil {
			return "", err
		}
		return "Page deleted successfully", nil

	case ToolRenamePage:
		in, err := decodeArgs[logseq.RenamePageInput](arguments)
		if err != nil {
			return "", err
		}
		if err := h.client.RenamePage(ctx, in); err != nil {
			return "", err
		}
		return "Page renamed successfully", nil

	case ToolGetAllPages:
		in, err := decodeArgs[logseq.GetAllPagesInput](arguments)
		if err != nil {
			return "", err
		}
		pages, err := h.client.AllPages(ctx, in)
		if err != nil {
			return "", err
		}
		return format.Pages(pages), nil

	case ToolGetCurrentPage:
		page, err := h.client.CurrentPage(ctx)
		if err != nil {
			return "", err
		}
		if page == nil {
			return "No active page", nil
		}
		return format.Page(*page), nil

	case ToolGetCurrentBlock:
		block, err := h.client.CurrentBlock(ctx)
		if err != nil {
			return "", err
		}
		if block == nil {
			return "No block selected", nil
		}
		return format.Blocks([]entity.Block{*block}), nil

	case ToolEditBlock:
		in, err := decodeArgs[logseq.EditBlockInput](arguments)
		if err != nil {
			return "", err
		}
		if err := h.client.EditBlock(ctx, in); err != nil {
			return "", err
		}
		return "Entered edit mode for block " + in.UUID, nil

	case ToolExitEditingMode:
		in, err := decodeArgs[logseq.ExitEditingInput](arguments)
		if err != nil {
			return "", err
		}
		if err := h.client.ExitEditing(ctx, in); err != nil {
			return "", err
		}
		return "Exited editing mode", nil

	case ToolGetEditingContent:
		content, err := h.client.EditingBlockContent(ctx)
		if err != nil {
			return "", err
		}
		if content == nil {
			return "No content being edited", nil
		}
		return fmt.Sprint(content), nil

	case ToolSimpleQuery:
		in, err := decodeArgs[logseq.SimpleQueryInput](arguments)
		if err != nil {
			return "", err
		}
		results, err := h.client.SimpleQuery(ctx, in)
		if err != nil {
			return "", err
		}
		return format.QueryResults(results), nil

	case ToolAdvancedQuery:
		if !h.enableAdvancedQueries {
			break
		}
		in, err := decodeArgs[logseq.AdvancedQueryInput](arguments)
		if err != nil {
			return "", err
		}
		results, err := h.client.AdvancedQuery(ctx, in)
		if err != nil {
			return "", err
		}
		return format.QueryResults(results), nil

	case ToolGetTasks:
		in, err := decodeArgs[logseq.GetTasksInput](arguments)
		if err != nil {
			return "", err
		}
		tasks, err := h.client.GetTasks(ctx, in)
		if err != nil {
			return "", err
		}
		rows := make([]any, 0, len(tasks))
		for _, task := range tasks {
			rows = append(rows, task)
		}
		return format.QueryResults(rows), nil

	case ToolGetCurrentGraph:
		graph, err := h.client.CurrentGraph(ctx)
		if err != nil {
			return "", err
		}
		return format.Graph(*graph), nil

	case ToolGetUserConfigs:
		configs, err := h.client.UserConfigs(ctx)
		if err != nil {
			return "", err
		}
		return indentJSON(configs)

	case ToolGitCommit:
		if !h.enableGitOperations {
			break
		}
		in, err := decodeArgs[logseq.GitCommitInput](arguments)
		if err != nil {
			return "", err
		}
		if err := h.client.GitCommit(ctx, in); err != nil {
			return "", err
		}
		return "Git commit successful", nil

	case ToolGitStatus:
		if !h.enableGitOperations {
			break
		}
		status, err := h.client.GitStatus(ctx)
		if err != nil {
			return "", err
		}
		if text, ok := status.(string); ok {
			return format.GitStatus(text), nil
		}
		return indentJSON(status)
	}

	return "", fmt.Errorf("unknown tool: %s", name)
}

func indentJSON(value any) (string, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func clip(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
