package logseq

import (
	"context"

	"github.com/logseq/logseq.go/pkg/entity"
)

// Remote method names of the Editor block API.
const (
	methodInsertBlock          = "logseq.Editor.insertBlock"
	methodUpdateBlock          = "logseq.Editor.updateBlock"
	methodRemoveBlock          = "logseq.Editor.removeBlock"
	methodGetBlock             = "logseq.Editor.getBlock"
	methodMoveBlock            = "logseq.Editor.moveBlock"
	methodInsertBatchBlock     = "logseq.Editor.insertBatchBlock"
	methodGetPageBlocksTree    = "logseq.Editor.getPageBlocksTree"
	methodGetCurrentPageBlocks = "logseq.Editor.getCurrentPageBlocksTree"
	methodGetCurrentBlock      = "logseq.Editor.getCurrentBlock"
	methodEditBlock            = "logseq.Editor.editBlock"
	methodExitEditingMode      = "logseq.Editor.exitEditingMode"
	methodGetEditingBlockValue = "logseq.Editor.getEditingBlockContent"
)

// InsertBlock creates a new block and returns it. The result is nil
// when the remote side returns nothing for the insert.
func (c *Client) InsertBlock(ctx context.Context, in InsertBlockInput) (*entity.Block, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	in.normalize()

	options := map[string]any{
		"isPageBlock": in.IsPageBlock,
		"before":      in.Before,
	}
	if in.CustomUUID != "" {
		options["customUUID"] = in.CustomUUID
	}
	if in.Properties != nil {
		options["properties"] = in.Properties
	}

	var parent any
	if in.ParentBlock != "" {
		parent = in.ParentBlock
	}

	result, err := c.call(ctx, methodInsertBlock, parent, in.Content, options)
	if err != nil {
		return nil, err
	}
	return blockOrNil(result), nil
}

// UpdateBlock replaces a block's content. A nil block with nil error
// means the remote side acknowledged without returning the block.
func (c *Client) UpdateBlock(ctx context.Context, in UpdateBlockInput) (*entity.Block, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	in.normalize()

	options := map[string]any{}
	if in.Properties != nil {
		options["properties"] = in.Properties
	}

	result, err := c.call(ctx, methodUpdateBlock, in.UUID, in.Content, options)
	if err != nil {
		return nil, err
	}
	return blockOrNil(result), nil
}

// DeleteBlock removes a block.
func (c *Client) DeleteBlock(ctx context.Context, in DeleteBlockInput) error {
	if err := c.validateInput(in); err != nil {
		return err
	}
	in.normalize()

	_, err := c.call(ctx, methodRemoveBlock, in.UUID)
	return err
}

// GetBlock fetches one block by UUID.
func (c *Client) GetBlock(ctx context.Context, in GetBlockInput) (*entity.Block, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	in.normalize()

	result, err := c.call(ctx, methodGetBlock, in.UUID)
	if err != nil {
		return nil, err
	}
	return blockOrNil(result), nil
}

// MoveBlock relocates a block relative to a target.
func (c *Client) MoveBlock(ctx context.Context, in MoveBlockInput) (*entity.Block, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	in.normalize()

	result, err := c.call(ctx, methodMoveBlock, in.UUID, in.TargetUUID, map[string]any{
		"children": in.AsChild,
	})
	if err != nil {
		return nil, err
	}
	return blockOrNil(result), nil
}

// InsertBatch creates several blocks under one parent. Entries the
// remote side reports as something other than block maps are skipped.
// A nil slice with nil error means the remote side acknowledged
// without returning the blocks.
func (c *Client) InsertBatch(ctx context.Context, in BatchBlockInput) ([]entity.Block, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	in.normalize()

	blocks := make([]any, 0, len(in.Blocks))
	for _, block := range in.Blocks {
		blocks = append(blocks, block)
	}

	result, err := c.call(ctx, methodInsertBatchBlock, in.Parent, blocks)
	if err != nil {
		return nil, err
	}
	items, ok := result.([]any)
	if !ok {
		return nil, nil
	}
	inserted := make([]entity.Block, 0, len(items))
	for _, item := range items {
		if data, ok := item.(map[string]any); ok {
			inserted = append(inserted, entity.BlockFromAPI(data))
		}
	}
	return inserted, nil
}

// PageBlocksTree returns all blocks of a page as trees.
func (c *Client) PageBlocksTree(ctx context.Context, pageName string) ([]entity.Block, error) {
	result, err := c.call(ctx, methodGetPageBlocksTree, pageName)
	if err != nil {
		return nil, err
	}
	return entity.BlocksFromAPI(result), nil
}

// CurrentPageBlocksTree returns the block trees of the active page.
func (c *Client) CurrentPageBlocksTree(ctx context.Context) ([]entity.Block, error) {
	result, err := c.call(ctx, methodGetCurrentPageBlocks)
	if err != nil {
		return nil, err
	}
	return entity.BlocksFromAPI(result), nil
}

// CurrentBlock returns the focused block, or nil when none is
// focused.
func (c *Client) CurrentBlock(ctx context.Context) (*entity.Block, error) {
	result, err := c.call(ctx, methodGetCurrentBlock)
	if err != nil {
		return nil, err
	}
	return blockOrNil(result), nil
}

// EditBlock enters edit mode for a block at a cursor position.
func (c *Client) EditBlock(ctx context.Context, in EditBlockInput) error {
	if err := c.validateInput(in); err != nil {
		return err
	}
	in.normalize()

	_, err := c.call(ctx, methodEditBlock, in.UUID, map[string]any{"pos": in.Pos})
	return err
}

// ExitEditing leaves edit mode.
func (c *Client) ExitEditing(ctx context.Context, in ExitEditingInput) error {
	_, err := c.call(ctx, methodExitEditingMode, in.SelectBlock)
	return err
}

// EditingBlockContent returns the raw content of the block being
// edited.
func (c *Client) EditingBlockContent(ctx context.Context) (any, error) {
	return c.call(ctx, methodGetEditingBlockValue)
}

// blockOrNil normalizes a result that is expected to be a block map
// but may be a bare acknowledgement.
func blockOrNil(result any) *entity.Block {
	data, ok := result.(map[string]any)
	if !ok {
		return nil
	}
	block := entity.BlockFromAPI(data)
	return &block
}
