package logseq

import (
	"context"

	"github.com/logseq/logseq.go/pkg/entity"
)

// Remote method names of the Editor page API.
const (
	methodCreatePage     = "logseq.Editor.createPage"
	methodGetPage        = "logseq.Editor.getPage"
	methodGetAllPages    = "logseq.Editor.getAllPages"
	methodDeletePage     = "logseq.Editor.deletePage"
	methodRenamePage     = "logseq.Editor.renamePage"
	methodGetCurrentPage = "logseq.Editor.getCurrentPage"
)

// CreatePage creates a page and returns its metadata.
func (c *Client) CreatePage(ctx context.Context, in CreatePageInput) (*entity.Page, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}

	format := in.Format
	if format == "" {
		format = PageFormatMarkdown
	}
	properties := in.Properties
	if properties == nil {
		properties = map[string]any{}
	}
	createFirstBlock := true
	if in.CreateFirstBlock != nil {
		createFirstBlock = *in.CreateFirstBlock
	}

	result, err := c.call(ctx, methodCreatePage, in.PageName, properties, map[string]any{
		"journal":          in.Journal,
		"format":           format,
		"createFirstBlock": createFirstBlock,
	})
	if err != nil {
		return nil, err
	}
	return pageOrNil(result), nil
}

// GetPage fetches a page by name or UUID.
func (c *Client) GetPage(ctx context.Context, in GetPageInput) (*entity.Page, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	in.normalize()

	result, err := c.call(ctx, methodGetPage, in.PageName, map[string]any{
		"includeChildren": in.IncludeChildren,
	})
	if err != nil {
		return nil, err
	}
	return pageOrNil(result), nil
}

// AllPages lists every page of the graph. The repo argument is only
// sent when set.
func (c *Client) AllPages(ctx context.Context, in GetAllPagesInput) ([]entity.Page, error) {
	args := []any{}
	if in.Repo != "" {
		args = append(args, in.Repo)
	}

	result, err := c.conn.Call(ctx, methodGetAllPages, args)
	if err != nil {
		return nil, err
	}
	return entity.PagesFromAPI(result), nil
}

// CurrentPage returns the active page, or nil when none is active.
func (c *Client) CurrentPage(ctx context.Context) (*entity.Page, error) {
	result, err := c.call(ctx, methodGetCurrentPage)
	if err != nil {
		return nil, err
	}
	return pageOrNil(result), nil
}

// DeletePage removes a page by name.
func (c *Client) DeletePage(ctx context.Context, in DeletePageInput) error {
	if err := c.validateInput(in); err != nil {
		return err
	}
	_, err := c.call(ctx, methodDeletePage, in.PageName)
	return err
}

// RenamePage renames a page.
func (c *Client) RenamePage(ctx context.Context, in RenamePageInput) error {
	if err := c.validateInput(in); err != nil {
		return err
	}
	_, err := c.call(ctx, methodRenamePage, in.OldName, in.NewName)
	return err
}

func pageOrNil(result any) *entity.Page {
	data, ok := result.(map[string]any)
	if !ok {
		return nil
	}
	page := entity.PageFromAPI(data)
	return &page
}
