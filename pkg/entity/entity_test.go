package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func TestBlockFromAPIDefaults(t *testing.T) {
	block := BlockFromAPI(map[string]any{})

	assert.Equal(t, "", block.UUID)
	assert.Equal(t, "", block.Content)
	assert.Equal(t, map[string]any{}, block.Page)
	assert.Nil(t, block.Parent)
	assert.Empty(t, block.Children)
	assert.Equal(t, map[string]any{}, block.Properties)
	assert.Equal(t, "", block.Marker)
	assert.Equal(t, "", block.Priority)
}

func TestBlockFromAPICoercesTypeMismatch(t *testing.T) {
	block := BlockFromAPI(map[string]any{
		"uuid":    42.0,
		"content": []any{"not", "a", "string"},
	})

	assert.Equal(t, "", block.UUID)
	assert.Equal(t, "", block.Content)
}

func TestBlockFromAPITreeDropsMalformedChildren(t *testing.T) {
	data := decode(t, `{
		"uuid": "b1",
		"content": "x",
		"children": [
			{"uuid": "b2", "content": "y", "children": []},
			"not-a-map"
		]
	}`)

	block := BlockFromAPI(data)

	require.Len(t, block.Children, 1)
	assert.Equal(t, "b2", block.Children[0].UUID)
	assert.Equal(t, "y", block.Children[0].Content)
}

func TestBlockFromAPINestedTree(t *testing.T) {
	data := decode(t, `{
		"uuid": "root",
		"content": "r",
		"marker": "TODO",
		"priority": "A",
		"page": {"id": 7},
		"parent": 12,
		"properties": {"tag": "demo"},
		"children": [
			{"uuid": "c1", "content": "one", "children": [
				{"uuid": "g1", "content": "deep"}
			]}
		]
	}`)

	block := BlockFromAPI(data)

	assert.Equal(t, "TODO", block.Marker)
	assert.Equal(t, "A", block.Priority)
	assert.Equal(t, map[string]any{"id": 7.0}, block.Page)
	assert.Equal(t, 12.0, block.Parent)
	assert.Equal(t, map[string]any{"tag": "demo"}, block.Properties)
	require.Len(t, block.Children, 1)
	require.Len(t, block.Children[0].Children, 1)
	assert.Equal(t, "deep", block.Children[0].Children[0].Content)
}

func TestBlockFromAPIIsPure(t *testing.T) {
	data := decode(t, `{"uuid":"b1","content":"x","children":[{"uuid":"b2"}]}`)

	first := BlockFromAPI(data)
	second := BlockFromAPI(data)

	assert.Equal(t, first, second)
}

func TestBlocksFromAPIAllOrNothing(t *testing.T) {
	raw := []any{
		map[string]any{"uuid": "b1"},
		"bad-entry",
	}

	assert.Empty(t, BlocksFromAPI(raw))
}

func TestBlocksFromAPINonList(t *testing.T) {
	assert.Empty(t, BlocksFromAPI(map[string]any{"uuid": "b1"}))
	assert.Empty(t, BlocksFromAPI(nil))
}

func TestBlocksFromAPIWellFormed(t *testing.T) {
	raw := []any{
		map[string]any{"uuid": "b1", "content": "x"},
		map[string]any{"uuid": "b2", "content": "y"},
	}

	blocks := BlocksFromAPI(raw)

	require.Len(t, blocks, 2)
	assert.Equal(t, "b1", blocks[0].UUID)
	assert.Equal(t, "b2", blocks[1].UUID)
}

func TestPageFromAPI(t *testing.T) {
	data := decode(t, `{
		"uuid": "p1",
		"name": "projects",
		"originalName": "Projects",
		"journalDay": 20260831,
		"properties": {"tags": "work"},
		"propertiesTextValues": {"tags": "work"},
		"updatedAt": 1725000000,
		"createdAt": "2026-08-31"
	}`)

	page := PageFromAPI(data)

	assert.Equal(t, "p1", page.UUID)
	assert.Equal(t, "projects", page.Name)
	assert.Equal(t, "Projects", page.OriginalName)
	assert.Equal(t, 20260831, page.JournalDay)
	assert.Equal(t, map[string]string{"tags": "work"}, page.PropertiesTextValues)
	assert.Equal(t, 1725000000.0, page.UpdatedAt)
	assert.Equal(t, "2026-08-31", page.CreatedAt)
}

func TestPageFromAPIDefaults(t *testing.T) {
	page := PageFromAPI(map[string]any{})

	assert.Equal(t, "", page.UUID)
	assert.Equal(t, "", page.Name)
	assert.Equal(t, 0, page.JournalDay)
	assert.Equal(t, map[string]any{}, page.Properties)
	assert.Equal(t, map[string]string{}, page.PropertiesTextValues)
	assert.Nil(t, page.UpdatedAt)
}

func TestPagesFromAPIAllOrNothing(t *testing.T) {
	raw := []any{
		map[string]any{"uuid": "p1"},
		"bad-entry",
	}

	assert.Empty(t, PagesFromAPI(raw))
}

func TestGraphFromAPI(t *testing.T) {
	graph := GraphFromAPI(map[string]any{
		"name": "notes",
		"path": "/graphs/notes",
		"url":  "logseq://graph/notes",
	})

	assert.Equal(t, "notes", graph.Name)
	assert.Equal(t, "/graphs/notes", graph.Path)
	assert.Equal(t, "logseq://graph/notes", graph.URL)
	assert.Equal(t, "", graph.Version)
}
