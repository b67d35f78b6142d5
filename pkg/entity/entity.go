// Package entity converts the loosely-typed JSON maps returned by the
// Logseq API into validated Block, Page and Graph values.
//
// Normalization is pure: the same input always yields an equal value,
// missing optional fields fall back to documented defaults, and type
// mismatches on scalar fields coerce to the default instead of
// failing.
package entity

// Block is one unit of note content, possibly carrying a tree of
// child blocks.
type Block struct {
	UUID       string         `json:"uuid"`
	Content    string         `json:"content"`
	Page       any            `json:"page,omitempty"`   // object or entity id
	Parent     any            `json:"parent,omitempty"` // object, entity id, or nil
	Children   []Block        `json:"children"`
	Properties map[string]any `json:"properties"`
	Marker     string         `json:"marker,omitempty"`
	Priority   string         `json:"priority,omitempty"`
}

// Page is a named or date-keyed container of blocks.
type Page struct {
	UUID                 string            `json:"uuid"`
	Name                 string            `json:"name"`
	OriginalName         string            `json:"original_name,omitempty"`
	JournalDay           int               `json:"journal_day,omitempty"`
	Properties           map[string]any    `json:"properties"`
	PropertiesTextValues map[string]string `json:"properties_text_values"`
	UpdatedAt            any               `json:"updated_at,omitempty"` // string or number
	CreatedAt            any               `json:"created_at,omitempty"`
}

// Graph identifies the graph the remote side currently has open.
type Graph struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	URL     string `json:"url,omitempty"`
	Version string `json:"version,omitempty"`
}

// BlockFromAPI builds a Block from a raw API map. Children that are
// not themselves JSON objects are dropped from the sequence without
// raising.
func BlockFromAPI(data map[string]any) Block {
	block := Block{
		UUID:       stringField(data, "uuid"),
		Content:    stringField(data, "content"),
		Parent:     data["parent"],
		Properties: mapField(data, "properties"),
		Marker:     stringField(data, "marker"),
		Priority:   stringField(data, "priority"),
	}
	if page, ok := data["page"]; ok {
		block.Page = page
	} else {
		block.Page = map[string]any{}
	}
	if rawChildren, ok := data["children"].([]any); ok {
		for _, raw := range rawChildren {
			if child, ok := raw.(map[string]any); ok {
				block.Children = append(block.Children, BlockFromAPI(child))
			}
		}
	}
	return block
}

// BlocksFromAPI normalizes a top-level list of raw block maps. Unlike
// child normalization inside BlockFromAPI, the policy here is all or
// nothing: if the source is not a list, or any entry is not a JSON
// object, the result is empty.
func BlocksFromAPI(raw any) []Block {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	blocks := make([]Block, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		blocks = append(blocks, BlockFromAPI(data))
	}
	return blocks
}

// PageFromAPI builds a Page from a raw API map.
func PageFromAPI(data map[string]any) Page {
	return Page{
		UUID:                 stringField(data, "uuid"),
		Name:                 stringField(data, "name"),
		OriginalName:         stringField(data, "originalName"),
		JournalDay:           intField(data, "journalDay"),
		Properties:           mapField(data, "properties"),
		PropertiesTextValues: stringMapField(data, "propertiesTextValues"),
		UpdatedAt:            data["updatedAt"],
		CreatedAt:            data["createdAt"],
	}
}

// PagesFromAPI normalizes a list of raw page maps with the same all
// or nothing policy as BlocksFromAPI.
func PagesFromAPI(raw any) []Page {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	pages := make([]Page, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		pages = append(pages, PageFromAPI(data))
	}
	return pages
}

// GraphFromAPI builds a Graph from a raw API map.
func GraphFromAPI(data map[string]any) Graph {
	return Graph{
		Name:    stringField(data, "name"),
		Path:    stringField(data, "path"),
		URL:     stringField(data, "url"),
		Version: stringField(data, "version"),
	}
}

func stringField(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case float64: // encoding/json decodes numbers as float64
		return int(v)
	case int:
		return v
	}
	return 0
}

func mapField(data map[string]any, key string) map[string]any {
	if m, ok := data[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func stringMapField(data map[string]any, key string) map[string]string {
	out := map[string]string{}
	raw, ok := data[key].(map[string]any)
	if !ok {
		return out
	}
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
