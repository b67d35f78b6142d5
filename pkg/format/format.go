// Package format renders typed entities as the human-readable text
// returned by the MCP tools and printed by the CLI.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/logseq/logseq.go/pkg/entity"
)

// Block renders one block and its subtree as an indented outline.
func Block(block entity.Block, level int) string {
	indent := strings.Repeat("  ", level)
	lines := []string{fmt.Sprintf("%s- %s", indent, block.Content)}

	for _, key := range sortedKeys(block.Properties) {
		lines = append(lines, fmt.Sprintf("%s  %s:: %v", indent, key, block.Properties[key]))
	}

	for _, child := range block.Children {
		lines = append(lines, Block(child, level+1))
	}
	return strings.Join(lines, "\n")
}

// Blocks renders a list of block trees.
func Blocks(blocks []entity.Block) string {
	lines := make([]string, 0, len(blocks))
	for _, block := range blocks {
		lines = append(lines, Block(block, 0))
	}
	return strings.Join(lines, "\n")
}

// Page renders page metadata.
func Page(page entity.Page) string {
	lines := []string{
		"Page: " + page.Name,
		"UUID: " + page.UUID,
	}
	if page.JournalDay != 0 {
		lines = append(lines, fmt.Sprintf("Journal Day: %d", page.JournalDay))
	}
	if len(page.PropertiesTextValues) > 0 {
		lines = append(lines, "Properties:")
		keys := make([]string, 0, len(page.PropertiesTextValues))
		for key := range page.PropertiesTextValues {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			lines = append(lines, fmt.Sprintf("  %s:: %s", key, page.PropertiesTextValues[key]))
		}
	}
	return strings.Join(lines, "\n")
}

// Pages renders a page listing sorted by name.
func Pages(pages []entity.Page) string {
	sorted := make([]entity.Page, len(pages))
	copy(sorted, pages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	lines := make([]string, 0, len(sorted))
	for _, page := range sorted {
		lines = append(lines, fmt.Sprintf("- %s (UUID: %s)", page.Name, page.UUID))
	}
	return strings.Join(lines, "\n")
}

// Graph renders graph metadata.
func Graph(graph entity.Graph) string {
	lines := []string{
		"Graph: " + graph.Name,
		"Path: " + graph.Path,
	}
	if graph.URL != "" {
		lines = append(lines, "URL: "+graph.URL)
	}
	if graph.Version != "" {
		lines = append(lines, "Version: "+graph.Version)
	}
	return strings.Join(lines, "\n")
}

// QueryResults renders raw query rows, preferring block content when
// a row looks like a block map.
func QueryResults(results []any) string {
	if len(results) == 0 {
		return "No results found."
	}

	lines := []string{fmt.Sprintf("Found %d results:", len(results))}
	for i, result := range results {
		if m, ok := result.(map[string]any); ok {
			if content, ok := m["content"].(string); ok {
				lines = append(lines, fmt.Sprintf("%d. %s", i+1, content))
				continue
			}
		}
		lines = append(lines, fmt.Sprintf("%d. %v", i+1, result))
	}
	return strings.Join(lines, "\n")
}

// GitStatus renders raw git status output.
func GitStatus(status string) string {
	return "Git Status:\n" + status
}

// Success decorates a success message.
func Success(message string) string {
	return "✓ " + message
}

// Error decorates an error message.
func Error(message string) string {
	return "✗ Error: " + message
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
