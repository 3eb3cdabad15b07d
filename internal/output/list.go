// Package output renders human-readable listings for the cpp-hooks CLI.
package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/cpp-hooks/internal/shared"
)

// ListRenderer provides list formatting.
type ListRenderer struct {
	titleStyle  lipgloss.Style
	itemStyle   lipgloss.Style
	bulletStyle lipgloss.Style
	bullet      string
	indent      string
}

// NewListRenderer creates a new list renderer with default styling.
func NewListRenderer() *ListRenderer {
	return &ListRenderer{
		titleStyle:  lipgloss.NewStyle().Bold(true).Foreground(shared.Mauve),
		itemStyle:   lipgloss.NewStyle().Foreground(shared.Text),
		bulletStyle: lipgloss.NewStyle().Foreground(shared.Blue),
		bullet:      "•",
		indent:      "  ",
	}
}

// Render formats a title and list of items.
func (l *ListRenderer) Render(title string, items []string) string {
	var sb strings.Builder

	l.writeTitle(&sb, title)

	for _, item := range items {
		sb.WriteString(l.indent)
		sb.WriteString(l.bulletStyle.Render(l.bullet))
		sb.WriteString(" ")
		sb.WriteString(l.itemStyle.Render(item))
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderMap formats a title and map of key-value pairs, sorted by key.
func (l *ListRenderer) RenderMap(title string, items map[string]string) string {
	var sb strings.Builder

	l.writeTitle(&sb, title)

	keys := make([]string, 0, len(items))
	maxKeyLen := 0
	for key := range items {
		keys = append(keys, key)
		if len(key) > maxKeyLen {
			maxKeyLen = len(key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(l.indent)
		sb.WriteString(l.bulletStyle.Render(fmt.Sprintf("%-*s", maxKeyLen, key)))
		sb.WriteString(": ")
		sb.WriteString(l.itemStyle.Render(items[key]))
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderGrouped formats items grouped by category, groups sorted by name.
func (l *ListRenderer) RenderGrouped(title string, groups map[string][]string) string {
	var sb strings.Builder

	l.writeTitle(&sb, title)

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, group := range names {
		sb.WriteString(l.indent)
		sb.WriteString(l.bulletStyle.Render(group))
		sb.WriteString(":\n")

		for _, item := range groups[group] {
			sb.WriteString(l.indent)
			sb.WriteString(l.indent)
			sb.WriteString(l.itemStyle.Render("- " + item))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (l *ListRenderer) writeTitle(sb *strings.Builder, title string) {
	if title == "" {
		return
	}
	sb.WriteString(l.titleStyle.Render(title))
	sb.WriteString("\n")
}
