package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled row of a key/value listing.
type Field struct {
	Label string
	Value string
}

// RenderFields aligns labels in a dim column followed by their values.
// Rows with an empty value are skipped.
func RenderFields(fields []Field) string {
	width := 0
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		if w := lipgloss.Width(f.Label); w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		pad := width - lipgloss.Width(f.Label)
		b.WriteString("  ")
		b.WriteString(StyleDim.Render(f.Label))
		b.WriteString(strings.Repeat(" ", pad+2))
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	return b.String()
}
