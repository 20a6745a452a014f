// Package prompt builds the text sent to the completion provider. Every
// function here is pure: the same inputs always produce the same prompt.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Block is one labelled piece of context evidence.
type Block struct {
	Heading string
	Body    string
}

// Field describes one key of a JSON answer.
type Field struct {
	Name        string
	Description string
}

// JSONShape is the exact object the model must answer with.
type JSONShape struct {
	Fields []Field
}

// Names returns the field names in declaration order.
func (s *JSONShape) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Spec is the input to Assemble. Empty parts are omitted from the output.
type Spec struct {
	Role         string
	Task         string
	Instructions string
	Context      []Block
	Rules        []string
	Output       *JSONShape
}

// Assemble renders s in a fixed section order: role, task, instructions,
// context blocks, rules, output format.
func Assemble(s Spec) string {
	var b strings.Builder

	writeLine(&b, "Rol", s.Role)
	writeLine(&b, "Tarea", s.Task)
	writeLine(&b, "Instrucciones", s.Instructions)

	for _, blk := range s.Context {
		if strings.TrimSpace(blk.Body) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", blk.Heading, strings.TrimSpace(blk.Body))
	}

	if len(s.Rules) > 0 {
		b.WriteString("\nREGLAS CRÍTICAS:\n")
		for i, r := range s.Rules {
			fmt.Fprintf(&b, "%d. %s\n", i+1, r)
		}
	}

	if s.Output != nil && len(s.Output.Fields) > 0 {
		b.WriteString("\n--- INSTRUCCIONES DE FORMATO DE SALIDA ---\n")
		b.WriteString("Debes responder *exactamente* con un objeto JSON. No incluyas \"```json\" ni ningún otro texto antes o después del objeto.\n")
		b.WriteString("El formato debe ser:\n{\n")
		for i, f := range s.Output.Fields {
			sep := ","
			if i == len(s.Output.Fields)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  %s: %s%s\n", quote(f.Name), quote(f.Description), sep)
		}
		b.WriteString("}\n")
	}

	return strings.TrimSpace(b.String())
}

func writeLine(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

// quote renders s as a JSON string literal without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimRight(buf.String(), "\n")
}
