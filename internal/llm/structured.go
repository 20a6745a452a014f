package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded value after extraction.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object found in a model reply. Markdown
// fences, surrounding prose, comments and ".5"-style numbers are tolerated.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var out T

	block := extractJSONBlock(stripFences(raw))
	if block == "" {
		return out, fmt.Errorf("%w: no JSON object in reply", ErrInvalidOutput)
	}
	if err := json.Unmarshal([]byte(repairJSON(block)), &out); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		if err := validator(out); err != nil {
			var zero T
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

func repairJSON(s string) string {
	return fixLeadingDecimals(stripJSONComments(s))
}

// stripFences drops markdown code fences wherever they appear.
func stripFences(s string) string {
	r := strings.NewReplacer("```json", "", "```JSON", "", "```", "")
	return strings.TrimSpace(r.Replace(s))
}

// lexer tracks whether the current byte lies inside a JSON string literal.
type lexer struct {
	inString bool
	escaped  bool
}

// structural advances over c and reports whether c is outside any string
// literal (opening and closing quotes count as inside).
func (l *lexer) structural(c byte) bool {
	switch {
	case l.escaped:
		l.escaped = false
		return false
	case l.inString && c == '\\':
		l.escaped = true
		return false
	case c == '"':
		l.inString = !l.inString
		return false
	}
	return !l.inString
}

// extractJSONBlock returns the first balanced {...} block, or "".
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	var lx lexer
	depth := 0
	for i := start; i < len(s); i++ {
		if !lx.structural(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth--; depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// stripJSONComments removes // and /* */ comments outside string values.
func stripJSONComments(s string) string {
	var (
		b  strings.Builder
		lx lexer
	)
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if lx.structural(c) && c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				for i+1 < len(s) && s[i+1] != '\n' {
					i++
				}
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end < 0 {
					i = len(s)
				} else {
					i += 2 + end + 1
				}
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// fixLeadingDecimals rewrites ".8" and "-.3" as "0.8" and "-0.3" outside
// string values.
func fixLeadingDecimals(s string) string {
	var (
		b  strings.Builder
		lx lexer
	)
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if lx.structural(c) && c == '.' && i+1 < len(s) && isDigit(s[i+1]) && startsNumber(lastNonSpace(s[:i])) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func lastNonSpace(s string) byte {
	t := strings.TrimRight(s, " \t\r\n")
	if t == "" {
		return 0
	}
	return t[len(t)-1]
}

func startsNumber(prev byte) bool {
	return strings.IndexByte(":,[{-", prev) >= 0 || prev == 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
