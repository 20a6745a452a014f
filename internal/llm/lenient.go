package llm

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RepairStage records how ParseLenient obtained its result.
type RepairStage int

const (
	StageDirect RepairStage = iota
	StageFenced
	StageExtracted
	StageFallback
)

func (s RepairStage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageFenced:
		return "fenced"
	case StageExtracted:
		return "extracted"
	default:
		return "fallback"
	}
}

// Object is a flat structured answer. Non-string JSON values are rendered
// as their JSON text.
type Object map[string]string

// DefaultFallbackAnswer is used when the model returned no usable text.
const DefaultFallbackAnswer = "No se ha podido obtener una respuesta del modelo. Inténtalo de nuevo."

// DefaultFallbackValue fills required fields the model left out.
const DefaultFallbackValue = "No disponible."

// Schema describes the object a structured prompt asked for.
type Schema struct {
	// AnswerField receives the text without code fences when nothing parses
	// or the parsed object lacks it.
	AnswerField string
	// Required fields are always present in the result.
	Required []string
	// FallbackValue fills missing required fields. Empty uses DefaultFallbackValue.
	FallbackValue string
}

// ParseLenient turns model output into an Object. It tries, in order: the
// raw text, the text without code fences, and the span between the first
// "{" and the last "}" (also with comments removed and ".5" style numbers
// fixed). When nothing parses the whole text becomes the answer field.
// It never fails and the answer field is always present.
func ParseLenient(raw string, schema Schema) (Object, RepairStage) {
	unfenced := stripFences(raw)
	answer := strings.TrimSpace(unfenced)
	if answer == "" {
		answer = DefaultFallbackAnswer
	}

	if obj, ok := parseObject(raw); ok {
		return schema.complete(obj, answer), StageDirect
	}
	if obj, ok := parseObject(unfenced); ok {
		return schema.complete(obj, answer), StageFenced
	}

	if start, end := strings.IndexByte(unfenced, '{'), strings.LastIndexByte(unfenced, '}'); start >= 0 && end > start {
		span := unfenced[start : end+1]
		if obj, ok := parseObject(span); ok {
			return schema.complete(obj, answer), StageExtracted
		}
		if obj, ok := parseObject(repairJSON(span)); ok {
			return schema.complete(obj, answer), StageExtracted
		}
	}
	if m, err := ExtractJSON[map[string]any](raw, nil); err == nil && m != nil {
		return schema.complete(flatten(m), answer), StageExtracted
	}

	return schema.complete(Object{}, answer), StageFallback
}

// complete fills a missing answer field with the model's own text and any
// other missing required field with the fallback value.
func (s Schema) complete(obj Object, answer string) Object {
	if s.AnswerField != "" && strings.TrimSpace(obj[s.AnswerField]) == "" {
		obj[s.AnswerField] = answer
	}
	fallback := s.FallbackValue
	if fallback == "" {
		fallback = DefaultFallbackValue
	}
	for _, f := range s.Required {
		if strings.TrimSpace(obj[f]) == "" {
			obj[f] = fallback
		}
	}
	return obj
}

func parseObject(s string) (Object, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return flatten(m), true
}

func flatten(m map[string]any) Object {
	obj := make(Object, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
			obj[k] = ""
		case string:
			obj[k] = val
		case json.Number:
			obj[k] = val.String()
		default:
			var buf bytes.Buffer
			enc := json.NewEncoder(&buf)
			enc.SetEscapeHTML(false)
			if err := enc.Encode(val); err == nil {
				obj[k] = strings.TrimSpace(buf.String())
			}
		}
	}
	return obj
}
