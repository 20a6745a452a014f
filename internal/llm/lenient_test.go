package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var defineSchema = Schema{
	AnswerField: "respuesta_principal",
	Required:    []string{"conexion_moderna"},
}

func TestParseLenient_Stages(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		stage  RepairStage
		answer string
		modern string
	}{
		{
			name:   "direct",
			raw:    `{"respuesta_principal":"La posesión...","conexion_moderna":"Código Civil art. 430"}`,
			stage:  StageDirect,
			answer: "La posesión...",
			modern: "Código Civil art. 430",
		},
		{
			name:   "fenced",
			raw:    "```json\n{\"respuesta_principal\":\"A\",\"conexion_moderna\":\"B\"}\n```",
			stage:  StageFenced,
			answer: "A",
			modern: "B",
		},
		{
			name:   "inline fence",
			raw:    "```json{\"respuesta_principal\":\"A\",\"conexion_moderna\":\"B\"}```",
			stage:  StageFenced,
			answer: "A",
			modern: "B",
		},
		{
			name:   "surrounding prose",
			raw:    "Aquí tienes la respuesta:\n{\"respuesta_principal\":\"A\",\"conexion_moderna\":\"B\"}\nEspero que sirva.",
			stage:  StageExtracted,
			answer: "A",
			modern: "B",
		},
		{
			name:   "comments",
			raw:    "Respuesta: {\"respuesta_principal\":\"A\", // nota\n\"conexion_moderna\":\"B\"}",
			stage:  StageExtracted,
			answer: "A",
			modern: "B",
		},
		{
			name:   "plain text",
			raw:    "La usucapión es un modo de adquirir.",
			stage:  StageFallback,
			answer: "La usucapión es un modo de adquirir.",
			modern: DefaultFallbackValue,
		},
		{
			name:   "fenced plain text",
			raw:    "```\nSolo texto\n```",
			stage:  StageFallback,
			answer: "Solo texto",
			modern: DefaultFallbackValue,
		},
		{
			name:   "empty",
			raw:    "   ",
			stage:  StageFallback,
			answer: DefaultFallbackAnswer,
			modern: DefaultFallbackValue,
		},
		{
			name:   "missing field filled",
			raw:    `{"respuesta_principal":"A"}`,
			stage:  StageDirect,
			answer: "A",
			modern: DefaultFallbackValue,
		},
		{
			name:   "answer under another key",
			raw:    `{"respuesta":"La posesión es un hecho."}`,
			stage:  StageDirect,
			answer: `{"respuesta":"La posesión es un hecho."}`,
			modern: DefaultFallbackValue,
		},
		{
			name:   "answer missing after extraction",
			raw:    "```json\n{\"a\":1}{\"b\":2}\n```",
			stage:  StageExtracted,
			answer: `{"a":1}{"b":2}`,
			modern: DefaultFallbackValue,
		},
		{
			name:   "broken json",
			raw:    `{"respuesta_principal": "A", `,
			stage:  StageFallback,
			answer: `{"respuesta_principal": "A",`,
			modern: DefaultFallbackValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, stage := ParseLenient(tt.raw, defineSchema)
			assert.Equal(t, tt.stage, stage)
			assert.Equal(t, tt.answer, obj["respuesta_principal"])
			assert.Equal(t, tt.modern, obj["conexion_moderna"])
		})
	}
}

func TestParseLenient_NonStringValues(t *testing.T) {
	obj, stage := ParseLenient(`{"linea":null,"grado":4,"explicacion":"Cuatro generaciones."}`, Schema{
		AnswerField:   "explicacion",
		Required:      []string{"linea", "grado"},
		FallbackValue: "?",
	})
	assert.Equal(t, StageDirect, stage)
	assert.Equal(t, "?", obj["linea"])
	assert.Equal(t, "4", obj["grado"])
	assert.Equal(t, "Cuatro generaciones.", obj["explicacion"])
}

func TestParseLenient_LeadingDecimal(t *testing.T) {
	obj, stage := ParseLenient(`nota {"respuesta_principal":"A","score":.5}`, defineSchema)
	assert.Equal(t, StageExtracted, stage)
	assert.Equal(t, "0.5", obj["score"])
}

func TestParseLenient_NeverPanics(t *testing.T) {
	inputs := []string{"", "{", "}", "}{", "{{}}", "[1,2]", `"str"`, "```", "{\"a\":", "\x00\xff", `{"a":"\u00"}`}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			obj, _ := ParseLenient(in, defineSchema)
			assert.NotEmpty(t, obj["respuesta_principal"], "input %q", in)
		})
	}
}

func TestRepairStage_String(t *testing.T) {
	assert.Equal(t, "direct", StageDirect.String())
	assert.Equal(t, "fenced", StageFenced.String())
	assert.Equal(t, "extracted", StageExtracted.String())
	assert.Equal(t, "fallback", StageFallback.String())
}
