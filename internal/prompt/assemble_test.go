package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_SectionOrder(t *testing.T) {
	out := Assemble(Spec{
		Role:         "Juez",
		Task:         "Resolver",
		Instructions: "Breve",
		Context:      []Block{{Heading: "A", Body: "uno"}, {Heading: "B", Body: "  "}},
		Rules:        []string{"primera", "segunda"},
		Output:       &JSONShape{Fields: []Field{{Name: "x", Description: "equis"}}},
	})

	role := strings.Index(out, "Rol: Juez")
	task := strings.Index(out, "Tarea: Resolver")
	instr := strings.Index(out, "Instrucciones: Breve")
	ctx := strings.Index(out, "--- A ---\nuno")
	rules := strings.Index(out, "1. primera\n2. segunda")
	format := strings.Index(out, `"x": "equis"`)

	for _, idx := range []int{role, task, instr, ctx, rules, format} {
		require.GreaterOrEqual(t, idx, 0, out)
	}
	assert.True(t, role < task && task < instr && instr < ctx && ctx < rules && rules < format)
	assert.NotContains(t, out, "--- B ---")
}

func TestAssemble_OmitsEmptyParts(t *testing.T) {
	out := Assemble(Spec{Task: "Solo tarea"})
	assert.Equal(t, "Tarea: Solo tarea", out)
}

func TestAssemble_JSONShape(t *testing.T) {
	out := Assemble(Spec{Task: "t", Output: DefineShape})

	assert.Contains(t, out, `"respuesta_principal": "Tu explicación`)
	assert.Contains(t, out, `"conexion_moderna": "Tu explicación muy concisa`)
	assert.Contains(t, out, "exactamente* con un objeto JSON")
	assert.True(t, strings.HasSuffix(out, "}"))
}

func TestJSONShape_Names(t *testing.T) {
	assert.Equal(t, []string{FieldLine, FieldDegree, FieldExplanation}, KinshipShape.Names())
	var nilShape *JSONShape
	assert.Nil(t, nilShape.Names())
}

func TestQuote_NoHTMLEscaping(t *testing.T) {
	assert.Equal(t, `"a <b> & \"c\""`, quote(`a <b> & "c"`))
}
