package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/domain"
	"github.com/alexanderramin/ulpiano/internal/intelligence"
	"github.com/alexanderramin/ulpiano/internal/repository"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestFormatLookup(t *testing.T) {
	resp := &intelligence.LookupResponse{
		AnswerText:           "La compraventa es un contrato consensual.",
		ModernConnectionText: "Pervive en el Código Civil.",
		Page:                 intPtr(40),
		Title:                strPtr("Contratos"),
		Citations:            []string{"Dig.18.1.1"},
		Cached:               true,
	}

	out := stripANSI(FormatLookup("compraventa", intelligence.ModeDefine, resp))

	assert.Contains(t, out, "DEFINICIÓN: COMPRAVENTA")
	assert.Contains(t, out, "La compraventa es un contrato consensual.")
	assert.Contains(t, out, "[caché]")
	assert.Contains(t, out, "DERECHO MODERNO")
	assert.Contains(t, out, "Pervive en el Código Civil.")
	assert.Contains(t, out, "Contratos")
	assert.Contains(t, out, "p. 40")
	assert.Contains(t, out, "§ Dig.18.1.1")
}

func TestFormatLookup_NoReference(t *testing.T) {
	resp := &intelligence.LookupResponse{AnswerText: "Caso: Ticio vende un esclavo."}

	out := stripANSI(FormatLookup("", intelligence.ModeGenerateCase, resp))

	assert.Contains(t, out, "CASO PRÁCTICO")
	assert.Contains(t, out, "Sin referencia en el manual.")
	assert.NotContains(t, out, "DERECHO MODERNO")
	assert.NotContains(t, out, "DIGESTO")
	assert.NotContains(t, out, "[caché]")
}

func TestFormatPage(t *testing.T) {
	out := stripANSI(FormatPage("hurto", domain.PageRef{Page: 55, Title: "Delitos privados"}))
	assert.Contains(t, out, "MANUAL: HURTO")
	assert.Contains(t, out, "Delitos privados")
	assert.Contains(t, out, "p. 55")

	out = stripANSI(FormatPage("hurto", domain.PageRef{Title: "Delitos privados"}))
	assert.Contains(t, out, "sin página")

	out = stripANSI(FormatPage("nada", domain.PageRef{}))
	assert.Contains(t, out, "Sin referencia en el manual.")
}

func TestFormatKinship(t *testing.T) {
	out := stripANSI(FormatKinship("mi abuelo", "mi nieto", &intelligence.KinshipAnswer{
		Line:        "recta descendente",
		Degree:      "2",
		Explanation: "Se cuentan dos generaciones.",
	}))

	assert.Contains(t, out, "PARENTESCO: MI ABUELO Y MI NIETO")
	assert.Contains(t, out, "recta descendente")
	assert.Contains(t, out, "Grado")
	assert.Contains(t, out, "Se cuentan dos generaciones.")
}

func TestFormatModern(t *testing.T) {
	out := stripANSI(FormatModern("usucapión", &intelligence.ModernAnswer{Text: "Prescripción adquisitiva."}))
	assert.Contains(t, out, "DERECHO MODERNO: USUCAPIÓN")
	assert.Contains(t, out, "Prescripción adquisitiva.")
}

func TestFormatStats(t *testing.T) {
	out := stripANSI(FormatStats(corpus.Stats{Glossary: 5, Topics: 4, Excerpts: 3}, nil))
	assert.Contains(t, out, "5 términos")
	assert.Contains(t, out, "4 temas")
	assert.Contains(t, out, "3 fragmentos")
	assert.NotContains(t, out, "ÚLTIMA IMPORTACIÓN")

	out = stripANSI(FormatStats(corpus.Stats{}, &repository.ImportRecord{
		ID:         "abc",
		ImportedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Source:     "data/glosario.json",
	}))
	assert.Contains(t, out, "ÚLTIMA IMPORTACIÓN")
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "data/glosario.json")
}

func TestRenderFields_SkipsEmptyValues(t *testing.T) {
	out := stripANSI(RenderFields([]Field{
		{Label: "Tema", Value: "Contratos"},
		{Label: "Página larga", Value: ""},
		{Label: "Grado", Value: "2"},
	}))
	assert.Equal(t, "  Tema   Contratos\n  Grado  2\n", out)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "DIGESTO\n───────", stripANSI(Header("Digesto")))
	assert.Equal(t, "ÍNDICE\n──────", stripANSI(Header("índice")))
}

func TestFormatTranslation(t *testing.T) {
	out := stripANSI(FormatTranslation(intelligence.TranslateReport{Translated: 4}, "digesto.json"))
	assert.Equal(t, "✔ 4 fragmentos traducidos en digesto.json\n", out)

	out = stripANSI(FormatTranslation(intelligence.TranslateReport{Translated: 2, Failed: 1, Skipped: 3}, "digesto.json"))
	assert.Equal(t, "! 2 fragmentos traducidos en digesto.json (1 fallidos, 3 ya traducidos)\n", out)
}
