package testutil

import (
	"testing"

	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/domain"
)

// Glossary returns a small glossary covering the course's core vocabulary.
func Glossary() []domain.GlossaryEntry {
	return []domain.GlossaryEntry{
		{
			Term:       "Compraventa",
			Definition: "Contrato consensual por el que el vendedor se obliga a entregar una cosa y el comprador a pagar un precio.",
			Synonyms:   []string{"emptio venditio"},
		},
		{
			Term:       "Hurto",
			Definition: "Furtum: manejo fraudulento de una cosa mueble ajena con ánimo de lucro.",
			Synonyms:   []string{"furtum"},
		},
		{
			Term:       "Usucapión",
			Definition: "Adquisición de la propiedad por la posesión continuada durante el tiempo fijado por la ley.",
			Synonyms:   []string{"usucapio"},
		},
		{
			Term:       "Dolo",
			Definition: "Maquinación o engaño empleado para perjudicar a otro.",
		},
		{
			Term:       "Actio doli",
			Definition: "Acción penal e infamante concedida contra quien actuó con dolo.",
		},
	}
}

// Topics returns a topic index where "Contratos" sits on page 40.
func Topics() []domain.TopicEntry {
	return []domain.TopicEntry{
		{Title: "Derechos reales", Page: 25, Keywords: []string{"propiedad", "usucapion", "servidumbres"}},
		{Title: "Contratos", Page: 40, Keywords: []string{"compraventa", "arrendamiento", "mandato"}},
		{Title: "Contratos reales", Page: 48, Keywords: []string{"mutuo", "comodato", "deposito"}},
		{Title: "Delitos privados", Page: 55, Keywords: []string{"hurto", "furtum", "rapina", "injuria"}},
	}
}

// Excerpts returns a handful of digest fragments with translations.
func Excerpts() []domain.ExcerptEntry {
	return []domain.ExcerptEntry{
		{
			Citation:       "Dig.47.2.1.3",
			SourceText:     "Furtum est contrectatio rei fraudulosa lucri faciendi gratia.",
			TranslatedText: "El hurto es el manejo fraudulento de una cosa con ánimo de lucro.",
		},
		{
			Citation:       "Dig.18.1.1",
			SourceText:     "Origo emendi vendendique a permutationibus coepit.",
			TranslatedText: "El origen de la compra y de la venta comenzó con las permutas.",
		},
		{
			Citation:       "Dig.41.2.1",
			SourceText:     "Possessio appellata est a sedibus.",
			TranslatedText: "La posesión fue llamada así por la sede.",
		},
		{
			Citation:       "Dig.47.2.3",
			SourceText:     "Fur est qui dolo malo rem alienam contrectat.",
			TranslatedText: "Es ladrón el que con dolo malo maneja una cosa ajena; así se comete hurto.",
		},
	}
}

// NewTestCorpus builds a corpus.Repository from the fixture tables.
func NewTestCorpus(t *testing.T) *corpus.Repository {
	t.Helper()
	repo, err := corpus.New(Glossary(), Topics(), Excerpts())
	if err != nil {
		t.Fatalf("failed to build test corpus: %v", err)
	}
	return repo
}
