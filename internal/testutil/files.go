package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/ulpiano/internal/corpus"
)

const (
	glossaryJSON = `[
	{"termino": "Compraventa", "definicion": "Contrato consensual por el que el vendedor se obliga a entregar una cosa y el comprador a pagar un precio.", "sinonimos": ["emptio venditio"]},
	{"termino": "Hurto", "definicion": "Furtum: manejo fraudulento de una cosa mueble ajena con ánimo de lucro.", "sinonimos": ["furtum"]}
]`
	topicsJSON = `[
	{"titulo": "Contratos", "pagina": 40, "palabrasClave": ["compraventa", "arrendamiento"]},
	{"titulo": "Delitos privados", "pagina": 55, "palabrasClave": ["hurto", "furtum"]}
]`
	excerptsJSON = `[
	{"cita": "Dig.47.2.1.3", "texto_latin": "Furtum est contrectatio rei fraudulosa lucri faciendi gratia.", "texto_espanol": "El hurto es el manejo fraudulento de una cosa con ánimo de lucro."}
]`
)

// WriteCorpusFiles writes a small two-entry corpus into dir and returns its
// paths.
func WriteCorpusFiles(t *testing.T, dir string) corpus.Paths {
	t.Helper()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		return path
	}
	return corpus.Paths{
		Glossary: write("glosario.json", glossaryJSON),
		Topics:   write("indice.json", topicsJSON),
		Excerpts: write("digesto.json", excerptsJSON),
	}
}
