package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/ulpiano/internal/domain"
)

// Paths locates the corpus files. An empty path loads an empty table.
type Paths struct {
	Glossary string `yaml:"glossary"`
	Topics   string `yaml:"topics"`
	Excerpts string `yaml:"excerpts"`
}

// glossaryRecord is the on-disk shape of manual.json.
type glossaryRecord struct {
	Term       string   `json:"termino"`
	Definition string   `json:"definicion"`
	Synonyms   []string `json:"sinonimos,omitempty"`
}

// topicRecord is the on-disk shape of indice.json.
type topicRecord struct {
	Title    string   `json:"titulo"`
	Page     int      `json:"pagina"`
	Keywords []string `json:"palabrasClave,omitempty"`
}

// excerptRecord is the on-disk shape of the translated digest.
type excerptRecord struct {
	Citation       string `json:"cita"`
	SourceText     string `json:"texto_latin"`
	TranslatedText string `json:"texto_espanol"`
}

// LoadFiles reads the three corpora and builds a Repository. The excerpt
// collection may be a JSON array (.json), raw digest text (.txt) or an HTML
// page of the digest (.html, .htm).
func LoadFiles(paths Paths) (*Repository, error) {
	glossary, err := loadGlossary(paths.Glossary)
	if err != nil {
		return nil, err
	}
	topics, err := loadTopics(paths.Topics)
	if err != nil {
		return nil, err
	}
	excerpts, err := LoadExcerpts(paths.Excerpts)
	if err != nil {
		return nil, err
	}
	repo, err := New(glossary, topics, excerpts)
	if err != nil {
		return nil, fmt.Errorf("validating corpora: %w", err)
	}
	return repo, nil
}

func loadGlossary(path string) ([]domain.GlossaryEntry, error) {
	records, err := readJSONArray[glossaryRecord](path)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.GlossaryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, domain.GlossaryEntry{
			Term:       r.Term,
			Definition: r.Definition,
			Synonyms:   r.Synonyms,
		})
	}
	return entries, nil
}

func loadTopics(path string) ([]domain.TopicEntry, error) {
	records, err := readJSONArray[topicRecord](path)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.TopicEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, domain.TopicEntry{
			Title:    r.Title,
			Page:     r.Page,
			Keywords: r.Keywords,
		})
	}
	return entries, nil
}

// LoadExcerpts reads an excerpt collection: the translated-digest JSON
// format, a raw digest text (.txt) or a digest HTML page (.html, .htm).
func LoadExcerpts(path string) ([]domain.ExcerptEntry, error) {
	if path == "" {
		return nil, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return ParseDigestText(string(data)), nil
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		text, err := ExtractHTMLText(f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return ParseDigestText(text), nil
	}

	records, err := readJSONArray[excerptRecord](path)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.ExcerptEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, domain.ExcerptEntry{
			Citation:       strings.TrimSpace(r.Citation),
			SourceText:     strings.TrimSpace(r.SourceText),
			TranslatedText: strings.TrimSpace(r.TranslatedText),
		})
	}
	return entries, nil
}

func readJSONArray[T any](path string) ([]T, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}

// WriteExcerptsJSON encodes excerpts in the translated-digest file format.
func WriteExcerptsJSON(w io.Writer, excerpts []domain.ExcerptEntry) error {
	records := make([]excerptRecord, 0, len(excerpts))
	for _, e := range excerpts {
		records = append(records, excerptRecord{
			Citation:       e.Citation,
			SourceText:     e.SourceText,
			TranslatedText: e.TranslatedText,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}
