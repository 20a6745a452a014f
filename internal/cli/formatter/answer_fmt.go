package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/domain"
	"github.com/alexanderramin/ulpiano/internal/intelligence"
	"github.com/alexanderramin/ulpiano/internal/repository"
)

// modeTitles labels the answer box for each lookup mode.
var modeTitles = map[intelligence.Mode]string{
	intelligence.ModeDefine:       "Definición",
	intelligence.ModeGenerateCase: "Caso práctico",
	intelligence.ModeResolveCase:  "Resolución",
}

// FormatLookup renders a lookup answer with its manual reference.
func FormatLookup(term string, mode intelligence.Mode, resp *intelligence.LookupResponse) string {
	var b strings.Builder

	title := modeTitles[mode]
	if term != "" {
		title += ": " + term
	}
	b.WriteString(RenderBox(title, Wrap(resp.AnswerText, answerWidth)))
	b.WriteString(CachedBadge(resp.Cached))
	b.WriteString("\n\n")

	if resp.ModernConnectionText != "" {
		b.WriteString(Header("Derecho moderno"))
		b.WriteString("\n")
		b.WriteString(Wrap(resp.ModernConnectionText, answerWidth))
		b.WriteString("\n\n")
	}

	b.WriteString(formatManualRef(resp.Page, resp.Title))

	if len(resp.Citations) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Digesto"))
		b.WriteString("\n")
		for _, c := range resp.Citations {
			fmt.Fprintf(&b, "  %s %s\n", StyleBlue.Render("§"), c)
		}
	}
	return b.String()
}

// FormatPage renders a manual page reference.
func FormatPage(term string, ref domain.PageRef) string {
	return fmt.Sprintf("%s\n%s", Header("Manual: "+term), formatManualRef(ref.PagePtr(), ref.TitlePtr()))
}

func formatManualRef(page *int, title *string) string {
	if title == nil {
		return "  " + StyleYellow.Render("Sin referencia en el manual.") + "\n"
	}
	pageText := Dim("sin página")
	if page != nil {
		pageText = StyleGreen.Render(fmt.Sprintf("p. %d", *page))
	}
	return RenderFields([]Field{
		{Label: "Tema", Value: Bold(*title)},
		{Label: "Página", Value: pageText},
	})
}

// FormatModern renders the modern-law connection of a term.
func FormatModern(term string, ans *intelligence.ModernAnswer) string {
	return RenderBox("Derecho moderno: "+term, Wrap(ans.Text, answerWidth)) + CachedBadge(ans.Cached) + "\n"
}

// FormatKinship renders a kinship computation.
func FormatKinship(p1, p2 string, ans *intelligence.KinshipAnswer) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Parentesco: %s y %s", p1, p2)))
	b.WriteString(CachedBadge(ans.Cached))
	b.WriteString("\n")
	b.WriteString(RenderFields([]Field{
		{Label: "Línea", Value: Bold(ans.Line)},
		{Label: "Grado", Value: StyleGreen.Render(ans.Degree)},
	}))
	if ans.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(Wrap(ans.Explanation, answerWidth))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatStats renders the loaded corpus sizes and, when known, the snapshot
// they came from.
func FormatStats(stats corpus.Stats, last *repository.ImportRecord) string {
	var b strings.Builder
	b.WriteString(Header("Corpus"))
	b.WriteString("\n")
	b.WriteString(RenderFields([]Field{
		{Label: "Glosario", Value: fmt.Sprintf("%d términos", stats.Glossary)},
		{Label: "Índice", Value: fmt.Sprintf("%d temas", stats.Topics)},
		{Label: "Digesto", Value: fmt.Sprintf("%d fragmentos", stats.Excerpts)},
	}))
	if last != nil {
		b.WriteString("\n")
		b.WriteString(Header("Última importación"))
		b.WriteString("\n")
		b.WriteString(RenderFields([]Field{
			{Label: "ID", Value: last.ID},
			{Label: "Fecha", Value: last.ImportedAt.Local().Format(time.DateTime)},
			{Label: "Origen", Value: last.Source},
		}))
	}
	return b.String()
}

// FormatImport confirms a snapshot import.
func FormatImport(rec *repository.ImportRecord, dbPath string) string {
	return fmt.Sprintf("%s Corpus importado en %s (%d términos, %d temas, %d fragmentos)\n%s\n",
		StyleGreen.Render("✔"),
		Bold(dbPath),
		rec.Stats.Glossary, rec.Stats.Topics, rec.Stats.Excerpts,
		Dim("importación "+rec.ID),
	)
}

// FormatDigest confirms a digest conversion.
func FormatDigest(count int, output string) string {
	return fmt.Sprintf("%s %d fragmentos escritos en %s\n", StyleGreen.Render("✔"), count, Bold(output))
}

// FormatTranslation summarizes a digest translation run.
func FormatTranslation(report intelligence.TranslateReport, output string) string {
	mark := StyleGreen.Render("✔")
	if report.Failed > 0 {
		mark = StyleYellow.Render("!")
	}
	line := fmt.Sprintf("%s %d fragmentos traducidos en %s", mark, report.Translated, Bold(output))
	var notes []string
	if report.Failed > 0 {
		notes = append(notes, StyleRed.Render(fmt.Sprintf("%d fallidos", report.Failed)))
	}
	if report.Skipped > 0 {
		notes = append(notes, fmt.Sprintf("%d ya traducidos", report.Skipped))
	}
	if len(notes) > 0 {
		line += " (" + strings.Join(notes, ", ") + ")"
	}
	return line + "\n"
}
