package prompt

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ulpiano/internal/domain"
)

// CitationRule forbids fabricated numbered citations. It is included in
// every template that asks the model to cite sources.
const CitationRule = `Nunca inventes una cita numerada (por ejemplo "Dig.41.2.3" o "Gai. 2.65") que no aparezca en el contexto proporcionado. Si no se te ha dado ninguna fuente, cita únicamente por autor o principio (por ejemplo "según Ulpiano" o "el principio nemo plus iuris").`

// DigestMarker highlights the selected digest passage in an answer.
const DigestMarker = "# APUNTE DE ULPIANOIA: IUS ROMANUM #"

// Field names of the structured answers.
const (
	FieldAnswer      = "respuesta_principal"
	FieldModern      = "conexion_moderna"
	FieldLine        = "linea"
	FieldDegree      = "grado"
	FieldExplanation = "explicacion"
)

// Evidence is the local material gathered for one query.
type Evidence struct {
	Definition string
	Page       domain.PageRef
	Excerpts   []domain.ExcerptEntry
}

// DefineShape is the answer format for concept explanations.
var DefineShape = &JSONShape{Fields: []Field{
	{Name: FieldAnswer, Description: "Tu explicación breve y didáctica del concepto (máximo DOS PÁRRAFOS cortos). No uses saludos, ve directo al concepto. Si encontraste una cita del Digesto relevante, inclúyela aquí con el formato '" + DigestMarker + "'."},
	{Name: FieldModern, Description: "Tu explicación muy concisa (máximo un párrafo) de la herencia del concepto romano en el derecho español moderno."},
}}

// KinshipShape is the answer format for the kinship calculator.
var KinshipShape = &JSONShape{Fields: []Field{
	{Name: FieldLine, Description: "Línea de parentesco: recta ascendente, recta descendente o colateral."},
	{Name: FieldDegree, Description: "Grado de parentesco según el cómputo romano, solo el número."},
	{Name: FieldExplanation, Description: "Una o dos frases que expliquen el cómputo contando generaciones hasta el tronco común."},
}}

// GlossaryBlock carries the manual definition, or tells the model to use
// general knowledge when there is none.
func GlossaryBlock(definition string) Block {
	definition = strings.TrimSpace(definition)
	if definition == "" {
		definition = "(vacío) No hay definición en el manual: usa tu conocimiento general."
	}
	return Block{Heading: "CONTEXTO DE REFERENCIA (MANUAL)", Body: fmt.Sprintf("%q", definition)}
}

// PageBlock cites the manual page. It is empty when no topic matched.
func PageBlock(ref domain.PageRef) Block {
	if !ref.Found() {
		return Block{Heading: "REFERENCIA DEL MANUAL"}
	}
	body := "Tema: " + ref.Title
	if p := ref.PagePtr(); p != nil {
		body += fmt.Sprintf(", página %d", *p)
	}
	return Block{Heading: "REFERENCIA DEL MANUAL", Body: body}
}

// ExcerptBlock lists the candidate digest passages and asks the model to
// keep only the most definitional one. It is empty without excerpts.
func ExcerptBlock(excerpts []domain.ExcerptEntry) Block {
	if len(excerpts) == 0 {
		return Block{Heading: "FUENTE ADICIONAL: DIGESTO DE JUSTINIANO"}
	}
	var b strings.Builder
	b.WriteString("He encontrado las siguientes citas del Digesto. Tu tarea es:\n")
	b.WriteString("1. Seleccionar la ÚNICA cita más relevante y académica, priorizando la que contenga la DEFINICIÓN JURÍDICA FUNDAMENTAL del concepto (por ejemplo 'ius est', 'actio est'). No elijas un caso práctico o una mención tangencial.\n")
	b.WriteString("2. Traducir al español de forma profesional el texto latino de la cita seleccionada.\n")
	fmt.Fprintf(&b, "3. Incluir la cita seleccionada (referencia, latín y tu traducción) destacándola con el formato `%s` justo antes de tu conclusión. Ignora las citas no seleccionadas.\n", DigestMarker)
	for i, e := range excerpts {
		fmt.Fprintf(&b, "\nCita %d (%s)\n", i+1, e.Citation)
		if e.SourceText != "" {
			fmt.Fprintf(&b, "TEXTO LATÍN: %q\n", e.SourceText)
		}
		if e.TranslatedText != "" {
			fmt.Fprintf(&b, "TRADUCCIÓN DE REFERENCIA: %q\n", e.TranslatedText)
		}
	}
	return Block{Heading: "FUENTE ADICIONAL: DIGESTO DE JUSTINIANO", Body: b.String()}
}

func evidenceBlocks(ev Evidence) []Block {
	return []Block{GlossaryBlock(ev.Definition), PageBlock(ev.Page), ExcerptBlock(ev.Excerpts)}
}

// Define asks the tutor persona to explain term with a modern-law note.
func Define(term string, ev Evidence) string {
	return Assemble(Spec{
		Role:    "Jurista Ulpiano (experto didáctico en Derecho Romano).",
		Task:    fmt.Sprintf("Proporcionar información sobre el término %q.", term),
		Context: evidenceBlocks(ev),
		Rules:   []string{CitationRule},
		Output:  DefineShape,
	})
}

// GenerateCase asks the professor persona for a short practical case.
func GenerateCase(term string, ev Evidence) string {
	return Assemble(Spec{
		Role:         "Profesor de derecho romano.",
		Task:         fmt.Sprintf("Crear un caso práctico (máx 3 frases) sobre %q.", term),
		Instructions: "Nombres romanos. Terminar con preguntas legales. Sin explicaciones ni soluciones. Basa la lógica del caso en el contexto de referencia.",
		Context:      []Block{GlossaryBlock(ev.Definition), ExcerptBlock(ev.Excerpts)},
		Rules:        []string{CitationRule},
	})
}

// ResolveCase asks the judge persona for a brief solution to caseText.
func ResolveCase(caseText string, ev Evidence) string {
	return Assemble(Spec{
		Role:         "Juez romano.",
		Task:         fmt.Sprintf("Resolver el caso %q aplicando principios del derecho romano.", caseText),
		Instructions: "Solución legal MUY BREVE, DIRECTA Y CONCISA (máximo 2-3 frases). Ve directo a la acción legal, principio o solución. Sin saludos ni explicaciones largas. Basa tu solución en el contexto si es relevante.",
		Context:      []Block{GlossaryBlock(ev.Definition), ExcerptBlock(ev.Excerpts)},
		Rules:        []string{CitationRule},
	})
}

// ModernLaw asks for the heritage of term in modern Spanish law.
func ModernLaw(term string) string {
	return Assemble(Spec{
		Role: "Comentarista de derecho civil español.",
		Task: fmt.Sprintf("Explica muy concisamente (máx un párrafo) la herencia del concepto romano %q en el derecho español moderno.", term),
	})
}

// Kinship asks for the Roman computation of the degree between two persons.
func Kinship(person1, person2 string) string {
	return Assemble(Spec{
		Role:         "Calculadora de parentesco del derecho romano.",
		Task:         fmt.Sprintf("Determinar la línea y el grado de parentesco entre %q y %q.", person1, person2),
		Instructions: "Aplica el cómputo romano: en línea recta un grado por generación; en línea colateral se suben las generaciones hasta el tronco común y se baja hasta el otro pariente.",
		Output:       KinshipShape,
	})
}

// Translate asks for a Spanish rendering of one Latin digest fragment.
func Translate(citation, source string) string {
	return Assemble(Spec{
		Role:         "Traductor de latín jurídico.",
		Task:         fmt.Sprintf("Traduce al español el fragmento %s del Digesto de Justiniano.", citation),
		Instructions: "Responde únicamente con la traducción, sin comillas, notas ni comentarios. Conserva los nombres de los juristas y los términos técnicos latinos entre paréntesis cuando no tengan equivalente exacto.",
		Context:      []Block{{Heading: "TEXTO LATINO", Body: source}},
	})
}
