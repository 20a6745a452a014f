package intelligence

import (
	"github.com/alexanderramin/ulpiano/internal/domain"
)

// Mode selects what a lookup asks of the model.
type Mode string

const (
	ModeDefine       Mode = "define"
	ModeGenerateCase Mode = "generateCase"
	ModeResolveCase  Mode = "resolveCase"
)

// Input limits.
const (
	MaxQueryLength  = 200
	MaxCaseLength   = 4000
	MaxPersonLength = 200
)

// LookupRequest is the core lookup contract.
type LookupRequest struct {
	QueryTerm string `json:"queryTerm" validate:"required_unless=Mode resolveCase,max=200"`
	Mode      Mode   `json:"mode" validate:"required,oneof=define generateCase resolveCase"`
	CaseText  string `json:"caseText,omitempty" validate:"required_if=Mode resolveCase,max=4000"`
}

// LookupResponse carries the answer plus the manual reference. Page and
// Title are null when no topic matched.
type LookupResponse struct {
	AnswerText           string   `json:"answerText"`
	ModernConnectionText string   `json:"modernConnectionText,omitempty"`
	Page                 *int     `json:"page"`
	Title                *string  `json:"title"`
	Citations            []string `json:"citations,omitempty"`
	Cached               bool     `json:"cached"`
}

// PageRequest asks for the manual page only.
type PageRequest struct {
	QueryTerm string `json:"queryTerm" validate:"required,max=200"`
}

// KinshipRequest asks for the Roman degree of kinship between two persons
// described in natural language ("mi abuelo", "mi primo hermano").
type KinshipRequest struct {
	Person1 string `json:"person1" validate:"required,max=200"`
	Person2 string `json:"person2" validate:"required,max=200"`
}

type KinshipAnswer struct {
	Line        string `json:"linea"`
	Degree      string `json:"grado"`
	Explanation string `json:"explicacion"`
	Cached      bool   `json:"-"`
}

// ModernRequest asks for the modern-law heritage of a term.
type ModernRequest struct {
	QueryTerm string `json:"queryTerm" validate:"required,max=200"`
}

type ModernAnswer struct {
	Text   string `json:"moderno"`
	Cached bool   `json:"-"`
}

func pageFields(ref domain.PageRef) (*int, *string) {
	return ref.PagePtr(), ref.TitlePtr()
}
