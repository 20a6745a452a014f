// Package intelligence answers tutor queries by combining local retrieval
// with a completion call.
package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/ulpiano/internal/cache"
	"github.com/alexanderramin/ulpiano/internal/domain"
	"github.com/alexanderramin/ulpiano/internal/llm"
	"github.com/alexanderramin/ulpiano/internal/logger"
	"github.com/alexanderramin/ulpiano/internal/prompt"
	"github.com/alexanderramin/ulpiano/internal/retrieval"
)

// TutorService is the core contract exposed to the HTTP and CLI layers.
type TutorService interface {
	Lookup(ctx context.Context, req LookupRequest) (*LookupResponse, error)
	LocatePage(ctx context.Context, req PageRequest) (domain.PageRef, error)
	ModernLaw(ctx context.Context, req ModernRequest) (*ModernAnswer, error)
	Kinship(ctx context.Context, req KinshipRequest) (*KinshipAnswer, error)
}

type tutorService struct {
	retriever *retrieval.Retriever
	client    llm.Client
}

// NewTutorService wires a retriever to a completion client. Wrap client in
// an llm.CachingClient to serve repeated queries from the cache.
func NewTutorService(retriever *retrieval.Retriever, client llm.Client) TutorService {
	return &tutorService{retriever: retriever, client: client}
}

var defineSchema = llm.Schema{
	AnswerField: prompt.FieldAnswer,
	Required:    []string{prompt.FieldAnswer, prompt.FieldModern},
}

var kinshipSchema = llm.Schema{
	AnswerField: prompt.FieldExplanation,
	Required:    []string{prompt.FieldLine, prompt.FieldDegree, prompt.FieldExplanation},
}

func (s *tutorService) Lookup(ctx context.Context, req LookupRequest) (*LookupResponse, error) {
	req.QueryTerm = strings.TrimSpace(req.QueryTerm)
	req.CaseText = strings.TrimSpace(req.CaseText)
	if err := check(req); err != nil {
		return nil, err
	}

	evidence, err := s.evidence(ctx, req.QueryTerm)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx).With("mode", req.Mode, "term", req.QueryTerm)
	if evidence.Glossary != nil {
		log = log.With("glossary_tier", evidence.Glossary.Tier.String())
	}
	log.Debug("evidence gathered", "page", evidence.Page.Page, "excerpts", len(evidence.Excerpts))

	switch req.Mode {
	case ModeDefine:
		return s.define(ctx, log, req.QueryTerm, evidence)
	case ModeGenerateCase:
		return s.plain(ctx, llm.TaskGenerateCase,
			prompt.GenerateCase(req.QueryTerm, promptEvidence(evidence)),
			cache.Key(string(req.Mode), req.QueryTerm), evidence)
	default:
		return s.plain(ctx, llm.TaskResolveCase,
			prompt.ResolveCase(req.CaseText, promptEvidence(evidence)),
			cache.TextKey(req.CaseText, string(req.Mode), req.QueryTerm), evidence)
	}
}

// evidence runs retrieval. Resolving a case without a term has no local
// evidence to gather.
func (s *tutorService) evidence(ctx context.Context, term string) (*retrieval.Result, error) {
	if term == "" {
		return &retrieval.Result{}, nil
	}
	res, err := s.retriever.Retrieve(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("retrieving evidence: %w", err)
	}
	return res, nil
}

func promptEvidence(res *retrieval.Result) prompt.Evidence {
	ev := prompt.Evidence{Definition: res.Definition(), Page: res.Page}
	for _, e := range res.Excerpts {
		ev.Excerpts = append(ev.Excerpts, e.Excerpt)
	}
	return ev
}

func (s *tutorService) define(ctx context.Context, log logger.Logger, term string, res *retrieval.Result) (*LookupResponse, error) {
	resp, err := s.client.Complete(ctx, llm.Request{
		Task:     llm.TaskDefine,
		Prompt:   prompt.Define(term, promptEvidence(res)),
		CacheKey: cache.Key(string(ModeDefine), term),
		JSON:     true,
	})
	if err != nil {
		return nil, err
	}

	obj, stage := llm.ParseLenient(resp.Text, defineSchema)
	if stage == llm.StageFallback {
		log.Warn("model answer was not JSON, using plain text", "stage", stage.String())
	}
	page, title := pageFields(res.Page)
	return &LookupResponse{
		AnswerText:           obj[prompt.FieldAnswer],
		ModernConnectionText: obj[prompt.FieldModern],
		Page:                 page,
		Title:                title,
		Citations:            res.Citations(),
		Cached:               resp.Cached,
	}, nil
}

func (s *tutorService) plain(ctx context.Context, task llm.TaskType, text, key string, res *retrieval.Result) (*LookupResponse, error) {
	resp, err := s.client.Complete(ctx, llm.Request{Task: task, Prompt: text, CacheKey: key})
	if err != nil {
		return nil, err
	}
	page, title := pageFields(res.Page)
	return &LookupResponse{
		AnswerText: strings.TrimSpace(resp.Text),
		Page:       page,
		Title:      title,
		Citations:  res.Citations(),
		Cached:     resp.Cached,
	}, nil
}

func (s *tutorService) LocatePage(_ context.Context, req PageRequest) (domain.PageRef, error) {
	req.QueryTerm = strings.TrimSpace(req.QueryTerm)
	if err := check(req); err != nil {
		return domain.PageRef{}, err
	}
	return s.retriever.LocatePage(req.QueryTerm), nil
}

func (s *tutorService) ModernLaw(ctx context.Context, req ModernRequest) (*ModernAnswer, error) {
	req.QueryTerm = strings.TrimSpace(req.QueryTerm)
	if err := check(req); err != nil {
		return nil, err
	}
	resp, err := s.client.Complete(ctx, llm.Request{
		Task:     llm.TaskModernLaw,
		Prompt:   prompt.ModernLaw(req.QueryTerm),
		CacheKey: cache.Key("modern", req.QueryTerm),
	})
	if err != nil {
		return nil, err
	}
	return &ModernAnswer{Text: strings.TrimSpace(resp.Text), Cached: resp.Cached}, nil
}

func (s *tutorService) Kinship(ctx context.Context, req KinshipRequest) (*KinshipAnswer, error) {
	req.Person1 = strings.TrimSpace(req.Person1)
	req.Person2 = strings.TrimSpace(req.Person2)
	if err := check(req); err != nil {
		return nil, err
	}
	resp, err := s.client.Complete(ctx, llm.Request{
		Task:     llm.TaskKinship,
		Prompt:   prompt.Kinship(req.Person1, req.Person2),
		CacheKey: cache.Key("kinship", req.Person1, req.Person2),
		JSON:     true,
	})
	if err != nil {
		return nil, err
	}
	obj, stage := llm.ParseLenient(resp.Text, kinshipSchema)
	if stage == llm.StageFallback {
		logger.FromContext(ctx).Warn("kinship answer was not JSON, using plain text")
	}
	return &KinshipAnswer{
		Line:        obj[prompt.FieldLine],
		Degree:      strings.TrimSuffix(strings.TrimSpace(obj[prompt.FieldDegree]), "º"),
		Explanation: obj[prompt.FieldExplanation],
		Cached:      resp.Cached,
	}, nil
}
