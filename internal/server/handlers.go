package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/alexanderramin/ulpiano/internal/intelligence"
	"github.com/gin-gonic/gin"
)

// bind decodes the JSON body. An empty body decodes to the zero value so
// the service reports the missing field.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, validationError("cuerpo JSON no válido"))
		return false
	}
	return true
}

// detach keeps request-scoped values but ignores client disconnects; the
// provider deadline still bounds the call.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func (s *Server) handleLookup(c *gin.Context) {
	var req intelligence.LookupRequest
	if !bind(c, &req) {
		return
	}
	resp, err := s.tutor.Lookup(detach(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePage(c *gin.Context) {
	var req intelligence.PageRequest
	if !bind(c, &req) {
		return
	}
	ref, err := s.tutor.LocatePage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

type legacyTermRequest struct {
	Termino string `json:"termino"`
}

type legacyCaseRequest struct {
	Tipo            string `json:"tipo"`
	Termino         string `json:"termino"`
	CurrentCaseText string `json:"currentCaseText"`
}

// handleUnified serves the tutor's single-call definition.
func (s *Server) handleUnified(c *gin.Context) {
	var req legacyTermRequest
	if !bind(c, &req) {
		return
	}
	resp, err := s.tutor.Lookup(detach(c), intelligence.LookupRequest{
		QueryTerm: req.Termino,
		Mode:      intelligence.ModeDefine,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"respuesta": resp.AnswerText,
		"moderno":   resp.ModernConnectionText,
		"pagina":    resp.Page,
		"titulo":    resp.Title,
	})
}

// handleCase serves the case laboratory: tipo "generar" or "resolver".
func (s *Server) handleCase(c *gin.Context) {
	var req legacyCaseRequest
	if !bind(c, &req) {
		return
	}
	var mode intelligence.Mode
	switch req.Tipo {
	case "generar":
		mode = intelligence.ModeGenerateCase
	case "resolver":
		mode = intelligence.ModeResolveCase
	case "":
		respondError(c, validationError("tipo: es obligatorio"))
		return
	default:
		respondError(c, validationError("tipo: debe ser generar o resolver"))
		return
	}
	resp, err := s.tutor.Lookup(detach(c), intelligence.LookupRequest{
		QueryTerm: req.Termino,
		Mode:      mode,
		CaseText:  req.CurrentCaseText,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"respuesta": resp.AnswerText})
}

func (s *Server) handleFindPage(c *gin.Context) {
	var req legacyTermRequest
	if !bind(c, &req) {
		return
	}
	ref, err := s.tutor.LocatePage(c.Request.Context(), intelligence.PageRequest{QueryTerm: req.Termino})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pagina": ref.PagePtr(), "titulo": ref.TitlePtr()})
}

func (s *Server) handleModern(c *gin.Context) {
	var req legacyTermRequest
	if !bind(c, &req) {
		return
	}
	ans, err := s.tutor.ModernLaw(detach(c), intelligence.ModernRequest{QueryTerm: req.Termino})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ans)
}

func (s *Server) handleKinship(c *gin.Context) {
	var req intelligence.KinshipRequest
	if !bind(c, &req) {
		return
	}
	ans, err := s.tutor.Kinship(detach(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ans)
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{"status": "ok", "corpus": s.opts.Corpus}
	if s.opts.Cache != nil {
		body["cache_entries"] = s.opts.Cache.Len()
	}
	c.JSON(http.StatusOK, body)
}
