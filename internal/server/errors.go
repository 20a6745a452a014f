package server

import (
	"net/http"

	"github.com/alexanderramin/ulpiano/internal/llm"
	"github.com/gin-gonic/gin"
)

// KindRateLimited is reported when a client exceeds its request budget.
const KindRateLimited llm.ErrorKind = "RATE_LIMIT_EXCEEDED"

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error   llm.ErrorKind `json:"error"`
	Message string        `json:"message"`
}

var kindStatus = map[llm.ErrorKind]int{
	llm.KindValidation:    http.StatusBadRequest,
	llm.KindOverloaded:    http.StatusServiceUnavailable,
	llm.KindTimeout:       http.StatusGatewayTimeout,
	llm.KindMalformed:     http.StatusBadGateway,
	llm.KindProvider:      http.StatusBadGateway,
	llm.KindConfiguration: http.StatusInternalServerError,
	llm.KindInternal:      http.StatusInternalServerError,
	KindRateLimited:       http.StatusTooManyRequests,
}

var kindMessage = map[llm.ErrorKind]string{
	llm.KindOverloaded:    "Ulpiano parece estar desbordado. Por favor, dale un minuto y vuelve a intentarlo.",
	llm.KindTimeout:       "La solicitud ha tardado demasiado tiempo. Prueba con una consulta más sencilla o inténtalo de nuevo.",
	llm.KindMalformed:     "La IA no devolvió una respuesta válida. Por favor, inténtalo de nuevo.",
	llm.KindProvider:      "El servicio de IA rechazó la solicitud o no está disponible.",
	llm.KindConfiguration: "El servidor no está configurado correctamente.",
	llm.KindInternal:      "Ha ocurrido un error en el servidor o al comunicarse con la IA.",
	KindRateLimited:       "Demasiadas peticiones desde esta IP, por favor intenta de nuevo más tarde.",
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind llm.ErrorKind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// respondError writes the error body for err. Validation messages are
// shown as is; every other kind gets a fixed message so provider details
// never reach the client.
func respondError(c *gin.Context, err error) {
	kind := llm.Kind(err)
	msg := kindMessage[kind]
	if kind == llm.KindValidation {
		msg = err.Error()
	}
	if msg == "" {
		kind = llm.KindInternal
		msg = kindMessage[kind]
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(kind), ErrorBody{Error: kind, Message: msg})
}

// validationError reports a malformed request body.
type validationError string

func (e validationError) Error() string { return string(e) }

func (validationError) ErrorKind() llm.ErrorKind { return llm.KindValidation }
