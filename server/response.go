package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/primepulse/pkg/service"
)

// The envelope is the contract boundary with existing clients:
// {error, status, message, data} on success, {error, status, message}
// on failure.

type successBody struct {
	Error   bool        `json:"error"`
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Token   string      `json:"token,omitempty"`
}

type errorBody struct {
	Error   bool   `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, successBody{Error: false, Status: status, Message: message, Data: data})
}

func respondSuccessWithToken(c *gin.Context, status int, message string, data interface{}, token string) {
	c.JSON(status, successBody{Error: false, Status: status, Message: message, Data: data, Token: token})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, errorBody{Error: true, Status: status, Message: message})
}

// statusForKind maps the service error taxonomy onto HTTP statuses.
func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvalidState:
		return http.StatusBadRequest
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindConflict:
		return http.StatusConflict
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// respondServiceError logs internal failures with the request id and
// hides their detail from the caller.
func (s *Server) respondServiceError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	if kind == service.KindInternal {
		s.logger.Error("internal error",
			requestIDField(c),
			pathField(c),
			errField(err))
	}
	respondError(c, statusForKind(kind), service.MessageOf(err))
}
