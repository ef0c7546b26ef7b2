package api

import (
	"net/http"

	"seedrand/domain/core"
	"seedrand/internal/errors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func statusFor(err error) int {
	switch {
	case core.IsDeterminismError(err):
		return http.StatusConflict
	case core.IsInvalidArgument(err):
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeConfigInvalid:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Code: errors.GetCodeOr(err, codeFor(status))})
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return errors.CodeInvalidInput
	case http.StatusConflict:
		return "NON_DETERMINISTIC"
	default:
		return errors.CodeInternalError
	}
}
