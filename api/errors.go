package api

import (
	"net/http"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Anything outside
// the taxonomy is reported as a 500 without leaking its message.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, domain.ValidationCode(err), err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "CONFLICT", err.Error())
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// bindingError wraps request decoding failures as validation errors.
func bindingError(err error) error {
	return domain.ValidationError{Code: domain.CodeValidation, Msg: err.Error(), Err: err}
}
