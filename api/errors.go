package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZamarianPatrick/lazypig-care/domain"
)

// ErrorResponse is the body of every failed request. Internal error text is
// never included.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Limit   *int              `json:"limit,omitempty"`
	Used    *int              `json:"used,omitempty"`
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}

// respondError maps err onto a status code and a generic body.
func (r *Resolver) respondError(c *gin.Context, err error) {
	de, ok := domain.AsDomainError(err)
	if !ok {
		r.log.Error("unhandled error", "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		return
	}

	switch de.Code {
	case domain.ErrCodeValidation:
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request",
			Fields:  de.Fields,
		})
	case domain.ErrCodeNotFoundOrUnauthorized:
		abortWithError(c, http.StatusNotFound, "not_found", de.Message)
	case domain.ErrCodeQuotaExceeded:
		limit, used := de.Limit, de.Used
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Error:   "quota_exceeded",
			Message: de.Message,
			Limit:   &limit,
			Used:    &used,
		})
	case domain.ErrCodeRateLimited:
		abortWithError(c, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again later.")
	case domain.ErrCodeAIUnavailable:
		r.log.Warn("plant assistant failed", "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusBadGateway, "ai_unavailable", "The plant assistant is unavailable. No quota was used.")
	case domain.ErrCodeStoreUnavailable:
		r.log.Error("record store unavailable", "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusServiceUnavailable, "service_unavailable", "Service temporarily unavailable")
	default:
		r.log.Error("unmapped domain error", "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}
