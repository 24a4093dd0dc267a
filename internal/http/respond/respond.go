// Package respond renders every non-2xx API response in one JSON shape.
package respond

import (
	"net/http"
	"time"

	"github.com/geocoder89/cityevents/internal/validation"
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

const (
	CodeInvalidRequest       = "invalid_request"
	CodeUnauthorized         = "unauthorized"
	CodeForbidden            = "forbidden"
	CodeNotFound             = "not_found"
	CodeValidationFailed     = "validation_failed"
	CodeReferenceNotFound    = "reference_not_found"
	CodeUnsupportedMediaType = "unsupported_media_type"
	CodePayloadTooLarge      = "payload_too_large"
	CodeRateLimited          = "rate_limited"
	CodeInternal             = "internal_error"
)

type ErrorBody struct {
	Timestamp time.Time              `json:"timestamp"`
	Status    int                    `json:"status"`
	Error     string                 `json:"error"`
	Message   string                 `json:"message"`
	Path      string                 `json:"path"`
	RequestID string                 `json:"requestId,omitempty"`
	Errors    []validation.Violation `json:"errors,omitempty"`
	Details   interface{}            `json:"details,omitempty"`
}

// Now is the timestamp source for error bodies.
var Now = func() time.Time { return time.Now().UTC() }

func RequestID(ctx *gin.Context) string {
	if s := ctx.GetString(RequestIDKey); s != "" {
		return s
	}
	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

// Error aborts the chain with the standard error body.
func Error(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.AbortWithStatusJSON(status, body(ctx, status, code, message, details, nil))
}

func body(ctx *gin.Context, status int, code, message string, details interface{}, violations []validation.Violation) ErrorBody {
	return ErrorBody{
		Timestamp: Now(),
		Status:    status,
		Error:     code,
		Message:   message,
		Path:      ctx.Request.URL.Path,
		RequestID: RequestID(ctx),
		Errors:    violations,
		Details:   details,
	}
}

// Unprocessable reports field violations (422) in the order given.
func Unprocessable(ctx *gin.Context, code, message string, violations []validation.Violation) {
	ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, body(ctx, http.StatusUnprocessableEntity, code, message, nil, violations))
}

func Unauthorized(ctx *gin.Context, message string) {
	ctx.Header("WWW-Authenticate", `Bearer realm="cityevents"`)
	Error(ctx, http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func Forbidden(ctx *gin.Context, message string) {
	Error(ctx, http.StatusForbidden, CodeForbidden, message, nil)
}

func BadRequest(ctx *gin.Context, message string, details interface{}) {
	Error(ctx, http.StatusBadRequest, CodeInvalidRequest, message, details)
}

func NotFound(ctx *gin.Context, message string) {
	Error(ctx, http.StatusNotFound, CodeNotFound, message, nil)
}

func Internal(ctx *gin.Context, message string) {
	Error(ctx, http.StatusInternalServerError, CodeInternal, message, nil)
}
