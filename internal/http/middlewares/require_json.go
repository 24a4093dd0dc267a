package middlewares

import (
	"mime"
	"net/http"
	"strings"

	"github.com/geocoder89/cityevents/internal/http/respond"
	"github.com/gin-gonic/gin"
)

// RequireJSON rejects write requests whose body is not JSON. Media type
// parameters such as charset are ignored and "+json" suffixes are accepted.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if hasBody(c.Request.Method) && !isJSONMediaType(c.GetHeader("Content-Type")) {
			respond.Error(c, http.StatusUnsupportedMediaType, respond.CodeUnsupportedMediaType, "Content-Type must be application/json", nil)
			return
		}
		c.Next()
	}
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func isJSONMediaType(header string) bool {
	if header == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return mt == "application/json" || (strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}

func respondInternal(c *gin.Context) {
	respond.Internal(c, "Unexpected error")
}
