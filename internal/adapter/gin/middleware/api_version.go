package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// APIVersionHeader optionally selects the API version in addition to the URL segment.
	APIVersionHeader = "X-Api-Version"
	// SupportedVersionsHeader reports the versions a route group serves.
	SupportedVersionsHeader = "Api-Supported-Versions"
)

// APIVersion pins a route group to version. A request carrying
// X-Api-Version must name the same major version ("1" and "1.0" both match
// "1"); any other value is rejected with 400.
func APIVersion(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(SupportedVersionsHeader, version)

		requested := strings.TrimSpace(c.GetHeader(APIVersionHeader))
		if requested != "" && !sameVersion(requested, version) {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
				Error:   "unsupported_api_version",
				Message: fmt.Sprintf("The HTTP resource does not support the API version '%s'", requested),
			})
			return
		}

		c.Next()
	}
}

func sameVersion(requested, version string) bool {
	requested = strings.TrimPrefix(strings.ToLower(requested), "v")
	return requested == version || requested == version+".0"
}
