package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgerrors "user-service/pkg/errors"
	"user-service/pkg/logger"
)

// Client-facing messages for outcomes whose internal detail must not leak.
const (
	MessageConflict   = "The user exists with the same name"
	MessageNotFound   = "User not found"
	MessageUnexpected = "There is some error processing your request. Please contact the IT support team"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ErrorHandler maps the last error recorded with c.Error to an HTTP status and
// an ErrorResponse. It is the only place where application errors become HTTP replies.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := resolveError(err)
		if status == http.StatusInternalServerError {
			logger.WithContext(c.Request.Context(), log).Error("unhandled error",
				zap.String("method", c.Request.Method),
				zap.String("route", c.FullPath()),
				zap.Error(err),
			)
		}

		c.AbortWithStatusJSON(status, body)
	}
}

func resolveError(err error) (int, ErrorResponse) {
	kind := pkgerrors.KindOf(err)
	switch kind {
	case pkgerrors.KindInvalid:
		return http.StatusBadRequest, ErrorResponse{Error: kind.String(), Message: err.Error()}
	case pkgerrors.KindConflict:
		return http.StatusConflict, ErrorResponse{Error: kind.String(), Message: MessageConflict}
	case pkgerrors.KindNotFound:
		return http.StatusNotFound, ErrorResponse{Error: kind.String(), Message: MessageNotFound}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: kind.String(), Message: MessageUnexpected}
	}
}
