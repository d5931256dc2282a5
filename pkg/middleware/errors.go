package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

// APIErrorResponse is the body of every non-2xx response
type APIErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
	Timestamp string            `json:"timestamp"`
	Path      string            `json:"path"`
}

func writeError(c *gin.Context, status int, code, message string, details map[string]string) {
	c.AbortWithStatusJSON(status, APIErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      c.Request.URL.Path,
	})
}

// AbortWithAppError answers the request with appErr without logging it
func AbortWithAppError(c *gin.Context, appErr *errors.AppError) {
	writeError(c, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
}

// RespondError logs err and answers the request with it. Errors that are
// not an AppError become a 500 whose cause stays out of the response.
func RespondError(c *gin.Context, logger *logging.Logger, err error) {
	appErr := errors.FromError(err)

	if logger != nil {
		log := logger.WithContext(c.Request.Context()).WithFields(map[string]any{
			"code":   appErr.Code,
			"status": appErr.HTTPStatus,
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		if appErr.Err != nil {
			log = log.WithError(appErr.Err)
		}
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error("Request failed", "message", appErr.Message)
		} else {
			log.Warn("Request rejected", "message", appErr.Message)
		}
	}

	AbortWithAppError(c, appErr)
}
