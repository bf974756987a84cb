package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	// Retryable tells the caller whether resubmitting (with the same
	// idempotency key, where one was used) is safe and useful.
	Retryable bool `json:"retryable,omitempty"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondRetryable marks the error as safe to retry, which the UI uses
// to distinguish contention and timeouts from terminal failures.
func RespondRetryable(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   customMessage,
		Retryable: true,
	})
}
