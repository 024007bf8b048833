package common

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorBody is the JSON envelope of every error response
type ErrorBody struct {
	Error *ErrorInfo `json:"error"`
}

// ErrorResponse returns an error JSON response.
// err is attached to the gin context for the request logger and never serialized.
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorBody{
		Error: &ErrorInfo{
			Code:    getErrorCode(status),
			Message: message,
		},
	})
}

// RespondError maps a service error onto its HTTP status and writes it
func RespondError(c *gin.Context, err error) {
	status := StatusFromError(err)
	message := PublicMessage(err)
	if status >= http.StatusInternalServerError {
		message = "Internal Server Error"
	}
	ErrorResponse(c, status, message, err)
}

// StatusFromError classifies business errors; anything unknown is a 500
func StatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage strips the category prefix of wrapped sentinels,
// "invalid input: title is required" → "title is required"
func PublicMessage(err error) string {
	msg := err.Error()
	for _, parent := range []error{ErrInvalidInput, ErrNotFound} {
		if rest, ok := strings.CutPrefix(msg, parent.Error()+": "); ok {
			return rest
		}
	}
	return msg
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 413:
		return "PAYLOAD_TOO_LARGE"
	case 429:
		return "RATE_LIMITED"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
