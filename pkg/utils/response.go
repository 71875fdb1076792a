package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "marketplace-backend/pkg/errors"
)

type SuccessEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessEnvelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorEnvelope{
		Success: false,
		Code:    statusToCode(status),
		Message: message,
	})
}

// AppErrorResponse maps an error to its HTTP status using the embedded
// error code.
func AppErrorResponse(c *gin.Context, err error) {
	code := appErrors.CodeOf(err)
	c.JSON(codeToStatus(code), ErrorEnvelope{
		Success: false,
		Code:    code,
		Message: err.Error(),
	})
}

func codeToStatus(code string) int {
	switch code {
	case appErrors.CodeValidation:
		return http.StatusBadRequest
	case appErrors.CodeConflict:
		return http.StatusConflict
	case appErrors.CodeNotFound:
		return http.StatusNotFound
	case appErrors.CodeForbidden:
		return http.StatusForbidden
	case appErrors.CodePrecondition:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return appErrors.CodeValidation
	case http.StatusConflict:
		return appErrors.CodeConflict
	case http.StatusNotFound:
		return appErrors.CodeNotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		return appErrors.CodeForbidden
	case http.StatusPreconditionFailed:
		return appErrors.CodePrecondition
	default:
		return appErrors.CodeInternal
	}
}
