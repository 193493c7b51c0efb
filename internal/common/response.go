package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError is one entry of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "ok",
		"data":    data,
	})
}

func Fail(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
	})
}

func FailValidation(c *gin.Context, code int, msg string, errs []FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
		"errors":  errs,
	})
}
