package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tour-guide-api/internal/logger"
)

type HTTPError struct {
	Success bool              `json:"success"`
	Code    string            `json:"error_code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

// Code writes the catalog status and message for code.
func Code(c *gin.Context, code string) {
	status, message := Lookup(code)
	Write(c, status, code, message)
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Forbidden(c *gin.Context) {
	Code(c, CodeForbidden)
}

// Respond maps err onto the failure envelope. Business errors use the
// catalog; anything else is logged and reported as a generic server error.
func Respond(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		status, message := Lookup(be.Code)
		if be.Detail != "" {
			message = be.Detail
		}
		Write(c, status, be.Code, message)
		return
	}

	_ = c.Error(err)
	logger.FromContext(c, nil).Error("request failed", zap.Error(err))
	Code(c, CodeServerError)
}

// Validation reports binding failures with one message per field.
func Validation(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		Write(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request data")
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldName(fe)] = fieldMessage(fe)
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, HTTPError{
		Code:    CodeInvalidRequest,
		Message: "Invalid request data",
		Errors:  fields,
	})
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "hhmm":
		return "must be a time in HH:MM format"
	case "ymd":
		return "must be a date in YYYY-MM-DD format"
	case "specialty":
		return "must be a known specialty"
	default:
		return "is invalid"
	}
}
