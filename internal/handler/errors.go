package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/dto"
	"go.uber.org/zap"
)

// ErrorResponder writes application errors as JSON
type ErrorResponder struct {
	logger      *zap.Logger
	development bool
}

// NewErrorResponder creates a responder; development adds internal detail to 500s
func NewErrorResponder(logger *zap.Logger, development bool) *ErrorResponder {
	return &ErrorResponder{logger: logger, development: development}
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindBadRequest, apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Respond aborts the request with the response matching err
func (r *ErrorResponder) Respond(c *gin.Context, err error) {
	if appErr, ok := apperr.As(err); ok && appErr.Kind != apperr.KindInternal {
		if appErr.Err != nil {
			r.logger.Debug("request rejected",
				zap.String("path", c.FullPath()),
				zap.String("kind", appErr.Kind.String()),
				zap.Error(appErr.Err),
			)
		}
		c.AbortWithStatusJSON(statusOf(appErr.Kind), dto.ErrorResponse{
			Error:   appErr.Kind.String(),
			Message: appErr.Message,
			Errors:  appErr.Fields,
		})
		return
	}

	code := uuid.New().String()
	r.logger.Error("unhandled error",
		zap.String("code", code),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)

	resp := dto.ErrorResponse{
		Error:   apperr.KindInternal.String(),
		Message: "An unexpected error occurred",
		Code:    code,
	}
	if r.development {
		resp.Detail = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
}

// Recovery turns panics into the internal error response
func (r *ErrorResponder) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		r.Respond(c, fmt.Errorf("panic: %v", recovered))
	})
}

// bindError converts a binding failure into a validation error
func bindError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]apperr.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, apperr.FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
		return apperr.Validation("request validation failed", fields).Wrap(err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperr.BadRequest("malformed request body").Wrap(err)
	}

	return apperr.BadRequest("invalid request").Wrap(err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid4":
		return "must be a valid code"
	case "document":
		return "must be 8 to 12 digits"
	case "personname":
		return "must contain only letters and spaces"
	case "identifier":
		return "must be 5 to 64 characters of letters, digits or @._+-"
	case "email":
		return "must be a valid email"
	case "datetime":
		return fmt.Sprintf("must be a date formatted as %s", fe.Param())
	case "timezone":
		return "must be an IANA time zone"
	case "numeric":
		return "must contain only digits"
	case "latitude", "longitude":
		return fmt.Sprintf("must be a valid %s", fe.Tag())
	default:
		return "is invalid"
	}
}
