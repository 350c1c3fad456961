package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/dto"
	"github.com/SscSPs/bank_ledger_api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	msgNameTaken       = "Name has already been taken"
	msgMissingParam    = "param is missing or the value is empty: "
	msgStorageDown     = "Storage is temporarily unavailable, please retry"
	msgDependentsExist = "Cannot delete record because dependent records exist"
)

var registerValidatorOnce sync.Once

// useJSONFieldNames makes validator report fields by their json tag, so
// binding errors name the parameter the client actually sent.
func useJSONFieldNames() {
	registerValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}

func respondErrors(c *gin.Context, status int, messages ...string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Errors: messages})
}

func notFoundMessage(model string) string {
	if model == "" {
		model = "Record"
	}
	return "Record(s) not found: " + model
}

// respondError maps a service error to its HTTP status and body.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Record not found", slog.String("action", action), slog.String("error", err.Error()))
		respondErrors(c, http.StatusNotFound, notFoundMessage(apperrors.ModelName(err)))
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Name already taken", slog.String("action", action))
		respondErrors(c, http.StatusUnprocessableEntity, msgNameTaken)
	case errors.Is(err, apperrors.ErrHasDependents):
		logger.Warn("Delete refused, dependents exist", slog.String("action", action))
		respondErrors(c, http.StatusUnprocessableEntity, msgDependentsExist)
	case errors.Is(err, apperrors.ErrValidation):
		msg := err.Error()
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		logger.Warn("Validation failed", slog.String("action", action), slog.String("error", msg))
		respondErrors(c, http.StatusUnprocessableEntity, msg)
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		logger.Error("Storage unavailable", slog.String("action", action), slog.String("error", err.Error()))
		respondErrors(c, http.StatusServiceUnavailable, msgStorageDown)
	default:
		logger.Error("Unexpected error", slog.String("action", action), slog.String("error", err.Error()))
		respondErrors(c, http.StatusInternalServerError, "Failed to "+action)
	}
}

// bindJSON binds the request body into obj and writes the error response
// itself when binding fails.
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		messages := make([]string, len(verrs))
		for i, fe := range verrs {
			messages[i] = msgMissingParam + fe.Field()
		}
		logger.Warn("Request failed validation", slog.Any("errors", messages))
		respondErrors(c, http.StatusUnprocessableEntity, messages...)
		return false
	}

	var fieldErr *dto.FieldError
	if errors.As(err, &fieldErr) {
		logger.Warn("Request field could not be read", slog.String("field", fieldErr.Field), slog.String("error", err.Error()))
		respondErrors(c, http.StatusUnprocessableEntity, msgMissingParam+fieldErr.Field)
		return false
	}

	logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))
	respondErrors(c, http.StatusBadRequest, fmt.Sprintf("Invalid request format: %v", err))
	return false
}

// pathID reads an integer path parameter. Anything that is not a positive
// integer cannot name a record, so it is reported as not found.
func pathID(c *gin.Context, param, model string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		respondErrors(c, http.StatusNotFound, notFoundMessage(model))
		return 0, false
	}
	return id, true
}
