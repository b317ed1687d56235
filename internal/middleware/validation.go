package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "ledgersynth/internal/errors"
)

// QueryParamValidator parses and bounds query parameters, answering with a
// validation problem when one is malformed or out of range
type QueryParamValidator struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewQueryParamValidator creates a new query parameter validator
func NewQueryParamValidator(logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *QueryParamValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apperrors.NewErrorHandler(logger, false)
	}
	return &QueryParamValidator{
		validator:    validator.New(),
		logger:       logger.With(slog.String("component", "query_validator")),
		errorHandler: errorHandler,
	}
}

// ValidateInt validates an integer query parameter in [min, max]
func (v *QueryParamValidator) ValidateInt(w http.ResponseWriter, r *http.Request, param string, min, max int, defaultValue int) (int, bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		v.reject(w, r, param, raw, fmt.Sprintf("%s must be a valid integer", param))
		return 0, false
	}

	if err := v.validator.Var(value, fmt.Sprintf("gte=%d,lte=%d", min, max)); err != nil {
		v.reject(w, r, param, raw, formatValidationError(param, err))
		return 0, false
	}

	return value, true
}

// ValidateInt64 validates a 64-bit integer query parameter
func (v *QueryParamValidator) ValidateInt64(w http.ResponseWriter, r *http.Request, param string, defaultValue int64) (int64, bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		v.reject(w, r, param, raw, fmt.Sprintf("%s must be a valid 64-bit integer", param))
		return 0, false
	}

	return value, true
}

// ValidateEnum validates an enum query parameter
func (v *QueryParamValidator) ValidateEnum(w http.ResponseWriter, r *http.Request, param string, allowed []string, defaultValue string) (string, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}

	if err := v.validator.Var(value, "oneof="+strings.Join(allowed, " ")); err != nil {
		v.reject(w, r, param, value, formatValidationError(param, err))
		return "", false
	}

	return value, true
}

func (v *QueryParamValidator) reject(w http.ResponseWriter, r *http.Request, param, raw, message string) {
	v.logger.DebugContext(r.Context(), "query parameter rejected",
		slog.String("param", param),
		slog.String("value", raw),
	)
	v.errorHandler.HandleError(w, r, apperrors.ErrValidation(param, message))
}

// formatValidationError formats the first failed rule for field
func formatValidationError(field string, err error) string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return fmt.Sprintf("%s is invalid", field)
	}

	fe := fieldErrs[0]
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
