package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"centralvendas/internal/dto"
	apperrors "centralvendas/internal/errors"
)

// TraceID returns the request id set by the router, or a fresh UUID.
func TraceID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.New().String()
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteValidationError(w http.ResponseWriter, traceID string, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	writeErrorResponse(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", message, details, logger)
}

// WriteError maps err onto a status code and error body. Unexpected errors
// are logged and reported with a generic message.
func WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteValidationError(w, traceID, ve.Message, logger, ve.Details...)
		return
	}

	if _, ok := apperrors.IsUnauthorizedError(err); ok {
		writeErrorResponse(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil, logger)
		return
	}

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		var details interface{}
		if nfe.ProductID != "" {
			details = map[string]string{"productId": nfe.ProductID}
		}
		writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), details, logger)
		return
	}

	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		writeErrorResponse(w, traceID, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), dto.InsufficientStockDetails{
			ProductID:   ise.ProductID,
			ProductName: ise.ProductName,
			Requested:   ise.Requested,
			Available:   ise.Available,
		}, logger)
		return
	}

	if _, ok := apperrors.IsNegativeStockError(err); ok {
		writeErrorResponse(w, traceID, http.StatusConflict, "NEGATIVE_STOCK", err.Error(), nil, logger)
		return
	}

	if qe, ok := apperrors.IsQuotaExceededError(err); ok {
		writeErrorResponse(w, traceID, http.StatusForbidden, "QUOTA_EXCEEDED", err.Error(), dto.QuotaDetails{
			Resource: string(qe.Resource),
			Current:  qe.Current,
			Max:      qe.Max,
		}, logger)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), nil, logger)
		return
	}

	logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
	writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil, logger)
}

func writeErrorResponse(w http.ResponseWriter, traceID string, status int, code, message string, details interface{}, logger *zap.Logger) {
	WriteJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}

// QueryInt reads an integer query parameter. A missing value yields def.
func QueryInt(r *http.Request, name string, def int) (int, *apperrors.ValidationDetail) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &apperrors.ValidationDetail{Field: name, Message: name + " must be an integer"}
	}
	return v, nil
}
