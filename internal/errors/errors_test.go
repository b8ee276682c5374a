package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"centralvendas/internal/domain"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NewNotFoundError("order not found"))

	nfe, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "order not found", nfe.Message)
}

func TestProductNotFoundError(t *testing.T) {
	err := NewProductNotFoundError("p-1")

	assert.Equal(t, "p-1", err.ProductID)
	assert.Contains(t, err.Error(), "p-1")
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "email", Message: "invalid email"},
		{Field: "name", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError("p-1", "Caneca", 5, 2)

	assert.Equal(t, "insufficient stock for product Caneca: requested 5, available 2", err.Error())

	ise, ok := IsInsufficientStockError(fmt.Errorf("tx: %w", err))
	assert.True(t, ok)
	assert.Equal(t, 5, ise.Requested)
}

func TestInsufficientStockError_FallsBackToID(t *testing.T) {
	err := NewInsufficientStockError("p-1", "", 5, 2)

	assert.Contains(t, err.Error(), "p-1")
}

func TestNegativeStockError(t *testing.T) {
	err := NewNegativeStockError("p-1", 10, -5)

	nse, ok := IsNegativeStockError(err)
	assert.True(t, ok)
	assert.Equal(t, 10, nse.Current)
	assert.Equal(t, -5, nse.Result)
}

func TestQuotaExceededError(t *testing.T) {
	err := NewQuotaExceededError(domain.QuotaOrders, 100, 100)

	assert.Equal(t, "orders limit reached (100/100), upgrade the plan", err.Error())

	qe, ok := IsQuotaExceededError(err)
	assert.True(t, ok)
	assert.Equal(t, 100, qe.Max)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestIsBusinessError(t *testing.T) {
	assert.True(t, IsBusinessError(NewValidationError("bad")))
	assert.True(t, IsBusinessError(NewUnauthorizedError("no tenant")))
	assert.True(t, IsBusinessError(NewProductNotFoundError("p-1")))
	assert.True(t, IsBusinessError(NewInsufficientStockError("p-1", "", 1, 0)))
	assert.True(t, IsBusinessError(NewNegativeStockError("p-1", 0, -1)))
	assert.True(t, IsBusinessError(NewQuotaExceededError(domain.QuotaProducts, 1, 1)))
	assert.True(t, IsBusinessError(NewConflictError("deadlock")))
	assert.False(t, IsBusinessError(NewInternalError("db down", nil)))
	assert.False(t, IsBusinessError(errors.New("boom")))
}
