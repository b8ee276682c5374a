package errors

import (
	"errors"
	"fmt"

	"centralvendas/internal/domain"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func IsUnauthorizedError(err error) (*UnauthorizedError, bool) {
	var ue *UnauthorizedError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
	// ProductID is set when the missing entity is a product.
	ProductID string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func NewProductNotFoundError(productID string) *NotFoundError {
	return &NotFoundError{
		Message:   fmt.Sprintf("product %s not found or unavailable", productID),
		ProductID: productID,
	}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", name, e.Requested, e.Available)
}

func NewInsufficientStockError(productID, productName string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID:   productID,
		ProductName: productName,
		Requested:   requested,
		Available:   available,
	}
}

func IsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}

type NegativeStockError struct {
	ProductID string
	Current   int
	Result    int
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("stock of product %s cannot become negative (current %d, result %d)", e.ProductID, e.Current, e.Result)
}

func NewNegativeStockError(productID string, current, result int) *NegativeStockError {
	return &NegativeStockError{ProductID: productID, Current: current, Result: result}
}

func IsNegativeStockError(err error) (*NegativeStockError, bool) {
	var nse *NegativeStockError
	if errors.As(err, &nse) {
		return nse, true
	}
	return nil, false
}

type QuotaExceededError struct {
	Resource domain.QuotaResource
	Current  int
	Max      int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s limit reached (%d/%d), upgrade the plan", e.Resource, e.Current, e.Max)
}

func NewQuotaExceededError(resource domain.QuotaResource, current, max int) *QuotaExceededError {
	return &QuotaExceededError{Resource: resource, Current: current, Max: max}
}

func IsQuotaExceededError(err error) (*QuotaExceededError, bool) {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// InternalError is a persistence or other unexpected failure. Callers may retry.
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

func IsInternalError(err error) (*InternalError, bool) {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// IsBusinessError reports whether err is a rule violation rather than a failure.
func IsBusinessError(err error) bool {
	if _, ok := IsValidationError(err); ok {
		return true
	}
	if _, ok := IsUnauthorizedError(err); ok {
		return true
	}
	if _, ok := IsNotFoundError(err); ok {
		return true
	}
	if _, ok := IsInsufficientStockError(err); ok {
		return true
	}
	if _, ok := IsNegativeStockError(err); ok {
		return true
	}
	if _, ok := IsQuotaExceededError(err); ok {
		return true
	}
	if _, ok := IsConflictError(err); ok {
		return true
	}
	return false
}
