// Package apperror provides structured error handling for the ledger core.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced by the ledger core and its collaborators.
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidQuantity = "INVALID_QUANTITY"

	// Business rule violations (422)
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeLotPartiallyConsumed = "LOT_PARTIALLY_CONSUMED"
	CodeConsistencyFault     = "CONSISTENCY_FAULT"
	CodeReferencedEntity     = "REFERENCED_ENTITY"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict               = "CONFLICT"
	CodeDuplicate              = "DUPLICATE_ENTRY"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

// AppError is the standard error type for the service.
// It implements the error interface and carries structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (ids, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidQuantity is returned for non-positive quantities or prices.
func NewInvalidQuantity(field string, value any) *AppError {
	return &AppError{
		Code:       CodeInvalidQuantity,
		Message:    fmt.Sprintf("%s must be positive", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field, "value": value},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInsufficientStock creates a stock shortage error.
// Raised either by the pre-check against the cached product stock or
// mid-allocation when open lots run out.
func NewInsufficientStock(productID string, requested, available string) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    "Insufficient stock",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
		},
	}
}

// NewLotPartiallyConsumed is returned when a purchase reversal is blocked
// because sales already consumed part of the lot.
func NewLotPartiallyConsumed(purchaseID string, remaining, quantity string) *AppError {
	return &AppError{
		Code:       CodeLotPartiallyConsumed,
		Message:    "Purchase lot already consumed by sales",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"purchase_id": purchaseID,
			"remaining":   remaining,
			"quantity":    quantity,
		},
	}
}

// NewConsistencyFault indicates that the cached product stock disagrees with
// the sum of lot remainders. This is never healed automatically.
func NewConsistencyFault(productID string, cached, derived string) *AppError {
	return &AppError{
		Code:       CodeConsistencyFault,
		Message:    "Cached stock disagrees with lot totals",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product_id":    productID,
			"cached_stock":  cached,
			"derived_stock": derived,
		},
	}
}

// NewReferencedEntity is returned when deletion is blocked by dependent records.
func NewReferencedEntity(entity string, id any, reason string) *AppError {
	return &AppError{
		Code:       CodeReferencedEntity,
		Message:    fmt.Sprintf("%s has dependent records: %s", entity, reason),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode checks the error chain for an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsInsufficientStock checks if error is CodeInsufficientStock
func IsInsufficientStock(err error) bool {
	return HasCode(err, CodeInsufficientStock)
}
