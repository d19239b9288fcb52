package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	ErrorFailedToConnectToTheDatabase = "Failed to connect to the database"
	ErrorFailedToRunTheServer         = "Failed to run the server"
	ErrorFailedToShutdownTheServer    = "Failed to shutdown the server"
	ErrFailedDecodeRequestBody        = "Failed to decode request body"
	ErrInvalidRequestBody             = "Invalid request body"
	ErrUserIDRequired                 = "User ID is required"
	ErrInvalidUserID                  = "Invalid User ID"
)

// BadRequestError rejects an operation before any ledger mutation because
// of invalid input.
type BadRequestError struct {
	Message string
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{Message: message}
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("Bad request: %s", e.Message)
}

// ForbiddenError rejects an operation for lack of ownership or role.
type ForbiddenError struct {
	Message string
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("Forbidden: %s", e.Message)
}

type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// StateConflictError rejects a transition that the current state does not
// allow, e.g. approving an already processed transaction.
type StateConflictError struct {
	Message string
}

func NewStateConflictError(message string) *StateConflictError {
	return &StateConflictError{Message: message}
}

func (e *StateConflictError) Error() string {
	return e.Message
}

// InsufficientBudgetError rejects a transaction request that exceeds the
// category's remaining balance. The current figures travel with the error
// so the caller can react.
type InsufficientBudgetError struct {
	Remaining decimal.Decimal
	Requested decimal.Decimal
}

func NewInsufficientBudgetError(remaining, requested decimal.Decimal) *InsufficientBudgetError {
	return &InsufficientBudgetError{Remaining: remaining, Requested: requested}
}

func (e *InsufficientBudgetError) Error() string {
	return fmt.Sprintf("insufficient budget: remaining $%s, requested $%s",
		e.Remaining.StringFixed(2), e.Requested.StringFixed(2))
}

// PoolExceededError rejects an award approval that would push the sum of
// approved awards past the institutional pool cap.
type PoolExceededError struct {
	Remaining decimal.Decimal
	Required  decimal.Decimal
}

func NewPoolExceededError(remaining, required decimal.Decimal) *PoolExceededError {
	return &PoolExceededError{Remaining: remaining, Required: required}
}

func (e *PoolExceededError) Error() string {
	return fmt.Sprintf("not enough remaining pool budget: remaining $%s, required $%s",
		e.Remaining.StringFixed(2), e.Required.StringFixed(2))
}

// SubawardCapError rejects a subaward that would push the sum of
// non-declined subawards past the parent award's amount.
type SubawardCapError struct {
	Active    decimal.Decimal
	Requested decimal.Decimal
	Cap       decimal.Decimal
}

func NewSubawardCapError(active, requested, cap decimal.Decimal) *SubawardCapError {
	return &SubawardCapError{Active: active, Requested: requested, Cap: cap}
}

func (e *SubawardCapError) Error() string {
	return fmt.Sprintf("subaward total exceeds award amount: $%s committed, $%s requested, award is $%s",
		e.Active.StringFixed(2), e.Requested.StringFixed(2), e.Cap.StringFixed(2))
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
