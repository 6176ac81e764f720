package service

import "fmt"

// ValidationError reports missing or invalid request input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports an absent entity or dependent entity
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError reports a duplicate name on create
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// UnavailableError reports a business-rule rejection of an unavailable item
type UnavailableError struct {
	Message string
}

func (e *UnavailableError) Error() string {
	return e.Message
}

// InsufficientStockError reports a withdrawal exceeding current stock
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Only %d available", e.Available)
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}
