// Package errs holds the typed failures domain services return. Controllers
// translate them into HTTP statuses with a uniform message-list body.
package errs

import "strings"

// NotFoundError maps to 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NotValidError is a business-rule violation, mapped to 400.
type NotValidError struct {
	Message string
}

func (e *NotValidError) Error() string { return e.Message }

// InvalidCredentialsError maps to 400.
type InvalidCredentialsError struct {
	Message string
}

func (e *InvalidCredentialsError) Error() string { return e.Message }

// ConstraintViolationError aggregates field-level messages, mapped to 400.
type ConstraintViolationError struct {
	Messages []string
}

func (e *ConstraintViolationError) Error() string { return strings.Join(e.Messages, "; ") }

func EventNotFound() *NotFoundError {
	return &NotFoundError{Message: "Event Not Found"}
}

func UserNotFound() *NotFoundError {
	return &NotFoundError{Message: "User not found"}
}

func NotValid(message string) *NotValidError {
	return &NotValidError{Message: message}
}

func InvalidCredentials() *InvalidCredentialsError {
	return &InvalidCredentialsError{Message: "Invalid email or password"}
}
