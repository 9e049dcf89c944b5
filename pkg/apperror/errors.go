package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

func ErrInvalidInput(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- Record Lifecycle (REC) ----

func ErrRecordNotFound(id string) *AppError {
	return New("REC_001", fmt.Sprintf("record %s not found", id), http.StatusNotFound)
}

func ErrAlreadySuperseded() *AppError {
	return New("REC_002", "Record has already been superseded", http.StatusConflict)
}

func ErrImmutable() *AppError {
	return New("REC_003", "Finalized records cannot be modified", http.StatusConflict)
}

func ErrAlreadyFinalized() *AppError {
	return New("REC_004", "Calculation is already finalized", http.StatusConflict)
}

func ErrNotCorrectable(status string) *AppError {
	return New("REC_005", fmt.Sprintf("Record in %s state is not correctable", status), http.StatusConflict)
}

func ErrTransactionConflict() *AppError {
	return New("REC_006", "Record changed concurrently, retry the operation", http.StatusConflict)
}

// ---- Rule Tables (RULE) ----

func ErrRuleTableNotFound(ref string) *AppError {
	return New("RULE_001", fmt.Sprintf("no rule table for %s", ref), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Audit Ledger (LED) ----

func ErrIntegrityViolation(detail string) *AppError {
	return New("LED_001", fmt.Sprintf("Audit ledger integrity violation: %s", detail), http.StatusInternalServerError)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
