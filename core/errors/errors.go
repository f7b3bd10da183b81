package errors

import "fmt"

type ErrorCode string

const (
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrGetFailed          ErrorCode = "GET_FAILED"

	// Auth middleware
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	// Commitment state machine
	ErrCommitmentPhaseClosed ErrorCode = "COMMITMENT_PHASE_CLOSED"
	ErrInvalidTransition     ErrorCode = "INVALID_TRANSITION"
	ErrNookCancelled         ErrorCode = "NOOK_CANCELLED"
	ErrNookFull              ErrorCode = "NOOK_FULL"

	// Attendance token protocol. Each verifier rejection carries its own
	// code so the client can distinguish "scan again" from "wait" from
	// "you're done".
	ErrTokenMalformed      ErrorCode = "TOKEN_MALFORMED"
	ErrSignatureMismatch   ErrorCode = "TOKEN_SIGNATURE_MISMATCH"
	ErrOutsideScanWindow   ErrorCode = "OUTSIDE_SCAN_WINDOW"
	ErrBetweenScanWindows  ErrorCode = "BETWEEN_SCAN_WINDOWS"
	ErrAnchorNotActive     ErrorCode = "ANCHOR_NOT_ACTIVE"
	ErrNotApprovedMember   ErrorCode = "NOT_APPROVED_MEMBER"
	ErrAlreadyMarked       ErrorCode = "ALREADY_MARKED"
	ErrExitBeforeEntry     ErrorCode = "EXIT_BEFORE_ENTRY"
	ErrTooManyScanAttempts ErrorCode = "TOO_MANY_SCAN_ATTEMPTS"
)

// AppError is the error type carried across service boundaries. Code drives
// the HTTP mapping, Message is user-presentable, Err keeps the cause.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(message string) error {
	return fmt.Errorf("%s", message)
}
