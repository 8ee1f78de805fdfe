package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Unique keys a store can report through DuplicateKeyError.
const (
	DuplicateKeyEmail     = "email"
	DuplicateKeyUserID    = "user_id"
	DuplicateKeyDisplayID = "display_id"
)

// DuplicateKeyError is a unique violation on a known key. It matches
// ErrDuplicate under errors.Is. Key is empty when the store could not tell.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	if e.Key == "" {
		return ErrDuplicate.Error()
	}
	return fmt.Sprintf("%s: %s", ErrDuplicate.Error(), e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicate }

// DuplicateKeyOf returns the violated key of a duplicate error, or "" when
// err is not a DuplicateKeyError.
func DuplicateKeyOf(err error) string {
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return dup.Key
	}
	return ""
}

// ErrInvalidHashFormat indicates that a stored password hash is not a bcrypt encoding at all.
var ErrInvalidHashFormat = errors.New("invalid password hash format")

// Kind classifies an AppError and decides how it reaches the client.
type Kind int

const (
	// KindSystem covers persistence and infrastructure failures. Details never leave the server.
	KindSystem Kind = iota
	// KindValidation covers malformed input.
	KindValidation
	// KindAuth covers missing, invalid, expired or wrongly typed credentials.
	KindAuth
	// KindBusiness covers expected domain-rule violations such as a duplicate email.
	KindBusiness
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindBusiness:
		return "business"
	default:
		return "system"
	}
}

// AppError is the single error type returned across service boundaries.
type AppError struct {
	Kind    Kind
	Code    Code
	Message string
	// Status overrides the HTTP status derived from Kind when non-zero.
	Status  int
	Details map[string]any
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error %d: %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error %d: %s", e.Kind, e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same kind and code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// HTTPStatus is the transport status for this error.
// Business errors travel inside a 200 envelope.
func (e *AppError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindBusiness:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// As extracts the AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindSystem for anything that is not an AppError.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindSystem
}

// CodeOf returns the code of err, CodeSystemError for anything that is not an AppError.
func CodeOf(err error) Code {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeSystemError
}

func newError(kind Kind, code Code, message string) *AppError {
	if message == "" {
		message = code.Message()
	}
	return &AppError{Kind: kind, Code: code, Message: message}
}

// Validation creates a validation error carrying a specific code.
func Validation(code Code, message string) *AppError {
	return newError(KindValidation, code, message)
}

// RequestValidation creates the error returned when a request body or query fails binding.
func RequestValidation(message string, fields []FieldError) *AppError {
	err := newError(KindValidation, CodeValidationFailed, message)
	err.Status = http.StatusUnprocessableEntity
	if len(fields) > 0 {
		err.WithDetail("fields", fields)
	}
	return err
}

// FieldError describes why a single request field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Auth creates an authentication error.
func Auth(code Code, message string) *AppError {
	return newError(KindAuth, code, message)
}

// Business creates a business-rule error with the code's default message.
func Business(code Code) *AppError {
	return newError(KindBusiness, code, "")
}

// System wraps an infrastructure failure. The cause is kept for logs only.
func System(cause error) *AppError {
	err := newError(KindSystem, CodeSystemError, "")
	err.Cause = cause
	return err
}

func EmailAlreadyRegistered() *AppError { return Business(CodeEmailAlreadyRegistered) }

func EmailNotRegistered() *AppError { return Business(CodeEmailNotRegistered) }

func UserNotExist() *AppError { return Business(CodeUserNotExist) }

// InvalidCredentials is returned when the password does not match the stored hash.
func InvalidCredentials() *AppError { return Auth(CodeInvalidCredentials, "") }

func HeaderMissingAuthorization(message string) *AppError {
	return Auth(CodeHeaderMissingAuthorization, message)
}

func TokenInvalid(message string) *AppError { return Auth(CodeTokenInvalid, message) }

func TokenExpired() *AppError { return Auth(CodeTokenExpired, "") }

func TokenTypeError() *AppError { return Auth(CodeTokenTypeError, "") }

// TooManyRequests is used by the rate limiter.
func TooManyRequests() *AppError {
	err := newError(KindValidation, CodeTooManyRequests, "")
	err.Status = http.StatusTooManyRequests
	return err
}
