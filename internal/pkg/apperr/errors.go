package apperr

import "errors"

// Business Error Codes
const (
	CodeSuccess       = 0
	CodeBadRequest    = 400
	CodeUnauthorized  = 401
	CodeForbidden     = 403
	CodeNotFound      = 404
	CodeConflict      = 409
	CodeInternalError = 500
	CodeDatabaseError = 1001
	CodeCacheError    = 1002
)

// Business Errors
var (
	ErrTagNotFound   = errors.New("tag not found")
	ErrBoardNotFound = errors.New("board not found")
	ErrAssetNotFound = errors.New("asset not found")
	ErrEdgeExists    = errors.New("tag already attached to board")
	ErrSlugTaken     = errors.New("slug already in use")
	ErrInvalidParams = errors.New("invalid parameters")
	ErrInvalidAction = errors.New("invalid action")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
)

// AppError Application Error with code and message
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError Create new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NotFound Referenced entity is absent
func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

// Conflict Unique-constraint violation (duplicate slug or duplicate edge)
func Conflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// Invalid Missing or malformed input, detected before any mutation
func Invalid(message string) *AppError {
	return &AppError{Code: CodeBadRequest, Message: message}
}

// Storage Underlying data-store failure
func Storage(err error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: err.Error()}
}

// WrapError Wrap error with code
func WrapError(err error, code int) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
	}
}

// CodeOf Extract the business code from an error
func CodeOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternalError
}
