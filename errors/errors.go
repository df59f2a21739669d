package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định danh một loại lỗi nghiệp vụ
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"

	// Database errors
	ErrCodeDBError ErrorCode = "DB_ERROR"

	// Input errors
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeConflict   ErrorCode = "CONFLICT"

	// Booking engine errors
	ErrCodeRoomNotAvailable  ErrorCode = "ROOM_NOT_AVAILABLE"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeOverpayment       ErrorCode = "OVERPAYMENT"
)

// AppError is the single error type returned by the services.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
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

// Is matches any AppError carrying the same code, so sentinels work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// CodeOf returns the code of err, or DB_ERROR for anything untyped.
func CodeOf(err error) ErrorCode {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code
	}
	return ErrCodeDBError
}

var (
	ErrValidation        = &AppError{Code: ErrCodeValidation, Message: "validation failed"}
	ErrNotFound          = &AppError{Code: ErrCodeNotFound, Message: "not found"}
	ErrConflict          = &AppError{Code: ErrCodeConflict, Message: "conflict"}
	ErrRoomNotAvailable  = &AppError{Code: ErrCodeRoomNotAvailable, Message: "room not available"}
	ErrInvalidTransition = &AppError{Code: ErrCodeInvalidTransition, Message: "invalid transition"}
	ErrOverpayment       = &AppError{Code: ErrCodeOverpayment, Message: "payment exceeds folio total"}
	ErrUnauthorized      = &AppError{Code: ErrCodeUnauthorized, Message: "unauthorized"}
	ErrForbidden         = &AppError{Code: ErrCodeForbidden, Message: "forbidden"}
)

func Validation(format string, args ...interface{}) *AppError {
	return NewAppError(ErrCodeValidation, fmt.Sprintf(format, args...), nil)
}

func NotFound(entity string, id uint) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s %d not found", entity, id), nil)
}

func Conflict(format string, args ...interface{}) *AppError {
	return NewAppError(ErrCodeConflict, fmt.Sprintf(format, args...), nil)
}

func RoomNotAvailable(roomID uint, status string) *AppError {
	return NewAppError(ErrCodeRoomNotAvailable, fmt.Sprintf("room %d is %s", roomID, status), nil)
}

func InvalidTransition(from, action string) *AppError {
	return NewAppError(ErrCodeInvalidTransition, fmt.Sprintf("cannot %s a booking in status %s", action, from), nil)
}

func Overpayment(paid, total string) *AppError {
	return NewAppError(ErrCodeOverpayment, fmt.Sprintf("payments would reach %s against a total of %s", paid, total), nil)
}

func Database(message string, err error) *AppError {
	return NewAppError(ErrCodeDBError, message, err)
}
