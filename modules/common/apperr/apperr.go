package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Code - 클라이언트에 노출되는 에러 분류 (닫힌 집합)
type Code string

const (
	Unauthenticated    Code = "unauthenticated"
	InvalidArgument    Code = "invalid-argument"
	ResourceExhausted  Code = "resource-exhausted"
	GenerationEmpty    Code = "generation-empty"
	Unavailable        Code = "unavailable"
	PermissionDenied   Code = "permission-denied"
	FailedPrecondition Code = "failed-precondition"
	NotFound           Code = "not-found"
	Internal           Code = "internal"
)

// Error - 분류 코드 + 사용자 메시지를 담는 에러
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New - 분류된 에러 생성
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap - 원인 에러를 보존하면서 분류
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf - 에러에서 분류 코드 추출 (미분류는 Internal)
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return Internal
}

// MessageOf - 사용자 메시지 추출 (미분류는 일반 메시지)
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "An unexpected error occurred. Please try again later."
}

// Status - 분류 코드를 HTTP 상태 코드로 매핑
func Status(code Code) int {
	switch code {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidArgument:
		return http.StatusBadRequest
	case ResourceExhausted:
		return http.StatusTooManyRequests
	case GenerationEmpty:
		return http.StatusBadGateway
	case Unavailable:
		return http.StatusServiceUnavailable
	case PermissionDenied:
		return http.StatusForbidden
	case FailedPrecondition:
		return http.StatusPreconditionFailed
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Write - 에러를 JSON 응답으로 기록
func Write(w http.ResponseWriter, err error) {
	code := CodeOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(code))
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    string(code),
			"message": MessageOf(err),
		},
	})
}
