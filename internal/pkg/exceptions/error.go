package exceptions

import (
	"errors"
	"fmt"
	"medblock-service/internal/pkg/constvars"
	"runtime"
)

// Machine readable error codes surfaced to API callers.
const (
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeForbidden           = "FORBIDDEN"
	CodeServerMisconfigured = "SERVER_MISCONFIGURED"
	CodeInvalidQuery        = "INVALID_QUERY"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidIdentifier   = "INVALID_IDENTIFIER"
	CodeConflict            = "CONFLICT"
	CodeStaleWrite          = "STALE_WRITE"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodePayloadTooLarge     = "PAYLOAD_TOO_LARGE"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeTimeout             = "TIMEOUT"
	CodeInternal            = "INTERNAL_ERROR"
)

type CustomError struct {
	StatusCode    int      `json:"status_code"`
	Success       bool     `json:"success"`
	Code          string   `json:"code"`
	ClientMessage string   `json:"message"`
	Reason        string   `json:"reason,omitempty"`
	DevMessage    string   `json:"-"`
	Location      Location `json:"-"`
	Err           error    `json:"-"`
}

type Location struct {
	File         string
	Line         int
	FunctionName string
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, e.Location.File, e.Location.Line, e.Location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithReason attaches a sub-reason code, e.g. the access decision reason.
func (e *CustomError) WithReason(reason string) *CustomError {
	e.Reason = reason
	return e
}

// BuildNewCustomError wraps err (may be nil) and records the caller of the
// constructor that invoked it.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	devMsg := devMessage
	if err != nil {
		devMsg = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}
	return &CustomError{
		StatusCode:    statusCode,
		Code:          codeForStatus(statusCode),
		ClientMessage: clientMessage,
		DevMessage:    devMsg,
		Location:      getLocation(3),
		Err:           err,
	}
}

func WrapWithoutError(statusCode int, clientMessage, devMessage string) *CustomError {
	return &CustomError{
		StatusCode:    statusCode,
		Code:          codeForStatus(statusCode),
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Location:      getLocation(2),
	}
}

// AsCustomError reports whether err is, or wraps, a *CustomError.
func AsCustomError(err error) (*CustomError, bool) {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given machine code.
func HasCode(err error, code string) bool {
	customErr, ok := AsCustomError(err)
	return ok && customErr.Code == code
}

func codeForStatus(statusCode int) string {
	switch statusCode {
	case constvars.StatusUnauthorized:
		return CodeUnauthenticated
	case constvars.StatusForbidden:
		return CodeForbidden
	case constvars.StatusNotFound:
		return CodeNotFound
	case constvars.StatusConflict:
		return CodeStaleWrite
	case constvars.StatusBadRequest:
		return CodeInvalidInput
	case constvars.StatusTooManyRequests:
		return CodeTooManyRequests
	case constvars.StatusRequestTooLarge:
		return CodePayloadTooLarge
	case constvars.StatusMethodNotAllowed:
		return CodeMethodNotAllowed
	case constvars.StatusGatewayTimeout:
		return CodeTimeout
	default:
		return CodeInternal
	}
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ErrFileLocationUnknown,
			Line:         0,
			FunctionName: constvars.ErrFunctionNameUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
