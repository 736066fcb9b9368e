package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	ErrStatusInternalServer     = http.StatusInternalServerError
	ErrStatusClient             = http.StatusBadRequest
	ErrStatusNotFound           = http.StatusNotFound
	ErrStatusConflict           = http.StatusConflict
	ErrStatusBadGateway         = http.StatusBadGateway
	ErrStatusServiceUnavailable = http.StatusServiceUnavailable
	ErrStatusGatewayTimeout     = http.StatusGatewayTimeout
)

var (
	ErrInternalServer  = errors.New("Internal server error")
	ErrClient          = errors.New("Bad request")
	ErrNotFound        = errors.New("Resource not found")
	ErrValidation      = errors.New("Validation failed")
	ErrConflict        = errors.New("Conflicting record found")
	ErrTimeout         = errors.New("request timed out")
	ErrNetwork         = errors.New("network error")
	ErrCircuitOpen     = errors.New("inventory API is temporarily unavailable")
	ErrInvalidResponse = errors.New("invalid response from inventory API")
	ErrInvalidBaseURL  = errors.New("base URL must be an absolute http(s) URL")
	ErrSuperseded      = errors.New("response superseded by a newer request")
)

var errorMap = map[error]int{
	ErrInternalServer:  ErrStatusInternalServer,
	ErrClient:          ErrStatusClient,
	ErrNotFound:        ErrStatusNotFound,
	ErrValidation:      ErrStatusClient,
	ErrConflict:        ErrStatusConflict,
	ErrTimeout:         ErrStatusGatewayTimeout,
	ErrNetwork:         ErrStatusBadGateway,
	ErrCircuitOpen:     ErrStatusServiceUnavailable,
	ErrInvalidResponse: ErrStatusBadGateway,
	ErrInvalidBaseURL:  ErrStatusClient,
}

// wrappedErrorOrder is the order sentinels are matched in when err only wraps them. The
// most specific cause comes first.
var wrappedErrorOrder = []error{
	ErrCircuitOpen,
	ErrTimeout,
	ErrNetwork,
	ErrInvalidResponse,
	ErrInvalidBaseURL,
	ErrValidation,
	ErrNotFound,
	ErrConflict,
	ErrClient,
	ErrInternalServer,
}

// TimeoutError is returned when no response arrived within the request deadline.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: %s after %s", ErrTimeout, e.URL, e.Timeout)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NetworkError is a connection-level failure that never produced an HTTP status.
// It is only surfaced once the retry budget is exhausted.
type NetworkError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s failed after %d attempt(s): %v", ErrNetwork, e.URL, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// HTTPError is a response the server acknowledged with a non-2xx status.
type HTTPError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string]string
	Body        []byte
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// ValidationError carries a field-error map produced before a request was sent.
type ValidationError struct {
	FieldErrors map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s on %d field(s)", ErrValidation, len(e.FieldErrors))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FieldErrors extracts a field-error map from either a local validation failure or a
// server rejection. It returns nil when err carries none.
func FieldErrors(err error) map[string]string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.FieldErrors
	}

	var herr *HTTPError
	if errors.As(err, &herr) && len(herr.FieldErrors) > 0 {
		return herr.FieldErrors
	}

	return nil
}

func GetErrorStatusCode(err error) int {
	var herr *HTTPError
	if errors.As(err, &herr) {
		if herr.StatusCode >= 400 && herr.StatusCode < 500 {
			return herr.StatusCode
		}
		return ErrStatusBadGateway
	}

	if errStatusCode, ok := errorMap[err]; ok {
		return errStatusCode
	}

	for _, sentinel := range wrappedErrorOrder {
		if errors.Is(err, sentinel) {
			return errorMap[sentinel]
		}
	}

	return errorMap[ErrInternalServer]
}
