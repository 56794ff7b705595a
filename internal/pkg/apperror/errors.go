package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConfiguration
	KindService
	KindRetrieval
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindConfiguration:
		return "CONFIGURATION_ERROR"
	case KindService:
		return "SERVICE_ERROR"
	case KindRetrieval:
		return "RETRIEVAL_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// Status is the HTTP status a kind maps to.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Configuration(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

func Service(message string, err error) *Error {
	return &Error{Kind: KindService, Message: message, Err: err}
}

func Retrieval(message string, err error) *Error {
	return &Error{Kind: KindRetrieval, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
