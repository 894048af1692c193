package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

var (
	MalformedJSONError  = NewSimple(400, "Malformed JSON body")
	InternalServerError = NewSimple(500, "Internal server error")

	NotFoundError        = NewSimple(404, "Resource not found")
	InvalidBINError      = NewSimple(400, "BIN must be a numeric string")
	UnknownTaxonomyError = NewSimple(400, "Unknown classifier taxonomy")

	// MissingIdentityError means the source payload carried no usable BIN,
	// so there is nothing to reconcile against.
	MissingIdentityError = NewSimple(422, "Source payload lacks the business identifier (BIN)")
)

// NewSourceUnavailableError reports an upstream registry fetch failure.
// The original error text is kept so operators can see what went wrong.
func NewSourceUnavailableError(err error) *APIError {
	return NewSimple(http.StatusBadGateway, "Registry source unavailable: %v", err)
}

// NewUncategorizedError wraps any failure outside the named taxonomy. The
// original text stays visible to the operator instead of a bare 500.
func NewUncategorizedError(err error) *APIError {
	return NewSimple(http.StatusInternalServerError, "Company load failed: %v", err)
}

// FromValidationError renders validator field problems as a 400. Any other
// error degrades to a plain 400; returning a typed nil here would make the
// ErrorResponse interface non-nil and blow up on Code().
func FromValidationError(err error) ErrorResponse {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return NewSimple(http.StatusBadRequest, "Invalid request")
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "len":
			problems[field] = append(problems[field], "Value must have exactly "+fe.Param()+" characters")
		case "numeric":
			problems[field] = append(problems[field], "Value must be numeric")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}
