package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes a failure the way it is reported to the client.
type Kind string

const (
	KindMissingField        Kind = "missing_field"
	KindInvalidInput        Kind = "invalid_input"
	KindUnsupportedFileType Kind = "unsupported_file_type"
	KindExtractionFailed    Kind = "extraction_failed"
	KindEmptyExtraction     Kind = "empty_extraction"
	KindExternalService     Kind = "external_service"
	KindFilesystem          Kind = "filesystem"
	KindNotFound            Kind = "not_found"
	KindPayloadTooLarge     Kind = "payload_too_large"
	KindUnavailable         Kind = "unavailable"
	KindInternal            Kind = "internal"
)

// Error is a failure that carries the HTTP status it should surface as.
type Error struct {
	Kind    Kind   `json:"type"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func MissingField(field string) *Error {
	return &Error{
		Kind:    KindMissingField,
		Message: fmt.Sprintf("no %s provided", field),
		Status:  http.StatusBadRequest,
	}
}

func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message, Status: http.StatusBadRequest}
}

func UnsupportedFileType(ext string) *Error {
	return &Error{
		Kind:    KindUnsupportedFileType,
		Message: fmt.Sprintf("file type %q is not supported; upload a .pdf, .txt or .docx file", ext),
		Status:  http.StatusUnsupportedMediaType,
	}
}

func ExtractionFailed(cause error) *Error {
	return &Error{
		Kind:    KindExtractionFailed,
		Message: "the document could not be read",
		Status:  http.StatusUnprocessableEntity,
		Cause:   cause,
	}
}

func EmptyExtraction() *Error {
	return &Error{
		Kind:    KindEmptyExtraction,
		Message: "no text could be extracted from the document",
		Status:  http.StatusUnprocessableEntity,
	}
}

func ExternalService(cause error) *Error {
	return &Error{
		Kind:    KindExternalService,
		Message: "the question generation service failed",
		Status:  http.StatusBadGateway,
		Cause:   cause,
	}
}

func Filesystem(message string, cause error) *Error {
	return &Error{Kind: KindFilesystem, Message: message, Status: http.StatusInternalServerError, Cause: cause}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Status: http.StatusNotFound}
}

func PayloadTooLarge(limit int64) *Error {
	return &Error{
		Kind:    KindPayloadTooLarge,
		Message: fmt.Sprintf("the upload exceeds the %d byte limit", limit),
		Status:  http.StatusRequestEntityTooLarge,
	}
}

func Unavailable(message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message, Status: http.StatusServiceUnavailable}
}

// From returns err as an *Error, wrapping anything else as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{
		Kind:    KindInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Cause:   err,
	}
}

// IsKind reports whether err (or anything it wraps) is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == k
}
