package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindUnauthorized          Kind = "Unauthorized"
	KindValidation            Kind = "ValidationError"
	KindNotFound              Kind = "NotFound"
	KindNoTranscriptAvailable Kind = "NoTranscriptAvailable"
	KindVideoPrivate          Kind = "VideoPrivate"
	KindVideoUnavailable      Kind = "VideoUnavailable"
	KindVideoAgeRestricted    Kind = "VideoAgeRestricted"
	KindVideoTooLong          Kind = "VideoTooLong"
	KindQuotaExceeded         Kind = "QuotaExceeded"
	KindRateLimited           Kind = "RateLimited"
	KindUpstream              Kind = "UpstreamServiceError"
	KindSummarizationFailed   Kind = "SummarizationFailed"
	KindInternal              Kind = "InternalError"
)

// Error is the error type handlers know how to render.
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// KindOf returns KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound, KindVideoUnavailable:
		return http.StatusNotFound
	case KindNoTranscriptAvailable, KindVideoTooLong:
		return http.StatusUnprocessableEntity
	case KindVideoPrivate, KindVideoAgeRestricted:
		return http.StatusForbidden
	case KindQuotaExceeded:
		return http.StatusPaymentRequired
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUpstream, KindSummarizationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
