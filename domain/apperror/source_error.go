package apperror

import "fmt"

// Reason classifies why a transcript source or metadata provider gave up.
type Reason string

const (
	ReasonNoCaptions    Reason = "no_captions"
	ReasonEmpty         Reason = "empty"
	ReasonPrivate       Reason = "private"
	ReasonUnavailable   Reason = "unavailable"
	ReasonAgeRestricted Reason = "age_restricted"
	ReasonForbidden     Reason = "forbidden"
	ReasonTimeout       Reason = "timeout"
	ReasonDisabled      Reason = "disabled"
	ReasonUpstream      Reason = "upstream"
)

// Definitive reasons describe the video itself, so no other source can do better.
func (r Reason) Definitive() bool {
	return r == ReasonPrivate || r == ReasonUnavailable || r == ReasonAgeRestricted
}

// Kind maps a definitive reason onto its user-facing kind.
func (r Reason) Kind() Kind {
	switch r {
	case ReasonPrivate:
		return KindVideoPrivate
	case ReasonUnavailable:
		return KindVideoUnavailable
	case ReasonAgeRestricted:
		return KindVideoAgeRestricted
	default:
		return KindUpstream
	}
}

type SourceError struct {
	Source string
	Reason Reason
	Err    error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

func (e *SourceError) Unwrap() error { return e.Err }

func NewSourceError(source string, reason Reason, err error) *SourceError {
	return &SourceError{Source: source, Reason: reason, Err: err}
}
