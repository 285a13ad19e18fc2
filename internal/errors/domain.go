// Package errors defines the domain error taxonomy shared by services and handlers.
//
// Every failure surfaced by a service is, or wraps, one of the sentinel
// *DomainError values declared in this package. Callers classify with
// errors.Is against a sentinel, or with StatusOf / PublicMessage when
// rendering a response.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind groups errors by who is expected to act on them.
type Kind int

const (
	KindClient Kind = iota + 1
	KindBusiness
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindBusiness:
		return "business"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

type DomainError struct {
	Code    string
	Message string
	Kind    Kind
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// Wrap attaches cause to sentinel so that errors.Is matches both.
func Wrap(sentinel *DomainError, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// Newf adds request specific detail to sentinel.
func Newf(sentinel *DomainError, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// As returns the outermost DomainError in err's chain.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Is reports whether err matches target. It lets callers that import this
// package under its own name avoid a second import of the standard one.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// IsInfrastructure reports whether err should be hidden from API callers.
// Errors outside the taxonomy count as infrastructure failures.
func IsInfrastructure(err error) bool {
	de, ok := As(err)
	return !ok || de.Kind == KindInfrastructure
}

// StatusOf maps err to an HTTP status code.
func StatusOf(err error) int {
	if de, ok := As(err); ok && de.Status != 0 {
		return de.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the stable machine readable code for err.
func CodeOf(err error) string {
	if de, ok := As(err); ok {
		return de.Code
	}
	return ErrInternalConsistency.Code
}

// PublicMessage is the text safe to return to an API caller. Client and
// business errors keep their detail; infrastructure errors collapse to the
// sentinel message so that driver errors and SQL never leak.
func PublicMessage(err error) string {
	de, ok := As(err)
	if !ok {
		return ErrInternalConsistency.Message
	}
	if de.Kind == KindInfrastructure {
		return de.Message
	}
	return err.Error()
}
