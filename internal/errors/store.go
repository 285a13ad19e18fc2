package errors

import "net/http"

var (
	ErrStoreUnavailable = &DomainError{
		Code:    "STORE_UNAVAILABLE",
		Message: "service temporarily unavailable, please retry",
		Kind:    KindInfrastructure,
		Status:  http.StatusServiceUnavailable,
	}
	// ErrInternalConsistency means a step that was checked earlier in the same
	// transaction failed anyway. The transaction is rolled back.
	ErrInternalConsistency = &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "internal error",
		Kind:    KindInfrastructure,
		Status:  http.StatusInternalServerError,
	}
)
