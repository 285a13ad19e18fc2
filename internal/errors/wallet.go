package errors

import "net/http"

var (
	ErrUnknownOwner = &DomainError{
		Code:    "UNKNOWN_OWNER",
		Message: "student not found",
		Kind:    KindBusiness,
		Status:  http.StatusNotFound,
	}
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient wallet balance",
		Kind:    KindBusiness,
		Status:  http.StatusBadRequest,
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
		Kind:    KindClient,
		Status:  http.StatusBadRequest,
	}
)
