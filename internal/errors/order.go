package errors

import "net/http"

var (
	ErrInvalidRequest = &DomainError{
		Code:    "INVALID_REQUEST",
		Message: "invalid request",
		Kind:    KindClient,
		Status:  http.StatusBadRequest,
	}
	ErrNoItemsAvailable = &DomainError{
		Code:    "NO_ITEMS_AVAILABLE",
		Message: "no available items in cart",
		Kind:    KindBusiness,
		Status:  http.StatusNotFound,
	}
	ErrItemNotFound = &DomainError{
		Code:    "ITEM_NOT_FOUND",
		Message: "menu item not found",
		Kind:    KindBusiness,
		Status:  http.StatusNotFound,
	}
	ErrOrderNotFound = &DomainError{
		Code:    "ORDER_NOT_FOUND",
		Message: "order not found",
		Kind:    KindBusiness,
		Status:  http.StatusNotFound,
	}
	ErrNoFreeSlots = &DomainError{
		Code:    "NO_FREE_SLOTS",
		Message: "no token slots available",
		Kind:    KindBusiness,
		Status:  http.StatusConflict,
	}
	ErrSlotNotFound = &DomainError{
		Code:    "SLOT_NOT_FOUND",
		Message: "token slot not found",
		Kind:    KindBusiness,
		Status:  http.StatusNotFound,
	}
	ErrInvalidTransition = &DomainError{
		Code:    "INVALID_TRANSITION",
		Message: "invalid status transition",
		Kind:    KindBusiness,
		Status:  http.StatusConflict,
	}
)
