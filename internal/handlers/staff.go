package handlers

import (
	"log/slog"

	"github.com/Raghu0511/canteen-backend/internal/middleware"
	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/services/catalog"
	"github.com/Raghu0511/canteen-backend/internal/services/orders"
	"github.com/Raghu0511/canteen-backend/internal/services/tokens"
	"github.com/Raghu0511/canteen-backend/internal/utils"
	"github.com/Raghu0511/canteen-backend/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

// StaffHandler serves the counter: menu availability, the token board and
// the order status lifecycle.
type StaffHandler struct {
	catalog catalog.Service
	tokens  tokens.Service
	orders  orders.Service
	log     *slog.Logger
}

func NewStaffHandler(catalogService catalog.Service, tokenService tokens.Service, orderService orders.Service, log *slog.Logger) *StaffHandler {
	if log == nil {
		log = slog.Default()
	}
	return &StaffHandler{
		catalog: catalogService,
		tokens:  tokenService,
		orders:  orderService,
		log:     log,
	}
}

type availabilityInput struct {
	Available *bool `json:"available" validate:"required"`
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

// Menu handles GET /api/staff/menu, including unavailable items.
func (h *StaffHandler) Menu(c *fiber.Ctx) error {
	items, err := h.catalog.ListAll(c.UserContext())
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"items": items})
}

// SetAvailability handles PUT /api/staff/menu/:itemId/availability.
func (h *StaffHandler) SetAvailability(c *fiber.Ctx) error {
	itemID, err := idParam(c, "itemId")
	if err != nil {
		return utils.BadRequest(c, "invalid item id")
	}

	var input availabilityInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.Error(c, err)
	}

	if err := h.catalog.SetAvailability(c.UserContext(), itemID, *input.Available); err != nil {
		return utils.Error(c, err)
	}
	h.audit(c, "menu availability changed", slog.Uint64("item_id", uint64(itemID)), slog.Bool("available", *input.Available))

	return utils.Success(c, fiber.Map{
		"message":   "Availability updated",
		"itemId":    itemID,
		"available": *input.Available,
	})
}

// Tokens handles GET /api/staff/tokens.
func (h *StaffHandler) Tokens(c *fiber.Ctx) error {
	board, err := h.tokens.List(c.UserContext())
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"tokens": boardView(board)})
}

// AdvanceToken handles PUT /api/staff/tokens/:tokenId/status. The status may
// be given as a state (occupied, ready, free) or a colour (Red, Green, Gray).
// Freeing a ready token that still holds an order completes that order.
func (h *StaffHandler) AdvanceToken(c *fiber.Ctx) error {
	tokenID, err := idParam(c, "tokenId")
	if err != nil {
		return utils.BadRequest(c, "invalid token id")
	}

	var input statusInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.Error(c, err)
	}
	next, ok := models.ParseSlotState(input.Status)
	if !ok {
		return utils.BadRequest(c, "unknown token status")
	}

	if next == models.SlotFree {
		slot, err := h.tokens.Get(c.UserContext(), tokenID)
		if err != nil {
			return utils.Error(c, err)
		}
		if slot.Status == models.SlotReady && slot.OrderID != nil {
			return h.collect(c, tokenID, *slot.OrderID)
		}
	}

	slot, err := h.tokens.Advance(c.UserContext(), tokenID, next)
	if err != nil {
		return utils.Error(c, err)
	}
	h.audit(c, "token advanced", slog.Uint64("token_id", uint64(tokenID)), slog.String("status", string(next)))
	return utils.Success(c, slotView(slot))
}

// collect completes the order waiting on a green token; the order's
// completion frees the token in the same transaction.
func (h *StaffHandler) collect(c *fiber.Ctx, tokenID, orderID uint) error {
	if _, err := h.orders.UpdateStatus(c.UserContext(), orderID, models.OrderCompleted); err != nil {
		return utils.Error(c, err)
	}
	slot, err := h.tokens.Get(c.UserContext(), tokenID)
	if err != nil {
		return utils.Error(c, err)
	}
	h.audit(c, "order collected",
		slog.Uint64("token_id", uint64(tokenID)),
		slog.Uint64("order_id", uint64(orderID)))
	return utils.Success(c, slotView(slot))
}

// ReleaseToken handles POST /api/staff/tokens/:tokenId/release.
func (h *StaffHandler) ReleaseToken(c *fiber.Ctx) error {
	tokenID, err := idParam(c, "tokenId")
	if err != nil {
		return utils.BadRequest(c, "invalid token id")
	}

	slot, err := h.tokens.Release(c.UserContext(), tokenID)
	if err != nil {
		return utils.Error(c, err)
	}
	h.audit(c, "token released", slog.Uint64("token_id", uint64(tokenID)))
	return utils.Success(c, slotView(slot))
}

// UpdateOrderStatus handles PUT /api/staff/orders/:orderId/status.
func (h *StaffHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := idParam(c, "orderId")
	if err != nil {
		return utils.BadRequest(c, "invalid order id")
	}

	var input statusInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.Error(c, err)
	}
	next, ok := models.ParseOrderStatus(input.Status)
	if !ok {
		return utils.BadRequest(c, "unknown order status")
	}

	order, err := h.orders.UpdateStatus(c.UserContext(), orderID, next)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, orderView(order))
}

func (h *StaffHandler) audit(c *fiber.Ctx, msg string, attrs ...any) {
	if claims, ok := middleware.Claims(c); ok {
		attrs = append(attrs, slog.String("staff", claims.Subject), slog.String("role", claims.Role))
	}
	h.log.Info(msg, attrs...)
}
