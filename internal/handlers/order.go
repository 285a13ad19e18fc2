package handlers

import (
	"github.com/Raghu0511/canteen-backend/internal/services/orders"
	"github.com/Raghu0511/canteen-backend/internal/services/placement"
	"github.com/Raghu0511/canteen-backend/internal/utils"
	"github.com/Raghu0511/canteen-backend/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	placement placement.Service
	orders    orders.Service
}

func NewOrderHandler(placementService placement.Service, orderService orders.Service) *OrderHandler {
	return &OrderHandler{
		placement: placementService,
		orders:    orderService,
	}
}

// PlaceOrder handles POST /api/order.
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var req placement.Request
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(req); err != nil {
		return utils.Error(c, err)
	}

	receipt, err := h.placement.PlaceOrder(c.UserContext(), req)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{
		"message":       "Order placed successfully",
		"orderId":       receipt.OrderID,
		"tokenId":       receipt.TokenID,
		"totalAmount":   receipt.TotalAmount,
		"balance":       receipt.Balance,
		"items":         receipt.Lines,
		"skipped_items": receipt.Skipped,
	})
}

// History handles GET /api/orders/:regNo.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	history, err := h.orders.History(c.UserContext(), c.Params("regNo"))
	if err != nil {
		return utils.Error(c, err)
	}

	out := make([]fiber.Map, 0, len(history))
	for i := range history {
		out = append(out, orderView(&history[i]))
	}
	return utils.Success(c, fiber.Map{"orders": out})
}

// Status handles GET /api/order/:orderId/status.
func (h *OrderHandler) Status(c *fiber.Ctx) error {
	orderID, err := idParam(c, "orderId")
	if err != nil {
		return utils.BadRequest(c, "invalid order id")
	}

	order, err := h.orders.Get(c.UserContext(), orderID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, orderView(order))
}
