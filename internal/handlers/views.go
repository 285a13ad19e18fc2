package handlers

import (
	"strconv"

	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// idParam reads a positive numeric path parameter.
func idParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

func orderView(o *models.Order) fiber.Map {
	items := make([]fiber.Map, 0, len(o.Lines))
	for _, line := range o.Lines {
		items = append(items, fiber.Map{
			"item_id":        line.ItemID,
			"item_name":      line.ItemName(),
			"quantity":       line.Quantity,
			"price_at_order": line.PriceAtOrder,
			"subtotal":       line.Subtotal(),
		})
	}

	view := fiber.Map{
		"orderId":     o.ID,
		"regNo":       o.RegNo,
		"totalAmount": o.TotalAmount,
		"status":      o.Status,
		"orderTime":   o.OrderTime,
		"items":       items,
		"token":       nil,
	}
	if o.Slot != nil {
		view["token"] = slotView(o.Slot)
	}
	return view
}

func slotView(s *models.TokenSlot) fiber.Map {
	return fiber.Map{
		"tokenId": s.ID,
		"orderId": s.OrderID,
		"status":  s.Status,
		"colour":  s.Status.Colour(),
	}
}

func boardView(views []repositories.SlotView) []fiber.Map {
	out := make([]fiber.Map, 0, len(views))
	for i := range views {
		v := slotView(&views[i].TokenSlot)
		v["orderStatus"] = views[i].OrderStatus
		v["regNo"] = views[i].RegNo
		out = append(out, v)
	}
	return out
}
