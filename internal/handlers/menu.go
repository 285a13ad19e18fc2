package handlers

import (
	"github.com/Raghu0511/canteen-backend/internal/services/catalog"
	"github.com/Raghu0511/canteen-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type MenuHandler struct {
	catalog catalog.Service
}

func NewMenuHandler(catalogService catalog.Service) *MenuHandler {
	return &MenuHandler{catalog: catalogService}
}

// Menu handles GET /api/menu. Only available items are listed.
func (h *MenuHandler) Menu(c *fiber.Ctx) error {
	items, err := h.catalog.ListMenu(c.UserContext())
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"items": items})
}
