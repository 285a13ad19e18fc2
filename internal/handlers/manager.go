package handlers

import (
	"log/slog"
	"strings"

	"github.com/Raghu0511/canteen-backend/internal/middleware"
	"github.com/Raghu0511/canteen-backend/internal/services/wallet"
	"github.com/Raghu0511/canteen-backend/internal/utils"
	"github.com/Raghu0511/canteen-backend/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

// scanPrefix is printed on student id cards in front of the reg number.
const scanPrefix = "BL.SC."

type ManagerHandler struct {
	wallet *WalletHandler
	log    *slog.Logger
}

func NewManagerHandler(walletService wallet.Service, log *slog.Logger) *ManagerHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ManagerHandler{wallet: NewWalletHandler(walletService), log: log}
}

type scanInput struct {
	ScannedID string `json:"scannedId" validate:"required,max=64"`
}

// RegNoFromScan turns a scanned id card value into a reg number.
func RegNoFromScan(scanned string) string {
	scanned = strings.TrimSpace(scanned)
	if len(scanned) >= len(scanPrefix) && strings.EqualFold(scanned[:len(scanPrefix)], scanPrefix) {
		scanned = scanned[len(scanPrefix):]
	}
	return strings.TrimSpace(scanned)
}

// FetchStudent handles POST /api/manager/fetch-student.
func (h *ManagerHandler) FetchStudent(c *fiber.Ctx) error {
	var input scanInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.Error(c, err)
	}

	student, err := h.wallet.walletService.Profile(c.UserContext(), RegNoFromScan(input.ScannedID))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"regNo":         student.RegNo,
		"name":          student.Name,
		"walletBalance": student.WalletBalance,
	})
}

// UpdateWallet handles POST /api/manager/update-wallet. It credits the
// wallet and returns the new balance.
func (h *ManagerHandler) UpdateWallet(c *fiber.Ctx) error {
	balance, err := h.wallet.credit(c)
	if err != nil {
		return utils.Error(c, err)
	}

	attrs := []any{slog.String("balance", balance.StringFixed(2))}
	if claims, ok := middleware.Claims(c); ok {
		attrs = append(attrs, slog.String("manager", claims.Subject))
	}
	h.log.Info("wallet credited by manager", attrs...)

	return utils.Success(c, fiber.Map{
		"message":    "Wallet updated",
		"newBalance": balance,
	})
}

// Reconcile handles GET /api/manager/wallet/:regNo/reconcile.
func (h *ManagerHandler) Reconcile(c *fiber.Ctx) error {
	rec, err := h.wallet.walletService.Reconcile(c.UserContext(), c.Params("regNo"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, rec)
}
