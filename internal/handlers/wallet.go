package handlers

import (
	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"
	"github.com/Raghu0511/canteen-backend/internal/services/wallet"
	"github.com/Raghu0511/canteen-backend/internal/utils"
	"github.com/Raghu0511/canteen-backend/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

type creditInput struct {
	RegNo  string          `json:"regNo" validate:"required,max=32"`
	Amount decimal.Decimal `json:"amount" validate:"required,money"`
}

// Profile handles GET /api/profile/:regNo.
func (h *WalletHandler) Profile(c *fiber.Ctx) error {
	student, err := h.walletService.Profile(c.UserContext(), c.Params("regNo"))
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{
		"regNo":         student.RegNo,
		"name":          student.Name,
		"walletBalance": student.WalletBalance,
	})
}

// TopUp handles POST /api/wallet/add.
func (h *WalletHandler) TopUp(c *fiber.Ctx) error {
	balance, err := h.credit(c)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": "Wallet topped up",
		"balance": balance,
	})
}

// Transactions handles GET /api/wallet/:regNo/transactions.
func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", wallet.DefaultPageSize)
	offset := c.QueryInt("offset", 0)

	entries, err := h.walletService.Transactions(c.UserContext(), c.Params("regNo"), limit, offset)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transactions": entries,
		"limit":        limit,
		"offset":       offset,
	})
}

func (h *WalletHandler) credit(c *fiber.Ctx) (decimal.Decimal, error) {
	var input creditInput
	if err := c.BodyParser(&input); err != nil {
		return decimal.Zero, apperrors.Newf(apperrors.ErrInvalidRequest, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return decimal.Zero, err
	}
	return h.walletService.TopUp(c.UserContext(), input.RegNo, input.Amount)
}
