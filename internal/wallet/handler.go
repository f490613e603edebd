package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gamevault/gamevault/internal/ledger"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type amountRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type transferRequest struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason"`
}

// Balance returns the current balance for a user, zero if never seen.
func (h *Handler) Balance(c *fiber.Ctx) error {
	userID := c.Params("userId")
	balance, err := h.service.Balance(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user_id": userID,
		"balance": balance,
	})
}

// Transactions returns the user's history in append order.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	userID := c.Params("userId")
	txs, err := h.service.Transactions(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user_id":      userID,
		"transactions": txs,
	})
}

// Credit adds funds to the user's wallet.
func (h *Handler) Credit(c *fiber.Ctx) error {
	userID := c.Params("userId")
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Credit(c.UserContext(), userID, req.Amount, req.Reason)
	if err != nil {
		return mapDomainError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transaction": res.Transaction,
		"balance":     res.Balance,
	})
}

// Debit removes funds from the user's wallet, rejecting overdrafts.
func (h *Handler) Debit(c *fiber.Ctx) error {
	userID := c.Params("userId")
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Debit(c.UserContext(), userID, req.Amount, req.Reason)
	if err != nil {
		return mapDomainError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transaction": res.Transaction,
		"balance":     res.Balance,
	})
}

// Transfer moves funds between two wallets as one atomic pair.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.FromUserID == "" || req.ToUserID == "" {
		return fiber.NewError(http.StatusBadRequest, "from_user_id and to_user_id are required")
	}

	res, err := h.service.Transfer(c.UserContext(), req.FromUserID, req.ToUserID, req.Amount, req.Reason)
	if err != nil {
		return mapDomainError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"debit_tx":     res.DebitTx,
		"credit_tx":    res.CreditTx,
		"balance_from": res.FromBalance,
		"balance_to":   res.ToBalance,
	})
}

func mapDomainError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
