package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gamevault/gamevault/internal/wallet"
)

// RegisterWalletRoutes wires wallet endpoints. The transactions route is
// registered before the parameterized balance route so "transactions" is
// never captured as a user id.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	group := r.Group("/wallet")
	group.Post("/transfer", h.Transfer)
	group.Get("/transactions/:userId", h.Transactions)
	group.Get("/:userId", h.Balance)
	group.Post("/:userId/credit", h.Credit)
	group.Post("/:userId/debit", h.Debit)
}
