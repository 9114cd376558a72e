package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the account API. Static segments (deposit, withdraw,
// transfer, customer) take priority over the {accountId} wildcard.
func RegisterRoutes(r chi.Router, accounts *AccountHandler, transactions *TransactionHandler) {
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", accounts.ListAccounts)
		r.Post("/", accounts.CreateAccount)

		r.Put("/deposit", transactions.Deposit)
		r.Put("/withdraw", transactions.Withdraw)
		r.Put("/transfer", transactions.Transfer)

		r.Get("/customer/{customerId}", accounts.ListCustomerAccounts)

		r.Get("/{accountId}", accounts.GetAccount)
		r.Put("/{accountId}", accounts.UpdateAccount)
		r.Delete("/{accountId}", accounts.DeleteAccount)
	})
}
