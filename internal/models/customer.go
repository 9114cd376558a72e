package models

// Customer is the record returned by the customer microservice. Accounts
// only need to know the owner exists; the rest of the fields ride along for
// logging and future use.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Document  string `json:"document"`
	Email     string `json:"email"`
}
