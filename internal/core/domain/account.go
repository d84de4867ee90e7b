package domain

import "time"

// Account holds the ledger-side state of a single address.
// Accounts are created implicitly on first reference and never deleted.
type Account struct {
	Address    Address   `json:"address"`
	Balance    int64     `json:"balance"`     // Native units, no fractional subunits
	TotalSpent int64     `json:"total_spent"` // Gross service-payment spend, monotonic
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Allowance is a spender's pre-authorized limit on an owner's funds.
type Allowance struct {
	Owner   Address `json:"owner"`
	Spender Address `json:"spender"`
	Amount  int64   `json:"amount"`
}
