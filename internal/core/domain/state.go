package domain

import "time"

// LedgerState is the singleton genesis record: the admin and treasury
// identities are fixed here and the running total supply lives alongside.
type LedgerState struct {
	Admin       Address   `json:"admin"`
	University  Address   `json:"university"`
	TotalSupply int64     `json:"total_supply"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
