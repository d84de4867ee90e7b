package dto

// TokenRequest is the request body for issuing an API token.
type TokenRequest struct {
	Address   string `json:"address" binding:"required,ledger_address"`
	APISecret string `json:"api_secret" binding:"required"`
}

// TokenResponse is the response body for a successful token request.
type TokenResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// AddStudentRequest is the request body for registering a student.
type AddStudentRequest struct {
	Student string `json:"student" binding:"required,ledger_address"`
}

// AddProviderRequest is the request body for registering a service provider.
type AddProviderRequest struct {
	Provider string `json:"provider" binding:"required,ledger_address"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Category string `json:"category" binding:"required,min=1,max=50"`
}

// UpdateProviderRequest is the request body for overwriting a provider profile.
type UpdateProviderRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Category string `json:"category" binding:"required,min=1,max=50"`
	Active   *bool  `json:"active" binding:"required"`
}

// MintRequest is the request body for minting tokens to a student.
type MintRequest struct {
	Student string `json:"student" binding:"required,ledger_address"`
	Amount  int64  `json:"amount" binding:"required"`
}

// BurnRequest is the request body for burning the caller's tokens.
type BurnRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// TransferRequest is the request body for a direct transfer.
type TransferRequest struct {
	To     string `json:"to" binding:"required,ledger_address"`
	Amount int64  `json:"amount" binding:"required"`
}

// ApproveRequest is the request body for setting an allowance.
// Amount carries no gt constraint: approving zero revokes the allowance.
type ApproveRequest struct {
	Spender string `json:"spender" binding:"required,ledger_address"`
	Amount  *int64 `json:"amount" binding:"required"`
}

// TransferFromRequest is the request body for a delegated transfer.
type TransferFromRequest struct {
	From   string `json:"from" binding:"required,ledger_address"`
	To     string `json:"to" binding:"required,ledger_address"`
	Amount int64  `json:"amount" binding:"required"`
}

// PayServiceRequest is the request body for paying a service provider.
type PayServiceRequest struct {
	Provider string `json:"provider" binding:"required,ledger_address"`
	Amount   int64  `json:"amount" binding:"required"`
}

// PaymentReceiptResponse reports the fee split of a completed payment.
type PaymentReceiptResponse struct {
	Student       string `json:"student"`
	Provider      string `json:"provider"`
	Amount        int64  `json:"amount"`
	Fee           int64  `json:"fee"`
	ProviderShare int64  `json:"provider_share"`
}

// TokenInfoResponse describes the ledger identity and supply.
type TokenInfoResponse struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	TotalSupply int64  `json:"total_supply"`
	Admin       string `json:"admin"`
	University  string `json:"university"`
}

// AccountResponse is the response for an account query.
type AccountResponse struct {
	Address    string `json:"address"`
	Balance    int64  `json:"balance"`
	TotalSpent int64  `json:"total_spent"`
}

// AllowanceResponse is the response for an allowance query.
type AllowanceResponse struct {
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Allowance int64  `json:"allowance"`
}

// StudentResponse is the response for a membership query.
type StudentResponse struct {
	Address   string `json:"address"`
	IsStudent bool   `json:"is_student"`
}

// ProviderResponse is the response for a provider query.
type ProviderResponse struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Active   bool   `json:"active"`
}

// AuditResponse compares the balance sum against the recorded supply.
type AuditResponse struct {
	TotalSupply int64 `json:"total_supply"`
	SumBalances int64 `json:"sum_balances"`
	Balanced    bool  `json:"balanced"`
}

// EventResponse is a single entry of the event log.
type EventResponse struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Attributes interface{} `json:"attributes"`
	CreatedAt  string      `json:"created_at"`
}

// EventListResponse wraps a paginated event list.
type EventListResponse struct {
	Items  []EventResponse `json:"items"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
