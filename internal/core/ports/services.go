package ports

import (
	"context"
	"time"

	"campuscoin-ledger/internal/core/domain"
)

// EventPublisher pushes committed events onto a stream for external observers.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// Notifier fans committed events out to configured observer webhooks.
// Delivery is asynchronous and best effort.
type Notifier interface {
	Notify(event *domain.Event)
}

// TokenService handles JWT token operations. The token carries the caller's
// ledger address; the execution environment is trusted to have authenticated
// the caller before a token is issued.
type TokenService interface {
	Generate(addr domain.Address) (string, time.Time, error)
	Validate(tokenString string) (domain.Address, error)
}

// HashService handles secret hashing (Argon2id).
type HashService interface {
	Hash(secret string) (string, error)
	Verify(secret string, hash string) (bool, error)
}

// SignatureService handles HMAC-SHA256 signing and verification of
// outbound notification payloads.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// --- Service Ports (Business Logic) ---

// LedgerService orchestrates all value-moving operations. Every operation
// either fully commits or has no effect; all failure conditions are checked
// before any state mutation.
type LedgerService interface {
	Mint(ctx context.Context, req MintRequest) error
	Burn(ctx context.Context, req BurnRequest) error
	Transfer(ctx context.Context, req TransferRequest) error
	Approve(ctx context.Context, req ApproveRequest) error
	TransferFrom(ctx context.Context, req TransferFromRequest) error
	PayService(ctx context.Context, req PayServiceRequest) (*PaymentReceipt, error)
}

// MintRequest credits new supply to a registered student. Admin only.
type MintRequest struct {
	Caller  domain.Address
	Student domain.Address
	Amount  int64
}

// BurnRequest destroys tokens from the caller's own balance.
type BurnRequest struct {
	Caller domain.Address
	Amount int64
}

// TransferRequest moves tokens to a registered student.
type TransferRequest struct {
	Caller domain.Address
	To     domain.Address
	Amount int64
}

// ApproveRequest sets an absolute spending allowance.
type ApproveRequest struct {
	Caller  domain.Address
	Spender domain.Address
	Amount  int64
}

// TransferFromRequest moves tokens on an owner's behalf within allowance.
type TransferFromRequest struct {
	Caller domain.Address // spender
	From   domain.Address
	To     domain.Address
	Amount int64
}

// PayServiceRequest pays an active provider with the treasury fee split.
type PayServiceRequest struct {
	Caller   domain.Address
	Provider domain.Address
	Amount   int64
}

// PaymentReceipt reports the fee split of a completed service payment.
// ProviderShare + Fee == Amount always holds.
type PaymentReceipt struct {
	Student       domain.Address `json:"student"`
	Provider      domain.Address `json:"provider"`
	Amount        int64          `json:"amount"`
	Fee           int64          `json:"fee"`
	ProviderShare int64          `json:"provider_share"`
}

// RegistryService manages the student membership and provider registries.
// All mutations require the admin caller.
type RegistryService interface {
	AddStudent(ctx context.Context, caller, student domain.Address) error
	RemoveStudent(ctx context.Context, caller, student domain.Address) error
	IsStudent(ctx context.Context, addr domain.Address) (bool, error)
	AddServiceProvider(ctx context.Context, req AddProviderRequest) error
	RemoveServiceProvider(ctx context.Context, caller, provider domain.Address) error
	UpdateServiceProvider(ctx context.Context, req UpdateProviderRequest) error
	ServiceProviderOf(ctx context.Context, addr domain.Address) (*domain.ServiceProvider, error)
}

// AddProviderRequest creates or overwrites a provider profile (active=true).
type AddProviderRequest struct {
	Caller   domain.Address
	Provider domain.Address
	Name     string
	Category string
}

// UpdateProviderRequest overwrites all fields of an existing provider.
type UpdateProviderRequest struct {
	Caller   domain.Address
	Provider domain.Address
	Name     string
	Category string
	Active   bool
}

// QueryService is the read-only surface. No method has side effects.
type QueryService interface {
	TokenInfo(ctx context.Context) (*TokenInfo, error)
	BalanceOf(ctx context.Context, addr domain.Address) (int64, error)
	TotalSpentOf(ctx context.Context, addr domain.Address) (int64, error)
	AllowanceOf(ctx context.Context, owner, spender domain.Address) (int64, error)
	Audit(ctx context.Context) (*AuditReport, error)
	ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, error)
}

// TokenInfo describes the ledger identity and supply.
type TokenInfo struct {
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	TotalSupply int64          `json:"total_supply"`
	Admin       domain.Address `json:"admin"`
	University  domain.Address `json:"university"`
}

// AuditReport compares the balance sum against the recorded total supply.
type AuditReport struct {
	TotalSupply int64 `json:"total_supply"`
	SumBalances int64 `json:"sum_balances"`
	Balanced    bool  `json:"balanced"`
}

// AuthService exchanges the shared API secret for a caller-scoped token.
type AuthService interface {
	IssueToken(ctx context.Context, address string, secret string) (string, time.Time, error)
}
