package ports

import (
	"context"

	"campuscoin-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AccountRepository defines persistence for balances, allowances and
// per-account spend accumulators. Methods accepting pgx.Tx are used inside
// transaction blocks for pessimistic locking.
type AccountRepository interface {
	GetByAddress(ctx context.Context, addr domain.Address) (*domain.Account, error)
	// Ensure creates the account row if absent. Accounts are created
	// implicitly on first reference and never deleted.
	Ensure(ctx context.Context, tx pgx.Tx, addr domain.Address) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, addr domain.Address) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, addr domain.Address, balance int64) error
	AddTotalSpent(ctx context.Context, tx pgx.Tx, addr domain.Address, amount int64) error
	GetAllowance(ctx context.Context, owner, spender domain.Address) (int64, error)
	GetAllowanceForUpdate(ctx context.Context, tx pgx.Tx, owner, spender domain.Address) (int64, error)
	SetAllowance(ctx context.Context, tx pgx.Tx, owner, spender domain.Address, amount int64) error
	// SumBalances returns the sum over all account balances, used by the
	// conservation audit.
	SumBalances(ctx context.Context) (int64, error)
}

// MembershipRepository defines persistence for the student set.
// Add and Remove are idempotent.
type MembershipRepository interface {
	Add(ctx context.Context, tx pgx.Tx, addr domain.Address) error
	Remove(ctx context.Context, tx pgx.Tx, addr domain.Address) error
	IsStudent(ctx context.Context, addr domain.Address) (bool, error)
}

// ProviderRepository defines persistence for service provider records.
// Records are never deleted; Get returns nil, nil for unknown providers.
type ProviderRepository interface {
	Get(ctx context.Context, addr domain.Address) (*domain.ServiceProvider, error)
	Upsert(ctx context.Context, tx pgx.Tx, provider *domain.ServiceProvider) error
	SetActive(ctx context.Context, tx pgx.Tx, addr domain.Address, active bool) error
}

// StateRepository defines persistence for the ledger singleton state.
// Get returns nil, nil before genesis.
type StateRepository interface {
	Get(ctx context.Context) (*domain.LedgerState, error)
	Init(ctx context.Context, tx pgx.Tx, state *domain.LedgerState) error
	GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.LedgerState, error)
	UpdateTotalSupply(ctx context.Context, tx pgx.Tx, totalSupply int64) error
}

// EventRepository defines the append-only notification log.
type EventRepository interface {
	Create(ctx context.Context, tx pgx.Tx, event *domain.Event) error
	List(ctx context.Context, limit, offset int) ([]domain.Event, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
