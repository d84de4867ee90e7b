package postgres

import (
	"context"
	"errors"
	"fmt"

	"campuscoin-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// GetByAddress fetches an account by address (non-locking read).
// Returns nil, nil if the account has never been referenced.
func (r *AccountRepo) GetByAddress(ctx context.Context, addr domain.Address) (*domain.Account, error) {
	query := `SELECT address, balance, total_spent, created_at, updated_at
		FROM accounts WHERE address = $1`

	return scanAccount(r.pool.QueryRow(ctx, query, addr.String()))
}

// Ensure creates the account row if it does not exist yet.
func (r *AccountRepo) Ensure(ctx context.Context, tx pgx.Tx, addr domain.Address) error {
	query := `INSERT INTO accounts (address) VALUES ($1) ON CONFLICT (address) DO NOTHING`

	if _, err := tx.Exec(ctx, query, addr.String()); err != nil {
		return fmt.Errorf("ensure account: %w", err)
	}
	return nil
}

// GetForUpdate fetches an account with pessimistic locking.
// This MUST be called within a transaction, after Ensure.
func (r *AccountRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, addr domain.Address) (*domain.Account, error) {
	query := `SELECT address, balance, total_spent, created_at, updated_at
		FROM accounts WHERE address = $1 FOR UPDATE`

	return scanAccount(tx.QueryRow(ctx, query, addr.String()))
}

// UpdateBalance sets an account's balance within a transaction.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, addr domain.Address, balance int64) error {
	query := `UPDATE accounts SET balance = $1, updated_at = NOW() WHERE address = $2`

	tag, err := tx.Exec(ctx, query, balance, addr.String())
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", addr)
	}
	return nil
}

// AddTotalSpent increments an account's gross spend accumulator.
func (r *AccountRepo) AddTotalSpent(ctx context.Context, tx pgx.Tx, addr domain.Address, amount int64) error {
	query := `UPDATE accounts SET total_spent = total_spent + $1, updated_at = NOW() WHERE address = $2`

	tag, err := tx.Exec(ctx, query, amount, addr.String())
	if err != nil {
		return fmt.Errorf("add total spent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", addr)
	}
	return nil
}

// GetAllowance fetches an allowance (non-locking read). Missing rows read as 0.
func (r *AccountRepo) GetAllowance(ctx context.Context, owner, spender domain.Address) (int64, error) {
	return r.allowance(ctx, r.pool.QueryRow(ctx,
		`SELECT amount FROM allowances WHERE owner = $1 AND spender = $2`,
		owner.String(), spender.String()))
}

// GetAllowanceForUpdate fetches an allowance with pessimistic locking.
// This MUST be called within a transaction. Missing rows read as 0.
func (r *AccountRepo) GetAllowanceForUpdate(ctx context.Context, tx pgx.Tx, owner, spender domain.Address) (int64, error) {
	return r.allowance(ctx, tx.QueryRow(ctx,
		`SELECT amount FROM allowances WHERE owner = $1 AND spender = $2 FOR UPDATE`,
		owner.String(), spender.String()))
}

// SetAllowance sets an allowance to an absolute value within a transaction.
func (r *AccountRepo) SetAllowance(ctx context.Context, tx pgx.Tx, owner, spender domain.Address, amount int64) error {
	query := `INSERT INTO allowances (owner, spender, amount) VALUES ($1, $2, $3)
		ON CONFLICT (owner, spender) DO UPDATE SET amount = EXCLUDED.amount`

	if _, err := tx.Exec(ctx, query, owner.String(), spender.String(), amount); err != nil {
		return fmt.Errorf("set allowance: %w", err)
	}
	return nil
}

// SumBalances returns the sum over all balances for the conservation audit.
func (r *AccountRepo) SumBalances(ctx context.Context) (int64, error) {
	var sum int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM accounts`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum balances: %w", err)
	}
	return sum, nil
}

func (r *AccountRepo) allowance(_ context.Context, row pgx.Row) (int64, error) {
	var amount int64
	if err := row.Scan(&amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get allowance: %w", err)
	}
	return amount, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	var addr string
	err := row.Scan(&addr, &a.Balance, &a.TotalSpent, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.Address = domain.Address(addr)
	return a, nil
}
