package postgres

import (
	"context"
	"errors"
	"fmt"

	"campuscoin-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// StateRepo implements ports.StateRepository over the ledger_state singleton.
type StateRepo struct {
	pool Pool
}

// NewStateRepo creates a new StateRepo.
func NewStateRepo(pool Pool) *StateRepo {
	return &StateRepo{pool: pool}
}

// Get fetches the ledger state. Returns nil, nil before genesis.
func (r *StateRepo) Get(ctx context.Context) (*domain.LedgerState, error) {
	query := `SELECT admin, university, total_supply, created_at, updated_at
		FROM ledger_state WHERE id = 1`

	return scanState(r.pool.QueryRow(ctx, query))
}

// Init writes the genesis record within a transaction.
func (r *StateRepo) Init(ctx context.Context, tx pgx.Tx, s *domain.LedgerState) error {
	query := `INSERT INTO ledger_state (id, admin, university, total_supply)
		VALUES (1, $1, $2, $3)`

	if _, err := tx.Exec(ctx, query, s.Admin.String(), s.University.String(), s.TotalSupply); err != nil {
		return fmt.Errorf("init ledger state: %w", err)
	}
	return nil
}

// GetForUpdate fetches the ledger state with pessimistic locking.
// This MUST be called within a transaction.
func (r *StateRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.LedgerState, error) {
	query := `SELECT admin, university, total_supply, created_at, updated_at
		FROM ledger_state WHERE id = 1 FOR UPDATE`

	return scanState(tx.QueryRow(ctx, query))
}

// UpdateTotalSupply sets the total supply within a transaction.
func (r *StateRepo) UpdateTotalSupply(ctx context.Context, tx pgx.Tx, totalSupply int64) error {
	query := `UPDATE ledger_state SET total_supply = $1, updated_at = NOW() WHERE id = 1`

	tag, err := tx.Exec(ctx, query, totalSupply)
	if err != nil {
		return fmt.Errorf("update total supply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger state not initialized")
	}
	return nil
}

func scanState(row pgx.Row) (*domain.LedgerState, error) {
	s := &domain.LedgerState{}
	var admin, university string
	err := row.Scan(&admin, &university, &s.TotalSupply, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger state: %w", err)
	}
	s.Admin = domain.Address(admin)
	s.University = domain.Address(university)
	return s, nil
}
