package postgres

import (
	"context"
	"fmt"

	"campuscoin-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// MembershipRepo implements ports.MembershipRepository.
type MembershipRepo struct {
	pool Pool
}

// NewMembershipRepo creates a new MembershipRepo.
func NewMembershipRepo(pool Pool) *MembershipRepo {
	return &MembershipRepo{pool: pool}
}

// Add flags an address as a student. Idempotent.
func (r *MembershipRepo) Add(ctx context.Context, tx pgx.Tx, addr domain.Address) error {
	query := `INSERT INTO students (address) VALUES ($1) ON CONFLICT (address) DO NOTHING`

	if _, err := tx.Exec(ctx, query, addr.String()); err != nil {
		return fmt.Errorf("add student: %w", err)
	}
	return nil
}

// Remove clears an address's student flag. Idempotent; balances are untouched.
func (r *MembershipRepo) Remove(ctx context.Context, tx pgx.Tx, addr domain.Address) error {
	query := `DELETE FROM students WHERE address = $1`

	if _, err := tx.Exec(ctx, query, addr.String()); err != nil {
		return fmt.Errorf("remove student: %w", err)
	}
	return nil
}

// IsStudent reports membership. Pure lookup, no side effects.
func (r *MembershipRepo) IsStudent(ctx context.Context, addr domain.Address) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM students WHERE address = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, addr.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("is student: %w", err)
	}
	return exists, nil
}
