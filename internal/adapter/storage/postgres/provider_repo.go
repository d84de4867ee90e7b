package postgres

import (
	"context"
	"errors"
	"fmt"

	"campuscoin-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ProviderRepo implements ports.ProviderRepository.
type ProviderRepo struct {
	pool Pool
}

// NewProviderRepo creates a new ProviderRepo.
func NewProviderRepo(pool Pool) *ProviderRepo {
	return &ProviderRepo{pool: pool}
}

// Get fetches a provider record. Returns nil, nil for unknown providers.
func (r *ProviderRepo) Get(ctx context.Context, addr domain.Address) (*domain.ServiceProvider, error) {
	query := `SELECT address, name, category, active, created_at, updated_at
		FROM service_providers WHERE address = $1`

	p := &domain.ServiceProvider{}
	var address string
	err := r.pool.QueryRow(ctx, query, addr.String()).Scan(
		&address, &p.Name, &p.Category, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	p.Address = domain.Address(address)
	return p, nil
}

// Upsert creates or overwrites a provider record within a transaction.
func (r *ProviderRepo) Upsert(ctx context.Context, tx pgx.Tx, p *domain.ServiceProvider) error {
	query := `INSERT INTO service_providers (address, name, category, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address) DO UPDATE
		SET name = EXCLUDED.name, category = EXCLUDED.category,
			active = EXCLUDED.active, updated_at = NOW()`

	if _, err := tx.Exec(ctx, query, p.Address.String(), p.Name, p.Category, p.Active); err != nil {
		return fmt.Errorf("upsert provider: %w", err)
	}
	return nil
}

// SetActive toggles the active flag of an existing record within a transaction.
func (r *ProviderRepo) SetActive(ctx context.Context, tx pgx.Tx, addr domain.Address, active bool) error {
	query := `UPDATE service_providers SET active = $1, updated_at = NOW() WHERE address = $2`

	tag, err := tx.Exec(ctx, query, active, addr.String())
	if err != nil {
		return fmt.Errorf("set provider active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider not found: %s", addr)
	}
	return nil
}
