package service

import (
	"context"
	"fmt"

	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// GenesisParams fixes the admin and treasury identities and the supply
// credited to the admin at construction.
type GenesisParams struct {
	Admin         domain.Address
	University    domain.Address
	InitialSupply int64
}

// Bootstrap initializes the ledger state on first startup: it validates the
// treasury address, records the admin/university pair and credits the full
// initial supply to the admin. On later startups it verifies the configured
// identities match the persisted genesis and returns the stored state.
func Bootstrap(
	ctx context.Context,
	stateRepo ports.StateRepository,
	accountRepo ports.AccountRepository,
	transactor ports.DBTransactor,
	params GenesisParams,
	log zerolog.Logger,
) (*domain.LedgerState, error) {
	if params.University.IsZero() {
		return nil, apperror.ErrInvalidTreasuryAddress()
	}
	if params.InitialSupply < 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	existing, err := stateRepo.Get(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load ledger state: %w", err))
	}
	if existing != nil {
		if existing.Admin != params.Admin || existing.University != params.University {
			return nil, apperror.InternalError(fmt.Errorf(
				"configured admin/university do not match genesis (admin %s, university %s)",
				existing.Admin, existing.University))
		}
		return existing, nil
	}

	dbTx, err := transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	state := &domain.LedgerState{
		Admin:       params.Admin,
		University:  params.University,
		TotalSupply: params.InitialSupply,
	}
	if err := stateRepo.Init(ctx, dbTx, state); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("init ledger state: %w", err))
	}

	if err := accountRepo.Ensure(ctx, dbTx, params.Admin); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("ensure admin account: %w", err))
	}
	acct, err := accountRepo.GetForUpdate(ctx, dbTx, params.Admin)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock admin account: %w", err))
	}
	if acct == nil {
		return nil, apperror.InternalError(fmt.Errorf("admin account missing after ensure"))
	}
	if err := accountRepo.UpdateBalance(ctx, dbTx, params.Admin, acct.Balance+params.InitialSupply); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit initial supply: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	log.Info().
		Str("admin", params.Admin.String()).
		Str("university", params.University.String()).
		Int64("initial_supply", params.InitialSupply).
		Msg("ledger genesis written")

	return state, nil
}
