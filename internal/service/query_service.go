package service

import (
	"context"
	"fmt"

	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/pkg/apperror"
)

const (
	maxEventPageSize     = 100
	defaultEventPageSize = 20
)

// QueryServiceImpl implements ports.QueryService, the read-only surface.
type QueryServiceImpl struct {
	accounts ports.AccountRepository
	state    ports.StateRepository
	events   ports.EventRepository
	name     string
	symbol   string
}

// NewQueryService creates a new QueryServiceImpl.
func NewQueryService(
	accounts ports.AccountRepository,
	state ports.StateRepository,
	events ports.EventRepository,
	name, symbol string,
) *QueryServiceImpl {
	return &QueryServiceImpl{
		accounts: accounts,
		state:    state,
		events:   events,
		name:     name,
		symbol:   symbol,
	}
}

// TokenInfo returns the ledger identity and current supply.
func (s *QueryServiceImpl) TokenInfo(ctx context.Context) (*ports.TokenInfo, error) {
	state, err := s.state.Get(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load ledger state: %w", err))
	}
	if state == nil {
		return nil, apperror.InternalError(fmt.Errorf("ledger state not initialized"))
	}

	return &ports.TokenInfo{
		Name:        s.name,
		Symbol:      s.symbol,
		TotalSupply: state.TotalSupply,
		Admin:       state.Admin,
		University:  state.University,
	}, nil
}

// BalanceOf returns the balance of addr. Unknown addresses read as zero.
func (s *QueryServiceImpl) BalanceOf(ctx context.Context, addr domain.Address) (int64, error) {
	acct, err := s.accounts.GetByAddress(ctx, addr)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if acct == nil {
		return 0, nil
	}
	return acct.Balance, nil
}

// TotalSpentOf returns the cumulative gross service spending of addr.
func (s *QueryServiceImpl) TotalSpentOf(ctx context.Context, addr domain.Address) (int64, error) {
	acct, err := s.accounts.GetByAddress(ctx, addr)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if acct == nil {
		return 0, nil
	}
	return acct.TotalSpent, nil
}

// AllowanceOf returns the remaining allowance owner has granted spender.
func (s *QueryServiceImpl) AllowanceOf(ctx context.Context, owner, spender domain.Address) (int64, error) {
	allowance, err := s.accounts.GetAllowance(ctx, owner, spender)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get allowance: %w", err))
	}
	return allowance, nil
}

// Audit verifies the conservation invariant: the sum of all balances must
// equal the recorded total supply.
func (s *QueryServiceImpl) Audit(ctx context.Context) (*ports.AuditReport, error) {
	state, err := s.state.Get(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load ledger state: %w", err))
	}
	if state == nil {
		return nil, apperror.InternalError(fmt.Errorf("ledger state not initialized"))
	}

	sum, err := s.accounts.SumBalances(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum balances: %w", err))
	}

	return &ports.AuditReport{
		TotalSupply: state.TotalSupply,
		SumBalances: sum,
		Balanced:    sum == state.TotalSupply,
	}, nil
}

// ListEvents returns the event log newest first.
func (s *QueryServiceImpl) ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = defaultEventPageSize
	}
	if limit > maxEventPageSize {
		limit = maxEventPageSize
	}
	if offset < 0 {
		offset = 0
	}

	events, err := s.events.List(ctx, limit, offset)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list events: %w", err))
	}
	return events, nil
}
