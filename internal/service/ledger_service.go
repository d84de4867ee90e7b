package service

import (
	"context"
	"fmt"
	"sort"

	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// feeDivisor yields the 1% treasury cut: fee = amount / feeDivisor with
// integer floor division, so payments under 100 carry no fee at all.
const feeDivisor = 100

// LedgerServiceImpl implements ports.LedgerService. Every operation runs as
// one database transaction with pessimistic row locks; all failure conditions
// abort before any mutation becomes visible.
type LedgerServiceImpl struct {
	accounts   ports.AccountRepository
	members    ports.MembershipRepository
	providers  ports.ProviderRepository
	state      ports.StateRepository
	events     ports.EventRepository
	transactor ports.DBTransactor
	guard      AccessGuard
	university domain.Address
	emitter    eventEmitter
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl bound to the genesis
// admin and university identities.
func NewLedgerService(
	accounts ports.AccountRepository,
	members ports.MembershipRepository,
	providers ports.ProviderRepository,
	state ports.StateRepository,
	events ports.EventRepository,
	transactor ports.DBTransactor,
	guard AccessGuard,
	university domain.Address,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		accounts:   accounts,
		members:    members,
		providers:  providers,
		state:      state,
		events:     events,
		transactor: transactor,
		guard:      guard,
		university: university,
		emitter:    eventEmitter{publisher: publisher, notifier: notifier, log: log},
		log:        log,
	}
}

// Mint credits new supply to a registered student. Admin only.
func (s *LedgerServiceImpl) Mint(ctx context.Context, req ports.MintRequest) error {
	if err := s.guard.RequireAdmin(req.Caller); err != nil {
		return err
	}
	if req.Amount <= 0 {
		return apperror.ErrInvalidAmount()
	}
	if err := s.requireStudent(ctx, req.Student); err != nil {
		return err
	}

	evt, err := domain.NewEvent(domain.EventTokensMinted, domain.MintAttrs{
		Student: req.Student,
		Amount:  req.Amount,
	})
	if err != nil {
		return apperror.InternalError(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.moveBalances(ctx, dbTx, nil, map[domain.Address]int64{req.Student: req.Amount}); err != nil {
		return err
	}
	if err := s.adjustSupply(ctx, dbTx, req.Amount); err != nil {
		return err
	}
	if err := s.events.Create(ctx, dbTx, evt); err != nil {
		return apperror.InternalError(fmt.Errorf("append event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.emitter.emit(ctx, evt)
	s.log.Info().
		Str("student", req.Student.String()).
		Int64("amount", req.Amount).
		Msg("tokens minted")
	return nil
}

// Burn destroys tokens from the caller's own balance. Any holder may burn.
func (s *LedgerServiceImpl) Burn(ctx context.Context, req ports.BurnRequest) error {
	if req.Amount <= 0 {
		return apperror.ErrInvalidAmount()
	}

	evt, err := domain.NewEvent(domain.EventTokensBurned, domain.BurnAttrs{
		Holder: req.Caller,
		Amount: req.Amount,
	})
	if err != nil {
		return apperror.InternalError(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.moveBalances(ctx, dbTx, map[domain.Address]int64{req.Caller: req.Amount}, nil); err != nil {
		return err
	}
	if err := s.adjustSupply(ctx, dbTx, -req.Amount); err != nil {
		return err
	}
	if err := s.events.Create(ctx, dbTx, evt); err != nil {
		return apperror.InternalError(fmt.Errorf("append event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.emitter.emit(ctx, evt)
	s.log.Info().
		Str("holder", req.Caller.String()).
		Int64("amount", req.Amount).
		Msg("tokens burned")
	return nil
}

// Transfer moves tokens to a registered student. Only the recipient's
// membership is gated; the sender's own membership is not re-checked.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) error {
	if req.Amount <= 0 {
		return apperror.ErrInvalidAmount()
	}
	if err := s.requireStudent(ctx, req.To); err != nil {
		return err
	}

	evt, err := domain.NewEvent(domain.EventTransfer, domain.TransferAttrs{
		From:   req.Caller,
		To:     req.To,
		Amount: req.Amount,
	})
	if err != nil {
		return apperror.InternalError(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	debits := map[domain.Address]int64{req.Caller: req.Amount}
	credits := map[domain.Address]int64{req.To: req.Amount}
	if err := s.moveBalances(ctx, dbTx, debits, credits); err != nil {
		return err
	}
	if err := s.events.Create(ctx, dbTx, evt); err != nil {
		return apperror.InternalError(fmt.Errorf("append event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.emitter.emit(ctx, evt)
	return nil
}

// Approve sets an absolute allowance for spender on the caller's funds.
// Zero is a valid value (revocation). No membership requirement.
func (s *LedgerServiceImpl) Approve(ctx context.Context, req ports.ApproveRequest) error {
	if req.Amount < 0 {
		return apperror.ErrInvalidAmount()
	}

	evt, err := domain.NewEvent(domain.EventApproval, domain.ApprovalAttrs{
		Owner:   req.Caller,
		Spender: req.Spender,
		Amount:  req.Amount,
	})
	if err != nil {
		return apperror.InternalError(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.accounts.SetAllowance(ctx, dbTx, req.Caller, req.Spender, req.Amount); err != nil {
		return apperror.InternalError(fmt.Errorf("set allowance: %w", err))
	}
	if err := s.events.Create(ctx, dbTx, evt); err != nil {
		return apperror.InternalError(fmt.Errorf("append event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.emitter.emit(ctx, evt)
	return nil
}

// TransferFrom moves tokens on an owner's behalf within the approved
// allowance. The allowance decreases by exactly the transferred amount.
func (s *LedgerServiceImpl) TransferFrom(ctx context.Context, req ports.TransferFromRequest) error {
	if req.Amount <= 0 {
		return apperror.ErrInvalidAmount()
	}
	if err := s.requireStudent(ctx, req.To); err != nil {
		return err
	}

	evt, err := domain.NewEvent(domain.EventTransfer, domain.TransferAttrs{
		From:    req.From,
		To:      req.To,
		Amount:  req.Amount,
		Spender: req.Caller,
	})
	if err != nil {
		return apperror.InternalError(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	allowance, err := s.accounts.GetAllowanceForUpdate(ctx, dbTx, req.From, req.Caller)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock allowance: %w", err))
	}
	if allowance < req.Amount {
		return apperror.ErrInsufficientAllowance()
	}

	debits := map[domain.Address]int64{req.From: req.Amount}
	credits := map[domain.Address]int64{req.To: req.Amount}
	if err := s.moveBalances(ctx, dbTx, debits, credits); err != nil {
		return err
	}
	if err := s.accounts.SetAllowance(ctx, dbTx, req.From, req.Caller, allowance-req.Amount); err != nil {
		return apperror.InternalError(fmt.Errorf("decrease allowance: %w", err))
	}
	if err := s.events.Create(ctx, dbTx, evt); err != nil {
		return apperror.InternalError(fmt.Errorf("append event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.emitter.emit(ctx, evt)
	return nil
}

// PayService pays an active provider with the treasury fee split. The
// student's gross spend accumulator increases by the full amount.
func (s *LedgerServiceImpl) PayService(ctx context.Context, req ports.PayServiceRequest) (*ports.PaymentReceipt, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if err := s.requireStudent(ctx, req.Caller); err != nil {
		return nil, err
	}

	provider, err := s.providers.Get(ctx, req.Provider)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil || !provider.Active {
		return nil, apperror.ErrInactiveProvider()
	}

	fee := req.Amount / feeDivisor
	providerShare := req.Amount - fee

	evt, err := domain.NewEvent(domain.EventServicePayment, domain.ServicePaymentAttrs{
		Student:       req.Caller,
		Provider:      req.Provider,
		Amount:        req.Amount,
		Fee:           fee,
		ProviderShare: providerShare,
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	debits := map[domain.Address]int64{req.Caller: req.Amount}
	credits := map[domain.Address]int64{
		req.Provider: providerShare,
		s.university: fee,
	}
	if err := s.moveBalances(ctx, dbTx, debits, credits); err != nil {
		return nil, err
	}
	if err := s.accounts.AddTotalSpent(ctx, dbTx, req.Caller, req.Amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("add total spent: %w", err))
	}
	if err := s.events.Create(ctx, dbTx, evt); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.emitter.emit(ctx, evt)
	s.log.Info().
		Str("student", req.Caller.String()).
		Str("provider", req.Provider.String()).
		Int64("amount", req.Amount).
		Int64("fee", fee).
		Msg("service payment processed")

	return &ports.PaymentReceipt{
		Student:       req.Caller,
		Provider:      req.Provider,
		Amount:        req.Amount,
		Fee:           fee,
		ProviderShare: providerShare,
	}, nil
}

func (s *LedgerServiceImpl) requireStudent(ctx context.Context, addr domain.Address) error {
	ok, err := s.members.IsStudent(ctx, addr)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("membership check: %w", err))
	}
	if !ok {
		return apperror.ErrUnregisteredStudent()
	}
	return nil
}

// moveBalances locks every affected account exactly once (in address order),
// verifies each debit against the locked balance and writes the net result.
// Debits and credits against the same address collapse into one row write,
// which keeps conservation exact even for aliased participants.
func (s *LedgerServiceImpl) moveBalances(ctx context.Context, tx pgx.Tx, debits, credits map[domain.Address]int64) error {
	seen := make(map[domain.Address]struct{}, len(debits)+len(credits))
	addrs := make([]domain.Address, 0, len(debits)+len(credits))
	for a := range debits {
		if _, ok := seen[a]; !ok {
			seen[a] = struct{}{}
			addrs = append(addrs, a)
		}
	}
	for a := range credits {
		if _, ok := seen[a]; !ok {
			seen[a] = struct{}{}
			addrs = append(addrs, a)
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	for _, addr := range addrs {
		if err := s.accounts.Ensure(ctx, tx, addr); err != nil {
			return apperror.InternalError(fmt.Errorf("ensure account: %w", err))
		}
		acct, err := s.accounts.GetForUpdate(ctx, tx, addr)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock account: %w", err))
		}
		if acct == nil {
			return apperror.InternalError(fmt.Errorf("account missing after ensure: %s", addr))
		}
		if acct.Balance < debits[addr] {
			return apperror.ErrInsufficientBalance()
		}
		newBalance := acct.Balance - debits[addr] + credits[addr]
		if err := s.accounts.UpdateBalance(ctx, tx, addr, newBalance); err != nil {
			return apperror.InternalError(fmt.Errorf("update balance: %w", err))
		}
	}
	return nil
}

// adjustSupply applies a mint (+) or burn (-) delta to the total supply.
func (s *LedgerServiceImpl) adjustSupply(ctx context.Context, tx pgx.Tx, delta int64) error {
	state, err := s.state.GetForUpdate(ctx, tx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock ledger state: %w", err))
	}
	if state == nil {
		return apperror.InternalError(fmt.Errorf("ledger state not initialized"))
	}
	newSupply := state.TotalSupply + delta
	if newSupply < 0 {
		return apperror.InternalError(fmt.Errorf("supply underflow: %d%+d", state.TotalSupply, delta))
	}
	if err := s.state.UpdateTotalSupply(ctx, tx, newSupply); err != nil {
		return apperror.InternalError(fmt.Errorf("update total supply: %w", err))
	}
	return nil
}
