package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// RegistryServiceImpl implements ports.RegistryService: the admin-managed
// student membership and service provider registries.
type RegistryServiceImpl struct {
	members    ports.MembershipRepository
	providers  ports.ProviderRepository
	events     ports.EventRepository
	transactor ports.DBTransactor
	guard      AccessGuard
	emitter    eventEmitter
	log        zerolog.Logger
}

// NewRegistryService creates a new RegistryServiceImpl.
func NewRegistryService(
	members ports.MembershipRepository,
	providers ports.ProviderRepository,
	events ports.EventRepository,
	transactor ports.DBTransactor,
	guard AccessGuard,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
	log zerolog.Logger,
) *RegistryServiceImpl {
	return &RegistryServiceImpl{
		members:    members,
		providers:  providers,
		events:     events,
		transactor: transactor,
		guard:      guard,
		emitter:    eventEmitter{publisher: publisher, notifier: notifier, log: log},
		log:        log,
	}
}

// AddStudent idempotently flags an account as a student. Admin only.
func (s *RegistryServiceImpl) AddStudent(ctx context.Context, caller, student domain.Address) error {
	if err := s.guard.RequireAdmin(caller); err != nil {
		return err
	}

	evt, err := domain.NewEvent(domain.EventStudentAdded, domain.MembershipAttrs{Student: student})
	if err != nil {
		return apperror.InternalError(err)
	}

	if err := s.inTx(ctx, evt, func(tx pgx.Tx) error {
		return s.members.Add(ctx, tx, student)
	}); err != nil {
		return err
	}

	s.log.Info().Str("student", student.String()).Msg("student added")
	return nil
}

// RemoveStudent idempotently clears an account's student flag. Admin only.
// The account's balance is untouched.
func (s *RegistryServiceImpl) RemoveStudent(ctx context.Context, caller, student domain.Address) error {
	if err := s.guard.RequireAdmin(caller); err != nil {
		return err
	}

	evt, err := domain.NewEvent(domain.EventStudentRemoved, domain.MembershipAttrs{Student: student})
	if err != nil {
		return apperror.InternalError(err)
	}

	if err := s.inTx(ctx, evt, func(tx pgx.Tx) error {
		return s.members.Remove(ctx, tx, student)
	}); err != nil {
		return err
	}

	s.log.Info().Str("student", student.String()).Msg("student removed")
	return nil
}

// IsStudent reports membership. Pure lookup.
func (s *RegistryServiceImpl) IsStudent(ctx context.Context, addr domain.Address) (bool, error) {
	ok, err := s.members.IsStudent(ctx, addr)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("membership check: %w", err))
	}
	return ok, nil
}

// AddServiceProvider creates or overwrites a provider profile with
// active=true. Admin only.
func (s *RegistryServiceImpl) AddServiceProvider(ctx context.Context, req ports.AddProviderRequest) error {
	if err := s.guard.RequireAdmin(req.Caller); err != nil {
		return err
	}

	provider := &domain.ServiceProvider{
		Address:  req.Provider,
		Name:     req.Name,
		Category: req.Category,
		Active:   true,
	}

	evt, err := domain.NewEvent(domain.EventProviderAdded, domain.ProviderAttrs{
		Provider: req.Provider,
		Name:     req.Name,
		Category: req.Category,
		Active:   true,
	})
	if err != nil {
		return apperror.InternalError(err)
	}

	if err := s.inTx(ctx, evt, func(tx pgx.Tx) error {
		return s.providers.Upsert(ctx, tx, provider)
	}); err != nil {
		return err
	}

	s.log.Info().
		Str("provider", req.Provider.String()).
		Str("name", req.Name).
		Str("category", req.Category).
		Msg("service provider added")
	return nil
}

// RemoveServiceProvider deactivates an existing provider record. Admin only.
// A never-added address fails with UnknownProvider; no profile is fabricated.
func (s *RegistryServiceImpl) RemoveServiceProvider(ctx context.Context, caller, provider domain.Address) error {
	if err := s.guard.RequireAdmin(caller); err != nil {
		return err
	}

	existing, err := s.providers.Get(ctx, provider)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if existing == nil {
		return apperror.ErrUnknownProvider()
	}

	evt, err := domain.NewEvent(domain.EventProviderRemoved, domain.ProviderAttrs{
		Provider: provider,
		Name:     existing.Name,
		Category: existing.Category,
		Active:   false,
	})
	if err != nil {
		return apperror.InternalError(err)
	}

	if err := s.inTx(ctx, evt, func(tx pgx.Tx) error {
		return s.providers.SetActive(ctx, tx, provider, false)
	}); err != nil {
		return err
	}

	s.log.Info().Str("provider", provider.String()).Msg("service provider deactivated")
	return nil
}

// UpdateServiceProvider overwrites all fields of an existing provider,
// including the active flag. Admin only.
func (s *RegistryServiceImpl) UpdateServiceProvider(ctx context.Context, req ports.UpdateProviderRequest) error {
	if err := s.guard.RequireAdmin(req.Caller); err != nil {
		return err
	}

	existing, err := s.providers.Get(ctx, req.Provider)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if existing == nil {
		return apperror.ErrUnknownProvider()
	}

	provider := &domain.ServiceProvider{
		Address:  req.Provider,
		Name:     req.Name,
		Category: req.Category,
		Active:   req.Active,
	}

	evt, err := domain.NewEvent(domain.EventProviderUpdated, domain.ProviderAttrs{
		Provider: req.Provider,
		Name:     req.Name,
		Category: req.Category,
		Active:   req.Active,
	})
	if err != nil {
		return apperror.InternalError(err)
	}

	if err := s.inTx(ctx, evt, func(tx pgx.Tx) error {
		return s.providers.Upsert(ctx, tx, provider)
	}); err != nil {
		return err
	}

	s.log.Info().
		Str("provider", req.Provider.String()).
		Bool("active", req.Active).
		Msg("service provider updated")
	return nil
}

// ServiceProviderOf returns the provider profile, or UnknownProvider.
func (s *RegistryServiceImpl) ServiceProviderOf(ctx context.Context, addr domain.Address) (*domain.ServiceProvider, error) {
	provider, err := s.providers.Get(ctx, addr)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrUnknownProvider()
	}
	return provider, nil
}

// inTx runs a registry mutation plus its event append as one transaction,
// then emits the event post-commit.
func (s *RegistryServiceImpl) inTx(ctx context.Context, evt *domain.Event, fn func(tx pgx.Tx) error) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := fn(dbTx); err != nil {
		return apperror.InternalError(err)
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
