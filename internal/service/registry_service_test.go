package service

import (
	"context"
	"testing"

	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/internal/core/ports/mocks"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type registryTestDeps struct {
	svc        *RegistryServiceImpl
	members    *mocks.MockMembershipRepository
	providers  *mocks.MockProviderRepository
	events     *mocks.MockEventRepository
	transactor *mocks.MockDBTransactor
	publisher  *mocks.MockEventPublisher
	notifier   *mocks.MockNotifier
	ctrl       *gomock.Controller
}

func setupRegistryService(t *testing.T) *registryTestDeps {
	ctrl := gomock.NewController(t)
	d := &registryTestDeps{
		members:    mocks.NewMockMembershipRepository(ctrl),
		providers:  mocks.NewMockProviderRepository(ctrl),
		events:     mocks.NewMockEventRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		publisher:  mocks.NewMockEventPublisher(ctrl),
		notifier:   mocks.NewMockNotifier(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewRegistryService(
		d.members, d.providers, d.events, d.transactor,
		NewAccessGuard(adminAddr), d.publisher, d.notifier, zerolog.Nop(),
	)
	return d
}

func (d *registryTestDeps) expectEmit(ctx context.Context) {
	d.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)
	d.notifier.EXPECT().Notify(gomock.Any())
}

// ==================== Students ====================

func TestRegistryService_AddStudent_Success(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.members.EXPECT().Add(ctx, tx, studentAddr).Return(nil)
	d.events.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.expectEmit(ctx)

	err := d.svc.AddStudent(ctx, adminAddr, studentAddr)
	require.NoError(t, err)
}

func TestRegistryService_AddStudent_NotAdmin(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	err := d.svc.AddStudent(context.Background(), studentAddr, student2Addr)
	assertAppError(t, err, "LED_001")
}

func TestRegistryService_RemoveStudent_Success(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.members.EXPECT().Remove(ctx, tx, studentAddr).Return(nil)
	d.events.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.expectEmit(ctx)

	err := d.svc.RemoveStudent(ctx, adminAddr, studentAddr)
	require.NoError(t, err)
}

func TestRegistryService_IsStudent(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.members.EXPECT().IsStudent(ctx, studentAddr).Return(true, nil)

	ok, err := d.svc.IsStudent(ctx, studentAddr)
	require.NoError(t, err)
	assert.True(t, ok)
}

// ==================== Providers ====================

func TestRegistryService_AddServiceProvider_Success(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.providers.EXPECT().Upsert(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, p *domain.ServiceProvider) error {
			assert.Equal(t, providerAddr, p.Address)
			assert.Equal(t, "Bookstore", p.Name)
			assert.Equal(t, "retail", p.Category)
			assert.True(t, p.Active)
			return nil
		})
	d.events.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.expectEmit(ctx)

	err := d.svc.AddServiceProvider(ctx, ports.AddProviderRequest{
		Caller: adminAddr, Provider: providerAddr, Name: "Bookstore", Category: "retail",
	})
	require.NoError(t, err)
}

func TestRegistryService_AddServiceProvider_NotAdmin(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	err := d.svc.AddServiceProvider(context.Background(), ports.AddProviderRequest{
		Caller: studentAddr, Provider: providerAddr, Name: "Bookstore", Category: "retail",
	})
	assertAppError(t, err, "LED_001")
}

func TestRegistryService_RemoveServiceProvider_DeactivatesRecord(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.providers.EXPECT().Get(ctx, providerAddr).Return(&domain.ServiceProvider{
		Address: providerAddr, Name: "Bookstore", Category: "retail", Active: true,
	}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.providers.EXPECT().SetActive(ctx, tx, providerAddr, false).Return(nil)
	d.events.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.expectEmit(ctx)

	err := d.svc.RemoveServiceProvider(ctx, adminAddr, providerAddr)
	require.NoError(t, err)
}

func TestRegistryService_RemoveServiceProvider_Unknown(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.providers.EXPECT().Get(ctx, providerAddr).Return(nil, nil)

	err := d.svc.RemoveServiceProvider(ctx, adminAddr, providerAddr)
	assertAppError(t, err, "LED_005")
}

func TestRegistryService_UpdateServiceProvider_Success(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.providers.EXPECT().Get(ctx, providerAddr).Return(&domain.ServiceProvider{
		Address: providerAddr, Name: "Bookstore", Category: "retail", Active: false,
	}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.providers.EXPECT().Upsert(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, p *domain.ServiceProvider) error {
			assert.Equal(t, "Campus Cafe", p.Name)
			assert.Equal(t, "food", p.Category)
			assert.True(t, p.Active)
			return nil
		})
	d.events.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.expectEmit(ctx)

	// A deactivated provider can be reactivated through update.
	err := d.svc.UpdateServiceProvider(ctx, ports.UpdateProviderRequest{
		Caller: adminAddr, Provider: providerAddr, Name: "Campus Cafe", Category: "food", Active: true,
	})
	require.NoError(t, err)
}

func TestRegistryService_UpdateServiceProvider_Unknown(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.providers.EXPECT().Get(ctx, providerAddr).Return(nil, nil)

	err := d.svc.UpdateServiceProvider(ctx, ports.UpdateProviderRequest{
		Caller: adminAddr, Provider: providerAddr, Name: "Campus Cafe", Category: "food", Active: true,
	})
	assertAppError(t, err, "LED_005")
}

func TestRegistryService_ServiceProviderOf_Unknown(t *testing.T) {
	d := setupRegistryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.providers.EXPECT().Get(ctx, providerAddr).Return(nil, nil)

	_, err := d.svc.ServiceProviderOf(ctx, providerAddr)
	assertAppError(t, err, "LED_005")
}
