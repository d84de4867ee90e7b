package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"campuscoin-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu         sync.RWMutex
	accounts   map[domain.Address]*domain.Account
	allowances map[string]int64
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{
		accounts:   make(map[domain.Address]*domain.Account),
		allowances: make(map[string]int64),
	}
}

func allowanceKey(owner, spender domain.Address) string {
	return owner.String() + "|" + spender.String()
}

func (r *inMemoryAccountRepo) GetByAddress(ctx context.Context, addr domain.Address) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[addr]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (r *inMemoryAccountRepo) Ensure(ctx context.Context, tx pgx.Tx, addr domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[addr]; !ok {
		now := time.Now().UTC()
		r.accounts[addr] = &domain.Account{Address: addr, CreatedAt: now, UpdatedAt: now}
	}
	return nil
}

func (r *inMemoryAccountRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, addr domain.Address) (*domain.Account, error) {
	return r.GetByAddress(ctx, addr)
}

func (r *inMemoryAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, addr domain.Address, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[addr]
	if !ok {
		return fmt.Errorf("account not found: %s", addr)
	}
	a.Balance = balance
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryAccountRepo) AddTotalSpent(ctx context.Context, tx pgx.Tx, addr domain.Address, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[addr]
	if !ok {
		return fmt.Errorf("account not found: %s", addr)
	}
	a.TotalSpent += amount
	return nil
}

func (r *inMemoryAccountRepo) GetAllowance(ctx context.Context, owner, spender domain.Address) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.allowances[allowanceKey(owner, spender)], nil
}

func (r *inMemoryAccountRepo) GetAllowanceForUpdate(ctx context.Context, tx pgx.Tx, owner, spender domain.Address) (int64, error) {
	return r.GetAllowance(ctx, owner, spender)
}

func (r *inMemoryAccountRepo) SetAllowance(ctx context.Context, tx pgx.Tx, owner, spender domain.Address, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allowances[allowanceKey(owner, spender)] = amount
	return nil
}

func (r *inMemoryAccountRepo) SumBalances(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, a := range r.accounts {
		sum += a.Balance
	}
	return sum, nil
}

// --- In-Memory Membership Repo ---

type inMemoryMembershipRepo struct {
	mu       sync.RWMutex
	students map[domain.Address]struct{}
}

func newInMemoryMembershipRepo() *inMemoryMembershipRepo {
	return &inMemoryMembershipRepo{students: make(map[domain.Address]struct{})}
}

func (r *inMemoryMembershipRepo) Add(ctx context.Context, tx pgx.Tx, addr domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students[addr] = struct{}{}
	return nil
}

func (r *inMemoryMembershipRepo) Remove(ctx context.Context, tx pgx.Tx, addr domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.students, addr)
	return nil
}

func (r *inMemoryMembershipRepo) IsStudent(ctx context.Context, addr domain.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.students[addr]
	return ok, nil
}

// --- In-Memory Provider Repo ---

type inMemoryProviderRepo struct {
	mu        sync.RWMutex
	providers map[domain.Address]*domain.ServiceProvider
}

func newInMemoryProviderRepo() *inMemoryProviderRepo {
	return &inMemoryProviderRepo{providers: make(map[domain.Address]*domain.ServiceProvider)}
}

func (r *inMemoryProviderRepo) Get(ctx context.Context, addr domain.Address) (*domain.ServiceProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[addr]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *inMemoryProviderRepo) Upsert(ctx context.Context, tx pgx.Tx, p *domain.ServiceProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	clone.UpdatedAt = time.Now().UTC()
	r.providers[p.Address] = &clone
	return nil
}

func (r *inMemoryProviderRepo) SetActive(ctx context.Context, tx pgx.Tx, addr domain.Address, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[addr]
	if !ok {
		return fmt.Errorf("provider not found: %s", addr)
	}
	p.Active = active
	return nil
}

// --- In-Memory State Repo ---

type inMemoryStateRepo struct {
	mu    sync.RWMutex
	state *domain.LedgerState
}

func newInMemoryStateRepo() *inMemoryStateRepo {
	return &inMemoryStateRepo{}
}

func (r *inMemoryStateRepo) Get(ctx context.Context) (*domain.LedgerState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == nil {
		return nil, nil
	}
	clone := *r.state
	return &clone, nil
}

func (r *inMemoryStateRepo) Init(ctx context.Context, tx pgx.Tx, s *domain.LedgerState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != nil {
		return fmt.Errorf("ledger state already initialized")
	}
	clone := *s
	r.state = &clone
	return nil
}

func (r *inMemoryStateRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.LedgerState, error) {
	return r.Get(ctx)
}

func (r *inMemoryStateRepo) UpdateTotalSupply(ctx context.Context, tx pgx.Tx, totalSupply int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return fmt.Errorf("ledger state not initialized")
	}
	r.state.TotalSupply = totalSupply
	return nil
}

// --- In-Memory Event Repo ---

type inMemoryEventRepo struct {
	mu     sync.RWMutex
	events []domain.Event
}

func newInMemoryEventRepo() *inMemoryEventRepo {
	return &inMemoryEventRepo{}
}

func (r *inMemoryEventRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *inMemoryEventRepo) List(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sorted := make([]domain.Event, len(r.events))
	copy(sorted, r.events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if offset >= len(sorted) {
		return []domain.Event{}, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
