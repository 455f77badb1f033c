package integration

import (
	"context"
	"fmt"
	"sync"

	"github.com/jeff007ali/lendledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return fmt.Errorf("username already exists")
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *inMemoryUserRepo) GetByCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username && u.Password == password {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryUserRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.Balance = balance
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
	order        []uuid.UUID // insertion order stands in for created_at ordering
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *t
	r.transactions[t.ID] = &copied
	r.order = append(r.order, t.ID)
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *inMemoryTransactionRepo) ListByLender(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	return r.list(func(t *domain.Transaction) bool { return t.FromID == userID })
}

func (r *inMemoryTransactionRepo) ListByBorrower(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	return r.list(func(t *domain.Transaction) bool { return t.WithID == userID })
}

func (r *inMemoryTransactionRepo) list(match func(*domain.Transaction) bool) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Transaction
	for _, id := range r.order {
		if t := r.transactions[id]; match(t) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *inMemoryTransactionRepo) MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok || t.Status == domain.TransactionStatusPaid {
		return false, nil
	}
	t.Status = domain.TransactionStatusPaid
	return true, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transactions with a single mutex, standing in
// for the row-level locks a real database takes under SELECT FOR UPDATE.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	tx := &noopTx{}
	tx.release = func() { t.mu.Unlock() }
	return tx, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing. Commit and
// Rollback both release the transactor lock; whichever runs first wins.
type noopTx struct {
	once    sync.Once
	release func()
}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *noopTx) Commit(ctx context.Context) error {
	if t.release != nil {
		t.once.Do(t.release)
	}
	return nil
}

func (t *noopTx) Rollback(ctx context.Context) error {
	if t.release != nil {
		t.once.Do(t.release)
	}
	return nil
}
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
