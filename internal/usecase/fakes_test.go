package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/gateway"
)

// fakeJobQueue registra enqueues e deduplica por chave, como a fila real.
type fakeJobQueue struct {
	mu          sync.Mutex
	enqueued    []string
	outstanding map[string]bool
	failWith    error
}

func newFakeJobQueue() *fakeJobQueue {
	return &fakeJobQueue{outstanding: make(map[string]bool)}
}

func (q *fakeJobQueue) Enqueue(_ context.Context, transactionID string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.failWith != nil {
		return false, q.failWith
	}
	if q.outstanding[transactionID] {
		return false, nil
	}
	q.outstanding[transactionID] = true
	q.enqueued = append(q.enqueued, transactionID)
	return true, nil
}

func (q *fakeJobQueue) enqueuedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.enqueued)
}

// stubRepository permite injetar erro por operação; o comportamento padrão
// delega para funções configuradas pelo teste.
type stubRepository struct {
	insertFn   func(ctx context.Context, tx *domain.Transaction) (bool, error)
	finalizeFn func(ctx context.Context, transactionID string) (bool, error)
	getFn      func(ctx context.Context, transactionID string) (*domain.Transaction, error)
}

func (s *stubRepository) InsertIfAbsent(ctx context.Context, tx *domain.Transaction) (bool, error) {
	return s.insertFn(ctx, tx)
}

func (s *stubRepository) FinalizeIfProcessing(ctx context.Context, transactionID string) (bool, error) {
	return s.finalizeFn(ctx, transactionID)
}

func (s *stubRepository) GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.getFn(ctx, transactionID)
}

func (s *stubRepository) Ping(context.Context) error { return nil }

// fakeAuditRepository guarda os desfechos gravados.
type fakeAuditRepository struct {
	mu       sync.Mutex
	saved    []gateway.SettlementAudit
	failWith error
}

func (a *fakeAuditRepository) Save(_ context.Context, audit gateway.SettlementAudit) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failWith != nil {
		return a.failWith
	}
	a.saved = append(a.saved, audit)
	return nil
}

// fakeDedupStore registra apenas os Releases (Acquire fica na fila fake).
type fakeDedupStore struct {
	mu       sync.Mutex
	released []string
}

func (d *fakeDedupStore) Acquire(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

func (d *fakeDedupStore) Release(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released = append(d.released, key)
	return nil
}
