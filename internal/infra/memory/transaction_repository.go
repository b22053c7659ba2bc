package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/gateway"
)

// TransactionRepository é a implementação em memória de
// gateway.TransactionRepository. O mutex cumpre o mesmo papel das queries
// atômicas do Postgres: exatamente um insert/finalize vence por chave.
// Usada nos testes e para rodar a API local sem banco.
type TransactionRepository struct {
	mu           sync.Mutex
	transactions map[string]*domain.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (r *TransactionRepository) InsertIfAbsent(_ context.Context, tx *domain.Transaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[tx.TransactionID]; exists {
		return false, nil
	}

	stored := *tx
	stored.Status = domain.StatusProcessing
	stored.CreatedAt = time.Now()
	stored.ProcessedAt = nil
	r.transactions[tx.TransactionID] = &stored

	return true, nil
}

func (r *TransactionRepository) FinalizeIfProcessing(_ context.Context, transactionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, exists := r.transactions[transactionID]
	if !exists || tx.Status != domain.StatusProcessing {
		return false, nil
	}

	now := time.Now()
	tx.Status = domain.StatusProcessed
	tx.ProcessedAt = &now

	return true, nil
}

func (r *TransactionRepository) GetByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, exists := r.transactions[transactionID]
	if !exists {
		return nil, domain.ErrTransactionNotFound
	}

	// Cópia defensiva: quem chamou não pode mutar o estado interno
	copied := *tx
	if tx.ProcessedAt != nil {
		at := *tx.ProcessedAt
		copied.ProcessedAt = &at
	}
	return &copied, nil
}

func (r *TransactionRepository) Ping(_ context.Context) error {
	return nil
}

var _ gateway.TransactionRepository = (*TransactionRepository)(nil)
