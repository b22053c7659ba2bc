package gateway

import (
	"context"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/domain"
)

// TransactionRepository define o contrato de persistência das transações.
// O Usecase só interage com isso, sem saber se é Postgres ou memória.
type TransactionRepository interface {
	// InsertIfAbsent grava o registro inicial de forma atômica.
	// Retorna created=false (sem erro) quando já existe linha com o mesmo
	// transaction_id; sob inserções concorrentes exatamente uma retorna true.
	InsertIfAbsent(ctx context.Context, tx *domain.Transaction) (created bool, err error)

	// FinalizeIfProcessing é o compare-and-set do estado terminal:
	// seta status=PROCESSED e processed_at=now SOMENTE se o status atual
	// for PROCESSING. Retorna finalized=false se a linha não existe ou já
	// foi finalizada por outro worker.
	FinalizeIfProcessing(ctx context.Context, transactionID string) (finalized bool, err error)

	// GetByID busca o registro. Retorna domain.ErrTransactionNotFound se ausente.
	GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// Ping verifica a conectividade do storage (usado pelo health check).
	Ping(ctx context.Context) error
}
