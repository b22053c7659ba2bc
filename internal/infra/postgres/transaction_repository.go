package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionRepository implementa gateway.TransactionRepository usando pgx/v5.
// Toda a coordenação entre processos mora nas duas queries atômicas abaixo:
// nenhum lock distribuído extra é necessário.
type TransactionRepository struct {
	db *pgxpool.Pool // pgxpool em vez de sql.DB
}

// NewTransactionRepository cria uma nova instância.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: pool}
}

// InsertIfAbsent usa ON CONFLICT DO NOTHING: com N inserts concorrentes da
// mesma chave, o banco garante exatamente uma linha; os perdedores veem
// RowsAffected == 0, sem erro de unique violation para tratar.
func (r *TransactionRepository) InsertIfAbsent(ctx context.Context, tx *domain.Transaction) (bool, error) {
	const query = `
		INSERT INTO transactions (transaction_id, source_account, destination_account, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, 'PROCESSING')
		ON CONFLICT (transaction_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query,
		tx.TransactionID,
		tx.SourceAccount,
		tx.DestinationAccount,
		tx.Amount.String(),
		tx.Currency,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// FinalizeIfProcessing é o compare-and-set: a cláusula AND status='PROCESSING'
// faz o banco serializar finalizações concorrentes — exatamente uma transição,
// processed_at carimbado uma única vez.
func (r *TransactionRepository) FinalizeIfProcessing(ctx context.Context, transactionID string) (bool, error) {
	const query = `
		UPDATE transactions
		   SET status = 'PROCESSED', processed_at = NOW()
		 WHERE transaction_id = $1
		   AND status = 'PROCESSING'`

	tag, err := r.db.Exec(ctx, query, transactionID)
	if err != nil {
		return false, fmt.Errorf("failed to finalize transaction: %w", err)
	}

	// 0 linhas afetadas: linha ausente ou já PROCESSED (outro worker venceu)
	return tag.RowsAffected() == 1, nil
}

// GetByID busca o registro completo.
func (r *TransactionRepository) GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	// amount::text preserva o NUMERIC exato; nunca escaneamos para float64
	const query = `
		SELECT transaction_id, source_account, destination_account, amount::text, currency, status, created_at, processed_at
		  FROM transactions
		 WHERE transaction_id = $1`

	var (
		tx          domain.Transaction
		amountText  string
		status      string
		createdAt   pgtype.Timestamptz
		processedAt pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, query, transactionID).Scan(
		&tx.TransactionID,
		&tx.SourceAccount,
		&tx.DestinationAccount,
		&amountText,
		&tx.Currency,
		&status,
		&createdAt,
		&processedAt,
	)
	if err != nil {
		// pgx retorna pgx.ErrNoRows, diferente de sql.ErrNoRows
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored amount %q: %w", amountText, err)
	}

	tx.Amount = amount
	tx.Status = domain.Status(status)
	tx.CreatedAt = createdAt.Time
	tx.ProcessedAt = timestamptzToPtr(processedAt)

	return &tx, nil
}

// Ping verifica a conectividade do pool (health check).
func (r *TransactionRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Helper para converter pgtype.Timestamptz -> *time.Time (NULL -> nil)
func timestamptzToPtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

var _ gateway.TransactionRepository = (*TransactionRepository)(nil)
