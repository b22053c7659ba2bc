package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/gateway"
)

// GetTransactionOutput é o registro completo exposto pelo endpoint de status.
// Amount sai como NÚMERO JSON exato: json.Number construído da representação
// decimal, sem aspas e sem passar por float64.
type GetTransactionOutput struct {
	TransactionID      string        `json:"transaction_id"`
	SourceAccount      string        `json:"source_account"`
	DestinationAccount string        `json:"destination_account"`
	Amount             json.Number   `json:"amount"`
	Currency           string        `json:"currency"`
	Status             domain.Status `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
	ProcessedAt        *time.Time    `json:"processed_at"` // null enquanto PROCESSING
}

type GetTransactionUseCase struct {
	transactionRepository gateway.TransactionRepository
}

func NewGetTransaction(transactionRepo gateway.TransactionRepository) *GetTransactionUseCase {
	return &GetTransactionUseCase{
		transactionRepository: transactionRepo,
	}
}

func (u *GetTransactionUseCase) Execute(ctx context.Context, transactionID string) (*GetTransactionOutput, error) {
	tx, err := u.transactionRepository.GetByID(ctx, transactionID)
	if err != nil {
		// Se for "não encontrado", repassamos o erro de domínio
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return nil, err
		}
		// Outros erros (banco fora do ar, etc)
		return nil, fmt.Errorf("erro ao buscar transação: %w", err)
	}

	return &GetTransactionOutput{
		TransactionID:      tx.TransactionID,
		SourceAccount:      tx.SourceAccount,
		DestinationAccount: tx.DestinationAccount,
		Amount:             json.Number(tx.Amount.String()),
		Currency:           tx.Currency,
		Status:             tx.Status,
		CreatedAt:          tx.CreatedAt,
		ProcessedAt:        tx.ProcessedAt,
	}, nil
}
