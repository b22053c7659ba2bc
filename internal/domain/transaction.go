package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status do ciclo de vida da transação.
// A transição é monotônica: PROCESSING -> PROCESSED, nunca o contrário.
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusProcessed  Status = "PROCESSED"
)

// Transaction representa o registro durável de um webhook recebido.
// Clean Architecture: esta entidade não sabe o que é JSON nem SQL.
type Transaction struct {
	TransactionID      string
	SourceAccount      string
	DestinationAccount string
	Amount             decimal.Decimal // Decimal exato, nunca float64 (evita drift de arredondamento)
	Currency           string
	Status             Status
	CreatedAt          time.Time
	ProcessedAt        *time.Time // nil enquanto PROCESSING, setado uma única vez
}

// IsProcessed informa se a transação já atingiu o estado terminal.
func (t *Transaction) IsProcessed() bool {
	return t.Status == StatusProcessed
}

// WebhookPayload é o corpo recebido no endpoint de ingestão.
type WebhookPayload struct {
	TransactionID      string          `json:"transaction_id"`
	SourceAccount      string          `json:"source_account"`
	DestinationAccount string          `json:"destination_account"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
}

// Validate aplica as regras do payload antes de qualquer efeito colateral.
// Retorna um mapa campo -> problema, vazio quando o payload é válido.
func (p *WebhookPayload) Validate() map[string]string {
	details := make(map[string]string)

	if p.TransactionID == "" {
		details["transaction_id"] = "must be a non-empty string"
	}
	if p.SourceAccount == "" {
		details["source_account"] = "must be a non-empty string"
	}
	if p.DestinationAccount == "" {
		details["destination_account"] = "must be a non-empty string"
	}
	if p.Amount.Cmp(decimal.Zero) <= 0 {
		details["amount"] = "must be a positive number"
	}
	if p.Currency == "" {
		details["currency"] = "must be a non-empty string"
	}

	return details
}

// ToTransaction converte o payload validado no registro inicial (PROCESSING).
func (p *WebhookPayload) ToTransaction() *Transaction {
	return &Transaction{
		TransactionID:      p.TransactionID,
		SourceAccount:      p.SourceAccount,
		DestinationAccount: p.DestinationAccount,
		Amount:             p.Amount,
		Currency:           p.Currency,
		Status:             StatusProcessing,
	}
}
