package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/gateway"
	"github.com/rs/zerolog/log"
)

// ProcessOutcome é o desfecho terminal de uma unidade de trabalho.
type ProcessOutcome string

const (
	OutcomeFinalized        ProcessOutcome = "finalized"
	OutcomeAlreadyProcessed ProcessOutcome = "already_processed"
	OutcomeMissing          ProcessOutcome = "missing"
)

// ProcessTransactionUseCase é a máquina de estados do worker.
// Precisa tolerar redelivery: a mesma unidade pode chegar duas vezes.
type ProcessTransactionUseCase struct {
	transactionRepository gateway.TransactionRepository
	auditRepository       gateway.AuditRepository // opcional (nil desliga auditoria)
	dedupStore            gateway.DedupStore      // opcional (nil desliga dedup)
	settleDelay           time.Duration
}

// NewProcessTransaction cria uma nova instância do UseCase.
func NewProcessTransaction(
	transactionRepo gateway.TransactionRepository,
	auditRepo gateway.AuditRepository,
	dedup gateway.DedupStore,
	settleDelay time.Duration,
) *ProcessTransactionUseCase {
	return &ProcessTransactionUseCase{
		transactionRepository: transactionRepo,
		auditRepository:       auditRepo,
		dedupStore:            dedup,
		settleDelay:           settleDelay,
	}
}

// Execute processa uma unidade entregue pela fila.
//
// Retornar erro significa "não dê Ack": a fila reentrega depois e o
// FinalizeIfProcessing condicional garante que a reexecução nunca finaliza
// nem carimba processed_at duas vezes.
func (u *ProcessTransactionUseCase) Execute(ctx context.Context, transactionID string) (ProcessOutcome, error) {
	started := time.Now()

	tx, err := u.transactionRepository.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			// Registro nunca existiu (ou foi entregue antes do insert ficar
			// visível em outra réplica): encerra como no-op.
			u.finish(ctx, transactionID, OutcomeMissing, started)
			return OutcomeMissing, nil
		}
		return "", fmt.Errorf("falha ao buscar transação %s: %w", transactionID, err)
	}

	if tx.IsProcessed() {
		// Unidade duplicada/reentregue depois do desfecho: no-op.
		u.finish(ctx, transactionID, OutcomeAlreadyProcessed, started)
		return OutcomeAlreadyProcessed, nil
	}

	// Liquidação simulada: espera agendada que não segura lock nenhum.
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(u.settleDelay):
	}

	finalized, err := u.transactionRepository.FinalizeIfProcessing(ctx, transactionID)
	if err != nil {
		return "", fmt.Errorf("falha ao finalizar transação %s: %w", transactionID, err)
	}

	outcome := OutcomeFinalized
	if !finalized {
		// Outro worker venceu a corrida; o resultado desejado já existe.
		outcome = OutcomeAlreadyProcessed
	}
	u.finish(ctx, transactionID, outcome, started)
	return outcome, nil
}

// finish grava auditoria e libera o marcador de dedup. Falhas aqui são
// log-only: o desfecho da transação já está persistido no store.
func (u *ProcessTransactionUseCase) finish(ctx context.Context, transactionID string, outcome ProcessOutcome, started time.Time) {
	if u.auditRepository != nil {
		audit := gateway.SettlementAudit{
			TransactionID: transactionID,
			Outcome:       string(outcome),
			TookMs:        time.Since(started).Milliseconds(),
		}
		if err := u.auditRepository.Save(ctx, audit); err != nil {
			log.Error().Err(err).Str("transaction_id", transactionID).Msg("Falha ao gravar auditoria de liquidação")
		}
	}

	if u.dedupStore != nil {
		if err := u.dedupStore.Release(ctx, transactionID); err != nil {
			// O TTL do marcador corrige o vazamento mais tarde.
			log.Warn().Err(err).Str("transaction_id", transactionID).Msg("Falha ao liberar marcador de dedup")
		}
	}
}
