package usecase

import (
	"context"
	"fmt"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/gateway"
	"github.com/rs/zerolog/log"
)

// IngestWebhookOutput define o que devolvemos para quem chamou.
type IngestWebhookOutput struct {
	TransactionID string
	Status        domain.Status
	Duplicate     bool // true quando o registro já existia (entrega repetida)
}

// IngestWebhookUseCase contém as dependências da ingestão.
type IngestWebhookUseCase struct {
	transactionRepository gateway.TransactionRepository
	jobQueue              gateway.JobQueue
}

// NewIngestWebhook cria uma nova instância do UseCase.
func NewIngestWebhook(transactionRepo gateway.TransactionRepository, queue gateway.JobQueue) *IngestWebhookUseCase {
	return &IngestWebhookUseCase{
		transactionRepository: transactionRepo,
		jobQueue:              queue,
	}
}

// Execute roda a ingestão idempotente:
//  1. valida o payload (erro de validação não toca store nem fila);
//  2. InsertIfAbsent — com chave duplicada, respondemos o status atual
//     SEM enfileirar de novo (o job original já é dono da finalização);
//  3. insert novo -> Enqueue deduplicado, sem esperar o processamento.
//
// Falha na fila depois do insert não falha a request: a linha PROCESSING
// existe e o remetente do webhook pode reentregar com segurança.
func (u *IngestWebhookUseCase) Execute(ctx context.Context, payload domain.WebhookPayload) (*IngestWebhookOutput, error) {
	if details := payload.Validate(); len(details) > 0 {
		return nil, &domain.ValidationError{Details: details}
	}

	created, err := u.transactionRepository.InsertIfAbsent(ctx, payload.ToTransaction())
	if err != nil {
		// Sem saber se o registro existe, não dá para responder 202 com honestidade.
		return nil, fmt.Errorf("falha ao verificar/gravar transação: %w", err)
	}

	if !created {
		existing, err := u.transactionRepository.GetByID(ctx, payload.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("falha ao buscar transação duplicada %s: %w", payload.TransactionID, err)
		}
		return &IngestWebhookOutput{
			TransactionID: existing.TransactionID,
			Status:        existing.Status,
			Duplicate:     true,
		}, nil
	}

	enqueued, err := u.jobQueue.Enqueue(ctx, payload.TransactionID)
	if err != nil {
		// Apenas logamos: a linha PROCESSING já existe e a reentrega do
		// webhook (idempotente) reencaminha o job.
		log.Error().Err(err).Str("transaction_id", payload.TransactionID).
			Msg("Falha ao enfileirar job de liquidação")
	} else if !enqueued {
		log.Info().Str("transaction_id", payload.TransactionID).
			Msg("Job deduplicado: unidade em aberto para a mesma chave")
	}

	return &IngestWebhookOutput{
		TransactionID: payload.TransactionID,
		Status:        domain.StatusProcessing,
	}, nil
}
