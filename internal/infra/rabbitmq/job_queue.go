package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/gateway"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// JobMessage é o corpo publicado na fila (JSON).
type JobMessage struct {
	TransactionID string    `json:"transaction_id"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// JobQueue implementa gateway.JobQueue: RabbitMQ entrega (durável, ack manual,
// redelivery), o Redis deduplica por chave. O marcador tem TTL para o caso
// raro de um Release perdido não travar a chave para sempre.
type JobQueue struct {
	channel  *amqp.Channel
	dedup    gateway.DedupStore
	dedupTTL time.Duration
}

func NewJobQueue(ch *amqp.Channel, dedup gateway.DedupStore, dedupTTL time.Duration) *JobQueue {
	return &JobQueue{
		channel:  ch,
		dedup:    dedup,
		dedupTTL: dedupTTL,
	}
}

// Enqueue publica no máximo UMA unidade em aberto por transaction_id.
func (q *JobQueue) Enqueue(ctx context.Context, transactionID string) (bool, error) {
	acquired, err := q.dedup.Acquire(ctx, transactionID, q.dedupTTL)
	if err != nil {
		return false, fmt.Errorf("failed to check outstanding job: %w", err)
	}
	if !acquired {
		// Já existe unidade pendente/em voo para esta chave: no-op
		return false, nil
	}

	msg := JobMessage{TransactionID: transactionID, SubmittedAt: time.Now()}
	bytes, err := json.Marshal(msg)
	if err != nil {
		return false, fmt.Errorf("failed to marshal job: %w", err)
	}

	err = q.channel.PublishWithContext(ctx,
		ExchangeName,        // exchange
		RoutingKeySubmitted, // routing key
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    transactionID,
			Body:         bytes,
			DeliveryMode: amqp.Persistent, // Garante que a mensagem não suma se o Rabbit reiniciar
		},
	)
	if err != nil {
		// Publish falhou: devolve o marcador para a chave não ficar presa até o TTL
		if relErr := q.dedup.Release(ctx, transactionID); relErr != nil {
			log.Warn().Err(relErr).Str("transaction_id", transactionID).
				Msg("Falha ao devolver marcador de dedup após erro de publish")
		}
		return false, fmt.Errorf("failed to publish job: %w", err)
	}

	log.Info().Str("transaction_id", transactionID).Msg("Job de liquidação publicado no RabbitMQ")
	return true, nil
}

var _ gateway.JobQueue = (*JobQueue)(nil)
