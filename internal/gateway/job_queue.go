package gateway

import (
	"context"
	"time"
)

// JobQueue é a fila durável de trabalhos de liquidação.
// Entrega at-least-once: um worker pode receber a mesma unidade mais de uma
// vez (redelivery após crash), por isso o processamento é idempotente.
type JobQueue interface {
	// Enqueue agenda a liquidação da transação. A deduplicação é por
	// transaction_id: enquanto existir uma unidade pendente ou em voo para a
	// mesma chave, chamadas repetidas retornam enqueued=false sem publicar nada.
	Enqueue(ctx context.Context, transactionID string) (enqueued bool, err error)
}

// DedupStore guarda os marcadores de "unidade em aberto" por chave.
// Acquire/Release precisam ser atômicos entre processos (Redis SET NX / DEL).
type DedupStore interface {
	// Acquire tenta criar o marcador; retorna false se ele já existia.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release remove o marcador quando a unidade atinge um desfecho terminal,
	// liberando a chave para um futuro enqueue.
	Release(ctx context.Context, key string) error
}
