package gateway

import (
	"context"
	"time"
)

// CachedResponse representa o que salvamos no Redis para replay de respostas.
type CachedResponse struct {
	StatusCode int
	Body       []byte
}

// IdempotencyRepository cacheia respostas HTTP por Idempotency-Key.
// Camada opcional sobre a idempotência real, que vive no InsertIfAbsent.
type IdempotencyRepository interface {
	// Get retorna a resposta cacheada, ou nil se não existir.
	Get(ctx context.Context, key string) (*CachedResponse, error)

	// Save armazena a resposta com um TTL (Time To Live).
	Save(ctx context.Context, key string, response CachedResponse, ttl time.Duration) error
}
