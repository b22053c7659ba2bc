package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/gateway"
	"github.com/redis/go-redis/v9"
)

// DedupStore implementa gateway.DedupStore com SET NX.
// O marcador existe enquanto houver uma unidade de trabalho em aberto
// (enfileirada ou em voo) para a chave; o worker remove no desfecho terminal.
type DedupStore struct {
	client *redis.Client
}

func NewDedupStore(client *redis.Client) *DedupStore {
	return &DedupStore{client: client}
}

// Acquire é atômico entre processos: só um publisher ganha o marcador.
func (s *DedupStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := s.client.SetNX(ctx, "job:"+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire dedup marker: %w", err)
	}
	return acquired, nil
}

// Release libera a chave para um futuro enqueue. Se esta chamada se perder
// (crash do worker), o TTL do marcador expira e destrava a chave sozinho.
func (s *DedupStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, "job:"+key).Err(); err != nil {
		return fmt.Errorf("failed to release dedup marker: %w", err)
	}
	return nil
}

var _ gateway.DedupStore = (*DedupStore)(nil)
