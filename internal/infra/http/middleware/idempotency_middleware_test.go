package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/gateway"
	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/infra/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdempotencyRepo struct {
	cache    map[string]gateway.CachedResponse
	failWith error
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{cache: make(map[string]gateway.CachedResponse)}
}

func (f *fakeIdempotencyRepo) Get(_ context.Context, key string) (*gateway.CachedResponse, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if resp, ok := f.cache[key]; ok {
		return &resp, nil
	}
	return nil, nil
}

func (f *fakeIdempotencyRepo) Save(_ context.Context, key string, response gateway.CachedResponse, _ time.Duration) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.cache[key] = response
	return nil
}

func countingHandler(hits *int64, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	var hits int64
	wrapped := middleware.Idempotency(repo)(countingHandler(&hits, http.StatusAccepted, `{"acknowledged":true}`))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/transactions", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)
		assert.JSONEq(t, `{"acknowledged":true}`, rec.Body.String())
	}

	// Segunda chamada veio do cache, handler executou uma vez só
	assert.Equal(t, int64(1), hits)
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	var hits int64
	wrapped := middleware.Idempotency(repo)(countingHandler(&hits, http.StatusAccepted, "ok"))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/transactions", nil)
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
	}

	assert.Equal(t, int64(2), hits)
}

// Redis fora do ar não pode travar a ingestão (fail open).
func TestIdempotency_FailOpen(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	repo.failWith = errors.New("redis down")
	var hits int64
	wrapped := middleware.Idempotency(repo)(countingHandler(&hits, http.StatusAccepted, "ok"))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/transactions", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, int64(1), hits)
}

// 400 não entra no cache: o remetente que corrigir o payload sob a mesma
// chave precisa ser reprocessado.
func TestIdempotency_DoesNotCacheClientErrors(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	var hits int64
	wrapped := middleware.Idempotency(repo)(countingHandler(&hits, http.StatusBadRequest, `{"error":"Invalid payload"}`))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/transactions", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	assert.Equal(t, int64(2), hits)
	assert.Empty(t, repo.cache)
}

// 5xx não entra no cache: o retry do remetente deve reprocessar.
func TestIdempotency_DoesNotCacheServerErrors(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	var hits int64
	wrapped := middleware.Idempotency(repo)(countingHandler(&hits, http.StatusInternalServerError, "boom"))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/transactions", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	}

	assert.Equal(t, int64(2), hits)
}
