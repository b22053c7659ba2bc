package domain

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrStoreUnavailable    = errors.New("transaction store unavailable")
	ErrQueueUnavailable    = errors.New("job queue unavailable")
)

// ValidationError carrega os detalhes campo a campo do payload rejeitado.
// Nunca produz efeito colateral: nada é gravado nem enfileirado.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid webhook payload"
}
