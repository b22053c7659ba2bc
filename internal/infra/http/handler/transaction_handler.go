package handler

import (
	"errors"
	"net/http"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// TransactionHandler expõe a consulta de status por identificador.
type TransactionHandler struct {
	getTransactionUC *usecase.GetTransactionUseCase
}

func NewTransactionHandler(getTransactionUC *usecase.GetTransactionUseCase) *TransactionHandler {
	return &TransactionHandler{
		getTransactionUC: getTransactionUC,
	}
}

// GetByID devolve o registro completo (amount como decimal exato) ou 404.
func (h *TransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transaction_id")

	output, err := h.getTransactionUC.Execute(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			respondError(w, http.StatusNotFound, "Not found")
			return
		}
		log.Error().Err(err).Str("transaction_id", transactionID).Msg("Erro ao consultar transação")
		respondError(w, http.StatusInternalServerError, "Internal Server Error: Could not retrieve transaction status.")
		return
	}

	respondJSON(w, http.StatusOK, output)
}
