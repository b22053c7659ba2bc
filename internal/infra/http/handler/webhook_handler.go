package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/usecase"
	"github.com/rs/zerolog/log"
)

// WebhookHandler expõe a ingestão de webhooks via HTTP.
type WebhookHandler struct {
	ingestUseCase *usecase.IngestWebhookUseCase
}

// NewWebhookHandler cria uma nova instância.
func NewWebhookHandler(uc *usecase.IngestWebhookUseCase) *WebhookHandler {
	return &WebhookHandler{
		ingestUseCase: uc,
	}
}

// DTOs de resposta (tags JSON em snake_case, padrão de APIs)
type AcknowledgedResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

type DuplicateResponse struct {
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

// Receive processa a entrega de um webhook de transação.
// Sempre responde rápido: 202 para sucesso E para duplicata; 500 só quando
// nem a checagem de existência pôde ser concluída.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload domain.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "Invalid payload",
			Details: map[string]string{"body": "malformed JSON body"},
		})
		return
	}

	output, err := h.ingestUseCase.Execute(ctx, payload)
	if err != nil {
		// Mapeamento de Erros de Domínio -> HTTP Status Code
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Invalid payload",
				Details: validationErr.Details,
			})
			return
		}

		// Erro interno (banco caiu, bug, etc): sem saber se o registro existe,
		// o remetente precisa reentregar
		log.Error().Err(err).Msg("Erro interno ao ingerir webhook")
		respondError(w, http.StatusInternalServerError, "Internal Server Error: Failed to process webhook request.")
		return
	}

	if output.Duplicate {
		respondJSON(w, http.StatusAccepted, DuplicateResponse{
			Message:       "Webhook received. Transaction already exists.",
			TransactionID: output.TransactionID,
			Status:        string(output.Status),
		})
		return
	}

	respondJSON(w, http.StatusAccepted, AcknowledgedResponse{Acknowledged: true})
}

// Helpers para resposta JSON
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Falha ao codificar resposta JSON")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
