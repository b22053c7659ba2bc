package handler

import (
	"net/http"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/gateway"
)

// HealthHandler responde o health check consultando só a vivacidade do store.
type HealthHandler struct {
	store gateway.TransactionRepository
}

func NewHealthHandler(store gateway.TransactionRepository) *HealthHandler {
	return &HealthHandler{store: store}
}

type HealthResponse struct {
	Status         string `json:"status"`
	CurrentTime    string `json:"current_time"`
	DatabaseStatus string `json:"database_status"`
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	dbStatus := "CONNECTED"
	if err := h.store.Ping(r.Context()); err != nil {
		dbStatus = "DATABASE_ERROR"
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:         "HEALTHY",
		CurrentTime:    time.Now().UTC().Format(time.RFC3339),
		DatabaseStatus: dbStatus,
	})
}
