package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-SettleFlow-Webhook-Microservices/internal/gateway"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// settlementDocument é o documento gravado no Mongo.
// Usamos tags 'bson' em vez de 'json'.
type settlementDocument struct {
	ID            string    `bson:"_id"`
	TransactionID string    `bson:"transaction_id"`
	Outcome       string    `bson:"outcome"`
	TookMs        int64     `bson:"took_ms"`
	SettledAt     time.Time `bson:"settled_at"`
}

// AuditRepository grava a trilha de auditoria da liquidação.
type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	collection := client.Database(dbName).Collection("settlement_audit")
	return &AuditRepository{collection: collection}
}

func (r *AuditRepository) Save(ctx context.Context, audit gateway.SettlementAudit) error {
	doc := settlementDocument{
		ID:            uuid.New().String(),
		TransactionID: audit.TransactionID,
		Outcome:       audit.Outcome,
		TookMs:        audit.TookMs,
		SettledAt:     time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert settlement audit: %w", err)
	}
	return nil
}

var _ gateway.AuditRepository = (*AuditRepository)(nil)
