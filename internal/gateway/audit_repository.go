package gateway

import "context"

// SettlementAudit é o documento gravado após cada unidade de trabalho.
type SettlementAudit struct {
	TransactionID string
	Outcome       string // finalized | already_processed | missing
	TookMs        int64
}

// AuditRepository registra a trilha de auditoria da liquidação.
// Falha de auditoria não deve derrubar o processamento (log-only no worker).
type AuditRepository interface {
	Save(ctx context.Context, audit SettlementAudit) error
}
