package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord registro de auditoría de un pago (solo inserción, nunca se actualiza).
type TransactionRecord struct {
	ID            int64
	OrderID       int64
	PaymentMethod PaymentMethod
	Amount        decimal.Decimal
	Status        PaymentStatus
	CardLastFour  *string // nil para pagos sin tarjeta
	CreatedAt     time.Time
}

// Summary línea de historial: "Transaction 7: PayPal £12.50 (Completed) on 2025-01-02 15:04:05".
func (t *TransactionRecord) Summary() string {
	return fmt.Sprintf("Transaction %d: %s £%s (%s) on %s",
		t.ID, t.PaymentMethod, t.Amount.StringFixed(2), t.Status,
		t.CreatedAt.Format("2006-01-02 15:04:05"))
}
