// Package notify avisos de pagos completados.
package notify

import (
	"context"

	"github.com/jhoicas/happyshop-api/internal/application/checkout"
	"github.com/jhoicas/happyshop-api/internal/domain/entity"
	"github.com/jhoicas/happyshop-api/pkg/logger"
)

var _ checkout.PaymentNotifier = (*LogNotifier)(nil)

// LogNotifier escribe cada pago completado en el log estructurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("notify")}
}

// PaymentCompleted registra el aviso. Details nunca contiene el número completo de tarjeta.
func (n *LogNotifier) PaymentCompleted(_ context.Context, orderID, transactionID int64, payment *entity.Payment) {
	ev := n.log.Info().
		Int64("order_id", orderID).
		Str("method", string(payment.Method())).
		Str("amount", payment.Amount().StringFixed(2)).
		Str("details", payment.Details())
	if transactionID > 0 {
		ev = ev.Int64("transaction_id", transactionID)
	}
	ev.Msg("pago completado")
}
