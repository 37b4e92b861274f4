package checkout

import (
	"context"

	"github.com/jhoicas/happyshop-api/internal/domain/entity"
)

// PaymentNotifier avisa de un pago completado y registrado. Solo se invoca tras Completed.
type PaymentNotifier interface {
	PaymentCompleted(ctx context.Context, orderID, transactionID int64, payment *entity.Payment)
}

// PaymentObserver recibe contadores del flujo de pago.
type PaymentObserver interface {
	ObservePayment(method entity.PaymentMethod, status entity.PaymentStatus)
	ObserveAuditFailure()
}

// SessionReader la parte del gestor de sesión que usa el checkout.
type SessionReader interface {
	CurrentAccount() *entity.Account
	AwardLoyaltyPoints(accountID int64, points int)
}

// ReceiptGenerator genera el comprobante PDF de un registro de auditoría.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, record *entity.TransactionRecord) ([]byte, error)
}
