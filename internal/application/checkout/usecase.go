package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/happyshop-api/internal/application/dto"
	"github.com/jhoicas/happyshop-api/internal/domain"
	"github.com/jhoicas/happyshop-api/internal/domain/entity"
	"github.com/jhoicas/happyshop-api/internal/domain/repository"
)

// PaymentUseCase adapta el orquestador a DTOs: checkout, historial y comprobante.
type PaymentUseCase struct {
	orchestrator *Orchestrator
	transactions repository.TransactionRepository
	receipts     ReceiptGenerator
}

// NewPaymentUseCase construye el caso de uso. receipts puede ser nil (sin comprobantes).
func NewPaymentUseCase(orchestrator *Orchestrator, transactions repository.TransactionRepository, receipts ReceiptGenerator) *PaymentUseCase {
	return &PaymentUseCase{orchestrator: orchestrator, transactions: transactions, receipts: receipts}
}

// BuildPayment construye la variante de pago pendiente a partir de la entrada del checkout.
func BuildPayment(in dto.PaymentRequest) (*entity.Payment, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if err != nil {
		return nil, fmt.Errorf("%w: monto %q", domain.ErrInvalidInput, in.Amount)
	}
	switch entity.PaymentKind(strings.ToLower(in.Method)) {
	case entity.PaymentKindCard:
		return entity.NewCardPayment(amount, entity.PaymentMethod(in.CardType), in.CardNumber, in.HolderName, in.Expiry, in.CVV), nil
	case entity.PaymentKindPayPal:
		return entity.NewPayPalPayment(amount, in.PayPalEmail), nil
	}
	return nil, fmt.Errorf("%w: método %q", domain.ErrInvalidInput, in.Method)
}

// Pay construye el pago, lo procesa y devuelve el resultado.
func (uc *PaymentUseCase) Pay(ctx context.Context, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	payment, err := BuildPayment(in)
	if err != nil {
		return nil, err
	}
	res, err := uc.orchestrator.Checkout(ctx, in.OrderID, payment)
	if err != nil {
		return nil, err
	}
	out := &dto.PaymentResponse{
		Success:       res.Payment.Status() == entity.PaymentStatusCompleted,
		Status:        string(res.Payment.Status()),
		Method:        string(res.Payment.Method()),
		Amount:        res.Payment.Amount().StringFixed(2),
		Details:       res.Payment.Details(),
		LoyaltyPoints: res.LoyaltyPoints,
	}
	if res.Recorded() {
		id := res.TransactionID
		out.TransactionID = &id
	}
	return out, nil
}

// History historial de la orden, más reciente primero.
func (uc *PaymentUseCase) History(ctx context.Context, orderID int64) (*dto.TransactionHistoryResponse, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: order_id inválido", domain.ErrInvalidInput)
	}
	out := &dto.TransactionHistoryResponse{OrderID: orderID, Transactions: []dto.TransactionResponse{}}
	for rec, err := range uc.transactions.History(ctx, orderID) {
		if err != nil {
			return nil, err
		}
		out.Transactions = append(out.Transactions, toTransactionResponse(rec))
	}
	return out, nil
}

// HistoryText historial como texto, una línea de resumen por registro.
func (uc *PaymentUseCase) HistoryText(ctx context.Context, orderID int64) (string, error) {
	var b strings.Builder
	for rec, err := range uc.transactions.History(ctx, orderID) {
		if err != nil {
			return "", err
		}
		b.WriteString(rec.Summary())
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Receipt genera el comprobante PDF de la transacción.
// Retorna domain.ErrNotFound si no existe.
func (uc *PaymentUseCase) Receipt(ctx context.Context, transactionID int64) (pdfBytes []byte, filename string, err error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("%w: comprobantes no configurados", domain.ErrNotFound)
	}
	rec, err := uc.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener transacción: %w", err)
	}
	if rec == nil {
		return nil, "", domain.ErrNotFound
	}
	pdfBytes, err = uc.receipts.GenerateReceipt(ctx, rec)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: %w", err)
	}
	return pdfBytes, fmt.Sprintf("receipt-%d.pdf", rec.ID), nil
}

func toTransactionResponse(rec *entity.TransactionRecord) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:           rec.ID,
		OrderID:      rec.OrderID,
		Method:       string(rec.PaymentMethod),
		Amount:       rec.Amount.StringFixed(2),
		Status:       string(rec.Status),
		CardLastFour: rec.CardLastFour,
		CreatedAt:    rec.CreatedAt,
		Summary:      rec.Summary(),
	}
}
