package checkout

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/happyshop-api/internal/domain"
	"github.com/jhoicas/happyshop-api/internal/domain/entity"
	"github.com/jhoicas/happyshop-api/internal/domain/repository"
	"github.com/jhoicas/happyshop-api/pkg/logger"
)

// Result resultado de un checkout. TransactionID es 0 si el pago no quedó registrado.
type Result struct {
	Payment       *entity.Payment
	TransactionID int64
	LoyaltyPoints int
}

// Recorded indica si el pago quedó en el registro de auditoría.
func (r *Result) Recorded() bool { return r.TransactionID > 0 }

// Orchestrator lleva un pago por validación, procesamiento, registro y notificación.
type Orchestrator struct {
	transactions  repository.TransactionRepository
	accounts      repository.AccountRepository
	sessions      SessionReader
	notifier      PaymentNotifier
	observer      PaymentObserver
	pointsPerUnit int64
	log           *logger.Logger
}

// Option configura colaboradores opcionales del Orchestrator.
type Option func(*Orchestrator)

// WithObserver registra contadores de pagos.
func WithObserver(o PaymentObserver) Option {
	return func(uc *Orchestrator) { uc.observer = o }
}

// WithLoyaltyRate puntos por cada unidad de moneda pagada (0 desactiva la acumulación).
func WithLoyaltyRate(pointsPerUnit int) Option {
	return func(uc *Orchestrator) { uc.pointsPerUnit = int64(pointsPerUnit) }
}

// NewOrchestrator construye el orquestador. notifier y sessions pueden ser nil.
func NewOrchestrator(
	transactions repository.TransactionRepository,
	accounts repository.AccountRepository,
	sessions SessionReader,
	notifier PaymentNotifier,
	log *logger.Logger,
	opts ...Option,
) *Orchestrator {
	uc := &Orchestrator{
		transactions:  transactions,
		accounts:      accounts,
		sessions:      sessions,
		notifier:      notifier,
		pointsPerUnit: 1,
		log:           log.Component("checkout"),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Checkout procesa el pago y, si se completa, lo registra, notifica y abona puntos
// al cliente con sesión. Un pago rechazado no es un error: Result.Payment queda en Failed.
// Un fallo al registrar tras un pago completado solo se registra en el log.
func (uc *Orchestrator) Checkout(ctx context.Context, orderID int64, payment *entity.Payment) (*Result, error) {
	if payment == nil {
		return nil, fmt.Errorf("%w: pago nulo", domain.ErrInvalidInput)
	}
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: order_id inválido", domain.ErrInvalidInput)
	}

	ok, err := payment.Process()
	if err != nil {
		return nil, err
	}
	uc.observePayment(payment)

	res := &Result{Payment: payment}
	if !ok {
		uc.log.Info().
			Int64("order_id", orderID).
			Str("method", string(payment.Method())).
			Str("reason", payment.FailureReason()).
			Msg("pago rechazado")
		return res, nil
	}

	txID, err := uc.transactions.Record(ctx, orderID, payment)
	if err != nil {
		if uc.observer != nil {
			uc.observer.ObserveAuditFailure()
		}
		uc.log.Error().Err(err).
			Int64("order_id", orderID).
			Str("details", payment.Details()).
			Msg("pago completado pero no registrado")
	} else {
		res.TransactionID = txID
		uc.log.Info().
			Int64("order_id", orderID).
			Int64("transaction_id", txID).
			Str("details", payment.Details()).
			Msg("pago registrado")
	}

	if uc.notifier != nil {
		uc.notifier.PaymentCompleted(ctx, orderID, res.TransactionID, payment)
	}
	res.LoyaltyPoints = uc.awardLoyalty(ctx, payment.Amount())
	return res, nil
}

// maxLoyaltyPoints tope de un abono; loyalty_points es INTEGER.
var maxLoyaltyPoints = decimal.NewFromInt(math.MaxInt32)

// LoyaltyPointsFor floor(amount × puntos por unidad), acotado a [0, MaxInt32].
func LoyaltyPointsFor(amount decimal.Decimal, pointsPerUnit int64) int {
	if pointsPerUnit <= 0 || !amount.IsPositive() {
		return 0
	}
	points := amount.Mul(decimal.NewFromInt(pointsPerUnit)).Floor()
	if points.GreaterThan(maxLoyaltyPoints) {
		return math.MaxInt32
	}
	return int(points.IntPart())
}

func (uc *Orchestrator) awardLoyalty(ctx context.Context, amount decimal.Decimal) int {
	if uc.sessions == nil || uc.accounts == nil {
		return 0
	}
	acc := uc.sessions.CurrentAccount()
	if acc == nil || !acc.IsCustomer() {
		return 0
	}
	points := LoyaltyPointsFor(amount, uc.pointsPerUnit)
	if points == 0 {
		return 0
	}
	if err := uc.accounts.AddLoyaltyPoints(ctx, acc.ID, points); err != nil {
		uc.log.Error().Err(err).Int64("account_id", acc.ID).Int("points", points).Msg("no se pudieron abonar puntos")
		return 0
	}
	uc.sessions.AwardLoyaltyPoints(acc.ID, points)
	return points
}

func (uc *Orchestrator) observePayment(p *entity.Payment) {
	if uc.observer != nil {
		uc.observer.ObservePayment(p.Method(), p.Status())
	}
}
