package entity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/happyshop-api/internal/domain"
	"github.com/jhoicas/happyshop-api/pkg/luhn"
)

// PaymentStatus ciclo de vida de un pago: Pending → Completed | Failed, una sola vez.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// Terminal indica si el estado ya no admite transiciones.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// PaymentKind discriminador de la variante de pago.
type PaymentKind string

const (
	PaymentKindCard   PaymentKind = "card"
	PaymentKindPayPal PaymentKind = "paypal"
)

// PaymentMethod etiqueta persistida del medio de pago.
type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "CreditCard"
	MethodDebitCard  PaymentMethod = "DebitCard"
	MethodPayPal     PaymentMethod = "PayPal"
)

// Motivos internos de rechazo (solo para logs, nunca para el usuario).
const (
	ReasonInvalidAmount     = "invalid_amount"
	ReasonInvalidCardNumber = "invalid_card_number"
	ReasonInvalidCVV        = "invalid_cvv"
	ReasonInvalidExpiry     = "invalid_expiry"
	ReasonInvalidEmail      = "invalid_email"
)

const (
	minCardDigits = 13
	maxCardDigits = 19

	// Los montos se guardan como NUMERIC(12,2).
	amountDecimals = 2
)

// MaxAmount primer monto que ya no cabe en el registro de auditoría.
var MaxAmount = decimal.New(1, 10)

var (
	cvvPattern    = regexp.MustCompile(`^\d{3}$`)
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
)

// CardMethodFor etiqueta una tarjeta como débito si empieza por 5, crédito en otro caso.
func CardMethodFor(cardNumber string) PaymentMethod {
	if strings.HasPrefix(luhn.Strip(cardNumber), "5") {
		return MethodDebitCard
	}
	return MethodCreditCard
}

type cardDetails struct {
	number     string // se descarta al procesar
	lastFour   string
	holderName string
	expiry     string
	cvv        string
}

type payPalDetails struct {
	email string
}

// Payment unión etiquetada {tarjeta, PayPal}. Una instancia no debe procesarse
// desde dos goroutines a la vez.
type Payment struct {
	kind   PaymentKind
	amount decimal.Decimal
	method PaymentMethod
	status PaymentStatus
	reason string
	card   *cardDetails
	payPal *payPalDetails
}

// NewCardPayment construye un pago con tarjeta pendiente. Si method no es una
// etiqueta de tarjeta se deduce del número.
func NewCardPayment(amount decimal.Decimal, method PaymentMethod, cardNumber, holderName, expiry, cvv string) *Payment {
	if method != MethodCreditCard && method != MethodDebitCard {
		method = CardMethodFor(cardNumber)
	}
	return &Payment{
		kind:   PaymentKindCard,
		amount: amount,
		method: method,
		status: PaymentStatusPending,
		card: &cardDetails{
			number:     cardNumber,
			lastFour:   lastFour(luhn.Strip(cardNumber)),
			holderName: holderName,
			expiry:     expiry,
			cvv:        cvv,
		},
	}
}

// NewPayPalPayment construye un pago PayPal pendiente.
func NewPayPalPayment(amount decimal.Decimal, email string) *Payment {
	return &Payment{
		kind:   PaymentKindPayPal,
		amount: amount,
		method: MethodPayPal,
		status: PaymentStatusPending,
		payPal: &payPalDetails{email: email},
	}
}

func (p *Payment) Kind() PaymentKind { return p.kind }
func (p *Payment) Amount() decimal.Decimal { return p.amount }
func (p *Payment) Method() PaymentMethod { return p.method }
func (p *Payment) Status() PaymentStatus { return p.status }

// FailureReason motivo interno del rechazo; vacío si no falló.
func (p *Payment) FailureReason() string { return p.reason }

// LastFour últimos 4 dígitos de la tarjeta; ok=false para pagos que no son con tarjeta.
func (p *Payment) LastFour() (string, bool) {
	if p.kind != PaymentKindCard || p.card == nil {
		return "", false
	}
	return p.card.lastFour, true
}

// PayPalEmail cuenta PayPal; vacío en otras variantes.
func (p *Payment) PayPalEmail() string {
	if p.payPal == nil {
		return ""
	}
	return p.payPal.email
}

// Process valida los campos del medio de pago y fija el estado terminal.
// Un segundo llamado devuelve domain.ErrPaymentAlreadyProcessed sin cambiar el estado.
func (p *Payment) Process() (bool, error) {
	if p.status.Terminal() {
		return false, domain.ErrPaymentAlreadyProcessed
	}

	reason := p.validate()
	if p.card != nil {
		p.card.number = ""
		p.card.cvv = ""
	}
	if reason != "" {
		p.status = PaymentStatusFailed
		p.reason = reason
		return false, nil
	}
	p.status = PaymentStatusCompleted
	return true, nil
}

func (p *Payment) validate() string {
	if !ValidAmount(p.amount) {
		return ReasonInvalidAmount
	}
	switch p.kind {
	case PaymentKindCard:
		return validateCard(p.card)
	case PaymentKindPayPal:
		return validatePayPal(p.payPal)
	}
	return ReasonInvalidAmount
}

// ValidAmount positivo, con dos decimales como máximo y menor que MaxAmount.
func ValidAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() || amount.GreaterThanOrEqual(MaxAmount) {
		return false
	}
	return amount.Equal(amount.Truncate(amountDecimals))
}

func validateCard(c *cardDetails) string {
	if c == nil {
		return ReasonInvalidCardNumber
	}
	digits := luhn.Strip(c.number)
	if len(digits) < minCardDigits || len(digits) > maxCardDigits || !luhn.AllDigits(digits) {
		return ReasonInvalidCardNumber
	}
	if !luhn.Valid(digits) {
		return ReasonInvalidCardNumber
	}
	if !cvvPattern.MatchString(c.cvv) {
		return ReasonInvalidCVV
	}
	// Solo formato; no se comprueba si la fecha ya venció.
	if !expiryPattern.MatchString(c.expiry) {
		return ReasonInvalidExpiry
	}
	return ""
}

func validatePayPal(pp *payPalDetails) string {
	if pp == nil || pp.email == "" || !strings.Contains(pp.email, "@") || !strings.Contains(pp.email, ".") {
		return ReasonInvalidEmail
	}
	return ""
}

// Details resumen legible para mostrar o registrar. Nunca incluye el número completo.
func (p *Payment) Details() string {
	amount := p.amount.StringFixed(2)
	switch p.kind {
	case PaymentKindCard:
		last, _ := p.LastFour()
		return fmt.Sprintf("%s ending in %s - £%s (%s)", p.method, last, amount, p.status)
	case PaymentKindPayPal:
		return fmt.Sprintf("PayPal (%s) - £%s (%s)", p.PayPalEmail(), amount, p.status)
	}
	return fmt.Sprintf("%s - £%s (%s)", p.method, amount, p.status)
}

func lastFour(digits string) string {
	if len(digits) < 4 {
		return "****"
	}
	return digits[len(digits)-4:]
}
