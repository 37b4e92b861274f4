package dto

import "time"

// PaymentRequest entrada del checkout. Method: "card" o "paypal".
// Amount en texto decimal ("49.99") para no perder precisión.
type PaymentRequest struct {
	OrderID     int64  `json:"order_id" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Method      string `json:"method" validate:"required,oneof=card paypal"`
	CardType    string `json:"card_type,omitempty"` // CreditCard | DebitCard; vacío = deducir del número
	CardNumber  string `json:"card_number,omitempty"`
	HolderName  string `json:"holder_name,omitempty"`
	Expiry      string `json:"expiry,omitempty"` // MM/YY
	CVV         string `json:"cvv,omitempty"`
	PayPalEmail string `json:"paypal_email,omitempty"`
}

// PaymentResponse resultado del checkout. Nunca incluye el número completo de tarjeta.
type PaymentResponse struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	Method        string `json:"method"`
	Amount        string `json:"amount"`
	Details       string `json:"details"`
	TransactionID *int64 `json:"transaction_id,omitempty"`
	LoyaltyPoints int    `json:"loyalty_points_awarded"`
}

// TransactionResponse registro de auditoría.
type TransactionResponse struct {
	ID           int64     `json:"id"`
	OrderID      int64     `json:"order_id"`
	Method       string    `json:"payment_method"`
	Amount       string    `json:"amount"`
	Status       string    `json:"status"`
	CardLastFour *string   `json:"card_last_four,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Summary      string    `json:"summary"`
}

// TransactionHistoryResponse historial de una orden, más reciente primero.
type TransactionHistoryResponse struct {
	OrderID      int64                 `json:"order_id"`
	Transactions []TransactionResponse `json:"transactions"`
}
