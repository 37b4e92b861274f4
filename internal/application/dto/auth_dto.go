package dto

// RegisterRequest entrada para el registro de clientes.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// RegisterStaffRequest entrada para dar de alta personal (solo manager).
type RegisterStaffRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"required,oneof=manager picker warehouse"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountResponse salida de una cuenta (sin hash).
type AccountResponse struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Type          string `json:"type"`
	Role          string `json:"role"`
	LoyaltyPoints *int   `json:"loyalty_points,omitempty"`
}

// LoginResponse salida con token JWT ligado a la sesión activa.
type LoginResponse struct {
	Token     string          `json:"token"`
	SessionID string          `json:"session_id"`
	Account   AccountResponse `json:"account"`
}
