package auth

import (
	"context"

	"github.com/jhoicas/happyshop-api/internal/application/dto"
	"github.com/jhoicas/happyshop-api/internal/domain"
	"github.com/jhoicas/happyshop-api/internal/domain/entity"
	"github.com/jhoicas/happyshop-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación expuestos por HTTP: registro, login
// con emisión de JWT y logout. El estado de sesión vive en el SessionManager.
type AuthUseCase struct {
	sessions *SessionManager
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(sessions *SessionManager, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{sessions: sessions, jwtCfg: jwtCfg}
}

// Register crea un cliente. Devuelve domain.ErrUsernameTaken si el usuario ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AccountResponse, error) {
	acc, err := uc.sessions.RegisterCustomer(ctx, in.Username, in.Password, in.Email)
	if err != nil {
		return nil, err
	}
	return ToAccountResponse(acc), nil
}

// RegisterStaff crea un miembro del personal.
func (uc *AuthUseCase) RegisterStaff(ctx context.Context, in dto.RegisterStaffRequest) (*dto.AccountResponse, error) {
	acc, err := uc.sessions.RegisterStaff(ctx, in.Username, in.Password, in.Email, entity.StaffRole(in.Role))
	if err != nil {
		return nil, err
	}
	return ToAccountResponse(acc), nil
}

// Login verifica credenciales, abre la sesión y firma un JWT con su id (jti).
// Un login nuevo invalida los tokens emitidos antes.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrUnauthorized
	}
	sess, err := uc.sessions.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}
	acc := sess.Account
	token, err := jwt.Generate(uc.jwtCfg.Secret, acc.ID, acc.Username, acc.RoleLabel(), sess.ID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		uc.sessions.LogoutSession(sess.ID)
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		SessionID: sess.ID,
		Account:   *ToAccountResponse(acc),
	}, nil
}

// Logout cierra la sesión activa si sessionID sigue siendo la actual.
func (uc *AuthUseCase) Logout(sessionID string) error {
	if !uc.sessions.LogoutSession(sessionID) {
		return domain.ErrNotLoggedIn
	}
	return nil
}

// Me devuelve la cuenta de la sesión activa.
func (uc *AuthUseCase) Me() (*dto.AccountResponse, error) {
	acc := uc.sessions.CurrentAccount()
	if acc == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return ToAccountResponse(acc), nil
}

// ToAccountResponse mapea la entidad a su DTO (nunca incluye el hash).
func ToAccountResponse(a *entity.Account) *dto.AccountResponse {
	if a == nil {
		return nil
	}
	out := &dto.AccountResponse{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Type:     string(a.Type),
		Role:     a.RoleLabel(),
	}
	if a.Customer != nil {
		points := a.Customer.LoyaltyPoints
		out.LoyaltyPoints = &points
	}
	return out
}
