package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/happyshop-api/internal/domain"
	"github.com/jhoicas/happyshop-api/internal/domain/entity"
	"github.com/jhoicas/happyshop-api/internal/domain/repository"
	"github.com/jhoicas/happyshop-api/pkg/logger"
	"github.com/jhoicas/happyshop-api/pkg/password"
)

// Resultados de login para métricas.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginLocked             = "locked"
	LoginError              = "error"
)

// LoginThrottle cuenta intentos fallidos por usuario. Las implementaciones no
// deben fallar: ante un error interno se comportan como si no hubiera bloqueo.
type LoginThrottle interface {
	Locked(ctx context.Context, username string) bool
	RecordFailure(ctx context.Context, username string)
	Reset(ctx context.Context, username string)
}

// LoginObserver recibe el resultado de cada intento de login.
type LoginObserver interface {
	ObserveLogin(outcome string)
}

// Session sesión activa: la cuenta autenticada y el id que la identifica.
type Session struct {
	ID      string
	Account *entity.Account
}

// SessionManager guarda la única cuenta autenticada del proceso.
type SessionManager struct {
	accounts repository.AccountRepository
	hasher   *password.Hasher
	throttle LoginThrottle
	observer LoginObserver
	verify   func(hash, plain string) bool
	log      *logger.Logger

	mu        sync.RWMutex
	current   *entity.Account
	sessionID string
}

// Option configura colaboradores opcionales del SessionManager.
type Option func(*SessionManager)

// WithThrottle activa el bloqueo por intentos fallidos.
func WithThrottle(t LoginThrottle) Option {
	return func(m *SessionManager) { m.throttle = t }
}

// WithLoginObserver registra un observador de resultados de login.
func WithLoginObserver(o LoginObserver) Option {
	return func(m *SessionManager) { m.observer = o }
}

// NewSessionManager construye el gestor en estado sin sesión.
func NewSessionManager(accounts repository.AccountRepository, hasher *password.Hasher, log *logger.Logger, opts ...Option) *SessionManager {
	m := &SessionManager{
		accounts: accounts,
		hasher:   hasher,
		verify:   password.Verify,
		log:      log.Component("session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	// El señuelo se calcula aquí y no en el primer login con usuario inexistente.
	hasher.Decoy()
	return m
}

// Login verifica credenciales y, si son válidas, reemplaza la sesión actual.
// Usuario inexistente y contraseña incorrecta devuelven el mismo false.
func (m *SessionManager) Login(ctx context.Context, username, plainPassword string) bool {
	_, err := m.Authenticate(ctx, username, plainPassword)
	return err == nil
}

// Authenticate igual que Login pero devuelve la sesión abierta o el motivo:
// domain.ErrUnauthorized, domain.ErrTooManyAttempts o un error de almacén.
// Un fallo deja la sesión anterior intacta.
func (m *SessionManager) Authenticate(ctx context.Context, username, plainPassword string) (*Session, error) {
	if m.throttle != nil && m.throttle.Locked(ctx, username) {
		m.observe(LoginLocked)
		m.log.Warn().Str("username", username).Msg("login bloqueado por intentos fallidos")
		return nil, domain.ErrTooManyAttempts
	}

	acc, err := m.accounts.FindByUsername(ctx, username)
	if err != nil {
		m.observe(LoginError)
		m.log.Error().Err(err).Str("username", username).Msg("login: error consultando la cuenta")
		return nil, fmt.Errorf("login: %w", err)
	}
	// Sin cuenta se compara contra el hash señuelo: ambos fallos cuestan un bcrypt.
	var hash string
	if acc != nil {
		hash = acc.PasswordHash
	} else {
		hash = m.hasher.Decoy()
	}
	if matched := m.verify(hash, plainPassword); acc == nil || !matched {
		if m.throttle != nil {
			m.throttle.RecordFailure(ctx, username)
		}
		m.observe(LoginInvalidCredentials)
		m.log.Info().Str("username", username).Msg("login fallido")
		return nil, domain.ErrUnauthorized
	}
	if m.throttle != nil {
		m.throttle.Reset(ctx, username)
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.current = acc.Clone()
	m.sessionID = id
	m.mu.Unlock()

	m.observe(LoginSuccess)
	m.log.Info().Int64("account_id", acc.ID).Str("role", acc.RoleLabel()).Msg("sesión iniciada")
	return &Session{ID: id, Account: acc.Clone()}, nil
}

// Logout cierra la sesión. Sin sesión no hace nada.
func (m *SessionManager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.log.Info().Int64("account_id", m.current.ID).Msg("sesión cerrada")
	}
	m.current = nil
	m.sessionID = ""
}

// LogoutSession cierra la sesión solo si id es la sesión activa.
func (m *SessionManager) LogoutSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" || m.current == nil || m.sessionID != id {
		return false
	}
	m.log.Info().Int64("account_id", m.current.ID).Msg("sesión cerrada")
	m.current = nil
	m.sessionID = ""
	return true
}

// IsLoggedIn indica si hay una cuenta autenticada.
func (m *SessionManager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// CurrentAccount copia de la cuenta autenticada, o nil.
func (m *SessionManager) CurrentAccount() *entity.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// Current sesión activa, o nil. Cuenta e id se leen bajo el mismo lock.
func (m *SessionManager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	return &Session{ID: m.sessionID, Account: m.current.Clone()}
}

// SessionID id de la sesión activa; vacío sin sesión.
func (m *SessionManager) SessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionID
}

// AwardLoyaltyPoints refleja en la sesión los puntos ya persistidos para accountID.
func (m *SessionManager) AwardLoyaltyPoints(accountID int64, points int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.ID != accountID {
		return
	}
	_ = m.current.AwardLoyaltyPoints(points)
}

// Register persiste una cuenta ya construida, cliente o personal. false si la
// cuenta no es válida, el usuario existe o el almacén falla. No abre sesión.
func (m *SessionManager) Register(ctx context.Context, acc *entity.Account) bool {
	_, err := m.create(ctx, acc)
	return err == nil
}

// RegisterCustomer construye un cliente y lo registra; devuelve la cuenta creada o el error.
func (m *SessionManager) RegisterCustomer(ctx context.Context, username, plainPassword, email string) (*entity.Account, error) {
	if username == "" || plainPassword == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña requeridos", domain.ErrInvalidInput)
	}
	acc, err := entity.NewCustomer(m.hasher, username, plainPassword, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return m.create(ctx, acc)
}

// RegisterStaff crea un miembro del personal con el rol dado.
func (m *SessionManager) RegisterStaff(ctx context.Context, username, plainPassword, email string, role entity.StaffRole) (*entity.Account, error) {
	if username == "" || plainPassword == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña requeridos", domain.ErrInvalidInput)
	}
	acc, err := entity.NewStaff(m.hasher, username, plainPassword, email, role)
	if err != nil {
		return nil, err
	}
	return m.create(ctx, acc)
}

func (m *SessionManager) create(ctx context.Context, acc *entity.Account) (*entity.Account, error) {
	if acc == nil || acc.Username == "" || acc.PasswordHash == "" {
		return nil, fmt.Errorf("%w: cuenta incompleta", domain.ErrInvalidInput)
	}
	exists, err := m.accounts.UsernameExists(ctx, acc.Username)
	if err != nil {
		m.log.Error().Err(err).Str("username", acc.Username).Msg("registro: error consultando usuario")
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}
	if _, err := m.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		m.log.Error().Err(err).Str("username", acc.Username).Msg("registro: error creando la cuenta")
		return nil, fmt.Errorf("register: %w", err)
	}
	m.log.Info().Int64("account_id", acc.ID).Str("type", string(acc.Type)).Msg("cuenta registrada")
	return acc.Clone(), nil
}

func (m *SessionManager) observe(outcome string) {
	if m.observer != nil {
		m.observer.ObserveLogin(outcome)
	}
}
