package entity

import (
	"fmt"

	"github.com/jhoicas/happyshop-api/internal/domain"
	"github.com/jhoicas/happyshop-api/pkg/password"
)

// AccountType discriminador de la variante de cuenta (columna user_type).
type AccountType string

const (
	AccountTypeCustomer AccountType = "Customer"
	AccountTypeStaff    AccountType = "Staff"
)

// StaffRole roles válidos para el personal.
type StaffRole string

const (
	StaffRoleManager   StaffRole = "manager"
	StaffRolePicker    StaffRole = "picker"
	StaffRoleWarehouse StaffRole = "warehouse"
)

// Valid indica si el rol pertenece al conjunto cerrado.
func (r StaffRole) Valid() bool {
	switch r {
	case StaffRoleManager, StaffRolePicker, StaffRoleWarehouse:
		return true
	}
	return false
}

// CustomerProfile extensión de la cuenta para clientes.
type CustomerProfile struct {
	CustomerID    int64
	LoyaltyPoints int
}

// StaffProfile extensión de la cuenta para personal.
type StaffProfile struct {
	StaffID int64
	Role    StaffRole
}

// Account cuenta de usuario. Exactamente una de Customer o Staff está presente,
// según Type. ID vale 0 hasta que el almacén lo asigna.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt, nunca texto plano
	Email        string
	Type         AccountType
	Customer     *CustomerProfile
	Staff        *StaffProfile
}

// NewCustomer crea un cliente nuevo (sin id) hasheando la contraseña. Puntos en 0.
func NewCustomer(h *password.Hasher, username, plainPassword, email string) (*Account, error) {
	hash, err := h.Hash(plainPassword)
	if err != nil {
		return nil, err
	}
	return &Account{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Type:         AccountTypeCustomer,
		Customer:     &CustomerProfile{},
	}, nil
}

// NewStaff crea un miembro del personal nuevo (sin id) con el rol indicado.
func NewStaff(h *password.Hasher, username, plainPassword, email string, role StaffRole) (*Account, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	hash, err := h.Hash(plainPassword)
	if err != nil {
		return nil, err
	}
	return &Account{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Type:         AccountTypeStaff,
		Staff:        &StaffProfile{Role: role},
	}, nil
}

// RehydrateCustomer reconstruye un cliente desde el almacén sin volver a hashear.
func RehydrateCustomer(id int64, username, passwordHash, email string, profile CustomerProfile) *Account {
	return &Account{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		Type:         AccountTypeCustomer,
		Customer:     &profile,
	}
}

// RehydrateStaff reconstruye un miembro del personal desde el almacén sin volver a hashear.
func RehydrateStaff(id int64, username, passwordHash, email string, profile StaffProfile) *Account {
	return &Account{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		Type:         AccountTypeStaff,
		Staff:        &profile,
	}
}

// VerifyPassword compara el texto plano contra el hash almacenado.
func (a *Account) VerifyPassword(plainPassword string) bool {
	if a == nil {
		return false
	}
	return password.Verify(a.PasswordHash, plainPassword)
}

// Persisted indica si el almacén ya asignó un id.
func (a *Account) Persisted() bool { return a.ID > 0 }

// IsCustomer / IsStaff consultan el discriminador.
func (a *Account) IsCustomer() bool { return a.Type == AccountTypeCustomer && a.Customer != nil }
func (a *Account) IsStaff() bool { return a.Type == AccountTypeStaff && a.Staff != nil }

// HasRole indica si la cuenta es personal con alguno de los roles dados.
func (a *Account) HasRole(roles ...StaffRole) bool {
	if !a.IsStaff() {
		return false
	}
	for _, r := range roles {
		if a.Staff.Role == r {
			return true
		}
	}
	return false
}

// RoleLabel etiqueta de rol para tokens y respuestas: el rol del personal o "customer".
func (a *Account) RoleLabel() string {
	switch a.Type {
	case AccountTypeStaff:
		if a.Staff != nil {
			return string(a.Staff.Role)
		}
	case AccountTypeCustomer:
		return "customer"
	}
	return ""
}

// Validate comprueba el invariante de una sola variante por cuenta.
func (a *Account) Validate() error {
	if a.Username == "" || a.PasswordHash == "" {
		return fmt.Errorf("%w: usuario y hash requeridos", domain.ErrInvalidInput)
	}
	switch a.Type {
	case AccountTypeCustomer:
		if a.Customer == nil || a.Staff != nil {
			return fmt.Errorf("%w: cliente sin perfil de cliente", domain.ErrInvalidInput)
		}
		if a.Customer.LoyaltyPoints < 0 {
			return fmt.Errorf("%w: puntos negativos", domain.ErrInvalidInput)
		}
	case AccountTypeStaff:
		if a.Staff == nil || a.Customer != nil {
			return fmt.Errorf("%w: personal sin perfil de personal", domain.ErrInvalidInput)
		}
		if !a.Staff.Role.Valid() {
			return fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, a.Staff.Role)
		}
	default:
		return fmt.Errorf("%w: tipo de cuenta %q", domain.ErrInvalidInput, a.Type)
	}
	return nil
}

// AwardLoyaltyPoints suma puntos a un cliente. Solo acepta valores no negativos.
func (a *Account) AwardLoyaltyPoints(points int) error {
	if !a.IsCustomer() {
		return fmt.Errorf("%w: solo los clientes acumulan puntos", domain.ErrInvalidInput)
	}
	if points < 0 {
		return fmt.Errorf("%w: puntos negativos", domain.ErrInvalidInput)
	}
	a.Customer.LoyaltyPoints += points
	return nil
}

// Clone copia profunda; el gestor de sesión nunca entrega su referencia interna.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.Customer != nil {
		p := *a.Customer
		c.Customer = &p
	}
	if a.Staff != nil {
		p := *a.Staff
		c.Staff = &p
	}
	return &c
}
