package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/happyshop-api/internal/domain"
	"github.com/jhoicas/happyshop-api/internal/domain/entity"
	"github.com/jhoicas/happyshop-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
// Una cuenta ocupa una fila en users y otra en customers o staff.
type AccountRepo struct {
	db DB
	tx *TxRunner
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
func NewAccountRepository(db DB) *AccountRepo {
	return &AccountRepo{db: db, tx: NewTxRunner(db)}
}

// Create inserta users + extensión en una sola transacción. Si cualquiera de los
// dos INSERT falla no queda ninguna fila. Al confirmar asigna los ids generados.
func (r *AccountRepo) Create(ctx context.Context, account *entity.Account) (int64, error) {
	if account == nil {
		return 0, fmt.Errorf("%w: cuenta nula", domain.ErrInvalidInput)
	}
	if err := account.Validate(); err != nil {
		return 0, err
	}

	var userID, profileID int64
	err := r.tx.Run(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (username, password_hash, email, user_type)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			account.Username, account.PasswordHash, account.Email, string(account.Type),
		).Scan(&userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNoGeneratedID
			}
			if isUniqueViolation(err) {
				return domain.ErrUsernameTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}

		switch account.Type {
		case entity.AccountTypeCustomer:
			err = tx.QueryRow(ctx, `
				INSERT INTO customers (user_id, loyalty_points)
				VALUES ($1, $2)
				RETURNING customer_id`,
				userID, account.Customer.LoyaltyPoints,
			).Scan(&profileID)
		case entity.AccountTypeStaff:
			err = tx.QueryRow(ctx, `
				INSERT INTO staff (user_id, role)
				VALUES ($1, $2)
				RETURNING staff_id`,
				userID, string(account.Staff.Role),
			).Scan(&profileID)
		}
		if err != nil {
			return fmt.Errorf("insert %s profile: %w", account.Type, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	account.ID = userID
	if account.Customer != nil {
		account.Customer.CustomerID = profileID
	}
	if account.Staff != nil {
		account.Staff.StaffID = profileID
	}
	return userID, nil
}

// FindByUsername carga la cuenta con un único SELECT (LEFT JOIN a ambas extensiones).
// Devuelve (nil, nil) si no existe.
func (r *AccountRepo) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.email, u.user_type,
		       c.customer_id, c.loyalty_points, s.staff_id, s.role
		FROM users u
		LEFT JOIN customers c ON c.user_id = u.id
		LEFT JOIN staff s ON s.user_id = u.id
		WHERE u.username = $1`
	var (
		id                          int64
		name, hash, email, userType string
		customerID, staffID         *int64
		loyaltyPoints               *int64
		role                        *string
	)
	err := r.db.QueryRow(ctx, query, username).Scan(
		&id, &name, &hash, &email, &userType,
		&customerID, &loyaltyPoints, &staffID, &role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find account by username: %w", err)
	}

	switch entity.AccountType(userType) {
	case entity.AccountTypeCustomer:
		profile := entity.CustomerProfile{}
		if customerID != nil {
			profile.CustomerID = *customerID
		}
		if loyaltyPoints != nil {
			profile.LoyaltyPoints = int(*loyaltyPoints)
		}
		return entity.RehydrateCustomer(id, name, hash, email, profile), nil
	case entity.AccountTypeStaff:
		if staffID == nil || role == nil {
			return nil, fmt.Errorf("account %d: fila staff ausente", id)
		}
		return entity.RehydrateStaff(id, name, hash, email,
			entity.StaffProfile{StaffID: *staffID, Role: entity.StaffRole(*role)}), nil
	}
	return nil, fmt.Errorf("account %d: user_type desconocido %q", id, userType)
}

// UsernameExists sondeo COUNT(*) previo al registro.
func (r *AccountRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE username = $1`, username).Scan(&n); err != nil {
		return false, fmt.Errorf("count username: %w", err)
	}
	return n > 0, nil
}

// AddLoyaltyPoints suma puntos a la fila customers de la cuenta.
func (r *AccountRepo) AddLoyaltyPoints(ctx context.Context, accountID int64, points int) error {
	if points < 0 {
		return fmt.Errorf("%w: puntos negativos", domain.ErrInvalidInput)
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE customers SET loyalty_points = loyalty_points + $1 WHERE user_id = $2`,
		points, accountID)
	if err != nil {
		return fmt.Errorf("add loyalty points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByUsername borra la cuenta; las extensiones caen por ON DELETE CASCADE.
func (r *AccountRepo) DeleteByUsername(ctx context.Context, username string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM users WHERE username = $1`, username); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
