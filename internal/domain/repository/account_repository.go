package repository

import (
	"context"

	"github.com/jhoicas/happyshop-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para cuentas (tabla base + extensión).
type AccountRepository interface {
	// Create inserta la fila base y la fila de extensión en una sola transacción y
	// devuelve el id generado. Devuelve domain.ErrUsernameTaken si el usuario ya existe.
	Create(ctx context.Context, account *entity.Account) (int64, error)
	// FindByUsername devuelve (nil, nil) si no existe.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)
	// UsernameExists sondeo consultivo; la restricción UNIQUE es la autoridad.
	UsernameExists(ctx context.Context, username string) (bool, error)
	AddLoyaltyPoints(ctx context.Context, accountID int64, points int) error
	// DeleteByUsername borra la cuenta y su extensión. Usado por el seed.
	DeleteByUsername(ctx context.Context, username string) error
}
