package repository

import (
	"context"
	"iter"

	"github.com/jhoicas/happyshop-api/internal/domain/entity"
)

// TransactionRepository define el puerto del registro de auditoría de pagos (solo inserción).
type TransactionRepository interface {
	// Record guarda un pago procesado. Solo persiste los últimos 4 dígitos de la tarjeta.
	Record(ctx context.Context, orderID int64, payment *entity.Payment) (int64, error)
	// History recorre los registros de una orden, más recientes primero. Cada
	// recorrido ejecuta una consulta nueva.
	History(ctx context.Context, orderID int64) iter.Seq2[*entity.TransactionRecord, error]
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.TransactionRecord, error)
}
