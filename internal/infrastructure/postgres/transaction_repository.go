package postgres

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/happyshop-api/internal/domain"
	"github.com/jhoicas/happyshop-api/internal/domain/entity"
	"github.com/jhoicas/happyshop-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, order_id, payment_method, amount, status, card_last_four, created_at`

// TransactionRepo registro de auditoría de pagos sobre PostgreSQL.
type TransactionRepo struct {
	db Querier
}

// NewTransactionRepository construye el adaptador.
func NewTransactionRepository(db Querier) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// Record inserta un registro. Para tarjetas guarda solo los últimos 4 dígitos; NULL en otro caso.
func (r *TransactionRepo) Record(ctx context.Context, orderID int64, payment *entity.Payment) (int64, error) {
	if payment == nil {
		return 0, fmt.Errorf("%w: pago nulo", domain.ErrInvalidInput)
	}
	var lastFour *string
	if last, ok := payment.LastFour(); ok {
		lastFour = nullIfEmpty(last)
	}

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO transactions (order_id, payment_method, amount, status, card_last_four)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		orderID, string(payment.Method()), payment.Amount(), string(payment.Status()), lastFour,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNoGeneratedID
		}
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	if id == 0 {
		return 0, domain.ErrNoGeneratedID
	}
	return id, nil
}

// History secuencia perezosa de los registros de la orden, más recientes primero.
// Cada range abre y cierra su propia consulta, así que se puede recorrer varias veces.
func (r *TransactionRepo) History(ctx context.Context, orderID int64) iter.Seq2[*entity.TransactionRecord, error] {
	return func(yield func(*entity.TransactionRecord, error) bool) {
		rows, err := r.db.Query(ctx, `
			SELECT `+transactionColumns+`
			FROM transactions
			WHERE order_id = $1
			ORDER BY created_at DESC, id DESC`, orderID)
		if err != nil {
			yield(nil, fmt.Errorf("query history: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanTransaction(rows)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("iterate history: %w", err))
		}
	}
}

// GetByID devuelve (nil, nil) si no existe.
func (r *TransactionRepo) GetByID(ctx context.Context, id int64) (*entity.TransactionRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	rec, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func scanTransaction(row pgx.Row) (*entity.TransactionRecord, error) {
	var (
		rec            entity.TransactionRecord
		method, status string
	)
	err := row.Scan(&rec.ID, &rec.OrderID, &method, &rec.Amount, &status, &rec.CardLastFour, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	rec.PaymentMethod = entity.PaymentMethod(method)
	rec.Status = entity.PaymentStatus(status)
	return &rec, nil
}
