package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = "id, order_id, user_id, provider, amount, currency, " +
	"status, payment_intent_id, metadata, created_at, updated_at"

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	payment := domain.Payment{}
	err := row.Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.UserID,
		&payment.Provider,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.PaymentIntentID,
		&payment.Metadata,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *Repository) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	statement := r.db.QueryBuilder.
		Insert("payments").
		Columns("order_id", "user_id", "provider", "amount", "currency", "status", "metadata").
		Values(payment.OrderID, payment.UserID, payment.Provider, payment.Amount,
			payment.Currency, payment.Status, payment.Metadata).
		Suffix("RETURNING id, created_at, updated_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}

	return payment, nil
}

func (r *Repository) UpdatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	statement := r.db.QueryBuilder.
		Update("payments").
		Set("status", payment.Status).
		Set("payment_intent_id", payment.PaymentIntentID).
		Set("metadata", payment.Metadata).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": payment.ID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrDataNotFound
	}

	return payment, nil
}

func (r *Repository) ReadPayment(ctx context.Context, id uint64) (*domain.Payment, error) {
	sql, args, err := r.db.QueryBuilder.
		Select(paymentColumns).
		From("payments").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanPayment(r.db.QueryRow(ctx, sql, args...))
}

func (r *Repository) GetPaymentByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	sql, args, err := r.db.QueryBuilder.
		Select(paymentColumns).
		From("payments").
		Where(sq.Eq{"payment_intent_id": intentID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanPayment(r.db.QueryRow(ctx, sql, args...))
}

// ReconcilePaymentTx locks the payment and its order in one transaction
// and applies fn to both. Payment mutation, order mutation and the audit
// row land atomically; concurrent deliveries for the same intent serialize
// on the payment row lock.
func (r *Repository) ReconcilePaymentTx(ctx context.Context, paymentID uint64, fn port.ReconcileFn) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.db.QueryBuilder.
			Select(paymentColumns).
			From("payments").
			Where(sq.Eq{"id": paymentID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return err
		}

		payment, err := scanPayment(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return err
		}

		order, err := lockOrder(ctx, tx, r.db.QueryBuilder, payment.OrderID)
		if err != nil {
			return err
		}

		hist, err := fn(payment, order)
		if err != nil {
			return err
		}

		sql, args, err = r.db.QueryBuilder.
			Update("payments").
			Set("status", payment.Status).
			Set("metadata", payment.Metadata).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": payment.ID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		if err := persistOrder(ctx, tx, r.db.QueryBuilder, order); err != nil {
			return err
		}

		if hist != nil {
			if err := insertHistory(ctx, tx, r.db.QueryBuilder, hist); err != nil {
				return err
			}
		}

		return nil
	})
}
