package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/jackc/pgx/v5"
)

const orderColumns = "id, user_id, order_number, status, payment_status, " +
	"subtotal, tax, shipping_cost, total, " +
	"shipping_name, shipping_address, shipping_city, shipping_state, " +
	"shipping_zipcode, shipping_country, shipping_phone, " +
	"payment_method, transaction_id, paid_at, notes, created_at"

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.Number,
		&order.Status,
		&order.PaymentStatus,
		&order.Subtotal,
		&order.Tax,
		&order.ShippingCost,
		&order.Total,
		&order.ShippingName,
		&order.ShippingAddress,
		&order.ShippingCity,
		&order.ShippingState,
		&order.ShippingZipcode,
		&order.ShippingCountry,
		&order.ShippingPhone,
		&order.PaymentMethod,
		&order.TransactionID,
		&order.PaidAt,
		&order.Notes,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &order, nil
}

// PlaceOrder runs the whole checkout in one transaction: the cart and its
// products are locked, build turns them into an order, then the order and
// its item snapshots are inserted, stock is decremented per line and the
// cart is cleared. Any error rolls all of it back.
func (r *Repository) PlaceOrder(ctx context.Context, userID uint64, build port.BuildOrderFn) (*domain.Order, error) {
	var order *domain.Order

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		cart, err := listCartItems(ctx, tx, r.db.QueryBuilder, userID, true)
		if err != nil {
			return err
		}

		o, err := build(cart)
		if err != nil {
			return err
		}

		sql, args, err := r.db.QueryBuilder.
			Insert("orders").
			Columns("user_id", "order_number", "status", "payment_status",
				"subtotal", "tax", "shipping_cost", "total",
				"shipping_name", "shipping_address", "shipping_city", "shipping_state",
				"shipping_zipcode", "shipping_country", "shipping_phone",
				"payment_method", "notes").
			Values(o.UserID, o.Number, o.Status, o.PaymentStatus,
				o.Subtotal, o.Tax, o.ShippingCost, o.Total,
				o.ShippingName, o.ShippingAddress, o.ShippingCity, o.ShippingState,
				o.ShippingZipcode, o.ShippingCountry, o.ShippingPhone,
				o.PaymentMethod, o.Notes).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, sql, args...).Scan(&o.ID, &o.CreatedAt)
		if err != nil {
			return err
		}

		for i := range o.Items {
			item := &o.Items[i]
			item.OrderID = o.ID

			sql, args, err := r.db.QueryBuilder.
				Insert("order_items").
				Columns("order_id", "product_id", "product_name", "product_sku",
					"quantity", "price", "subtotal").
				Values(item.OrderID, item.ProductID, item.ProductName, item.ProductSKU,
					item.Quantity, item.Price, item.Subtotal).
				Suffix("RETURNING id").
				ToSql()
			if err != nil {
				return err
			}
			if err := tx.QueryRow(ctx, sql, args...).Scan(&item.ID); err != nil {
				return err
			}

			sql, args, err = r.db.QueryBuilder.
				Update("products").
				Set("stock", sq.Expr("stock - ?", item.Quantity)).
				Set("updated_at", sq.Expr("now()")).
				Where(sq.Eq{"id": item.ProductID}).
				Where(sq.GtOrEq{"stock": item.Quantity}).
				ToSql()
			if err != nil {
				return err
			}
			tag, err := tx.Exec(ctx, sql, args...)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return domain.ErrInsufficientStock
			}
		}

		sql, args, err = r.db.QueryBuilder.
			Delete("carts").
			Where(sq.Eq{"user_id": userID}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, mapDBError(err)
	}

	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	return r.readOrder(ctx, sq.Eq{"id": id})
}

func (r *Repository) ReadOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return r.readOrder(ctx, sq.Eq{"order_number": number})
}

func (r *Repository) readOrder(ctx context.Context, where sq.Eq) (*domain.Order, error) {
	sql, args, err := r.db.QueryBuilder.
		Select(orderColumns).
		From("orders").
		Where(where).
		ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}

	order.Items, err = r.listOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *Repository) listOrderItems(ctx context.Context, orderID uint64) ([]domain.OrderItem, error) {
	sql, args, err := r.db.QueryBuilder.
		Select("id", "order_id", "product_id", "product_name", "product_sku",
			"quantity", "price", "subtotal").
		From("order_items").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ProductSKU,
			&item.Quantity,
			&item.Price,
			&item.Subtotal,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns).
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	return r.listOrders(ctx, statement)
}

func (r *Repository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns).
		From("orders").
		OrderBy("created_at DESC")

	if filter.Status != nil {
		statement = statement.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.FromDate != nil {
		statement = statement.Where(sq.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		statement = statement.Where(sq.LtOrEq{"created_at": *filter.ToDate})
	}
	if filter.Limit > 0 {
		statement = statement.Limit(filter.Limit).Offset(filter.Offset)
	}

	return r.listOrders(ctx, statement)
}

func (r *Repository) listOrders(ctx context.Context, statement sq.SelectBuilder) ([]*domain.Order, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range list {
		order.Items, err = r.listOrderItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
	}

	return list, nil
}

// UpdateOrderTx locks the order row, applies fn, and persists the mutated
// fields. A history entry returned by fn is appended in the same
// transaction, so a status change and its audit row land atomically.
func (r *Repository) UpdateOrderTx(ctx context.Context, orderID uint64, fn port.UpdateOrderFn) (*domain.Order, error) {
	var order *domain.Order

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		o, err := lockOrder(ctx, tx, r.db.QueryBuilder, orderID)
		if err != nil {
			return err
		}

		hist, err := fn(o)
		if err != nil {
			return err
		}

		if err := persistOrder(ctx, tx, r.db.QueryBuilder, o); err != nil {
			return err
		}
		if hist != nil {
			if err := insertHistory(ctx, tx, r.db.QueryBuilder, hist); err != nil {
				return err
			}
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func lockOrder(ctx context.Context, tx pgx.Tx, qb *sq.StatementBuilderType, orderID uint64) (*domain.Order, error) {
	sql, args, err := qb.
		Select(orderColumns).
		From("orders").
		Where(sq.Eq{"id": orderID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanOrder(tx.QueryRow(ctx, sql, args...))
}

func persistOrder(ctx context.Context, tx pgx.Tx, qb *sq.StatementBuilderType, o *domain.Order) error {
	sql, args, err := qb.
		Update("orders").
		Set("status", o.Status).
		Set("payment_status", o.PaymentStatus).
		Set("transaction_id", o.TransactionID).
		Set("paid_at", o.PaidAt).
		Where(sq.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, sql, args...)
	return err
}

func insertHistory(ctx context.Context, tx pgx.Tx, qb *sq.StatementBuilderType, h *domain.OrderStatusHistory) error {
	sql, args, err := qb.
		Insert("order_status_histories").
		Columns("order_id", "from_status", "to_status", "user_id", "notes", "created_at").
		Values(h.OrderID, h.FromStatus, h.ToStatus, h.UserID, h.Notes, h.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, sql, args...).Scan(&h.ID)
}

func (r *Repository) ListOrderStatusHistory(ctx context.Context, orderID uint64) ([]*domain.OrderStatusHistory, error) {
	sql, args, err := r.db.QueryBuilder.
		Select("id", "order_id", "from_status", "to_status", "user_id", "notes", "created_at").
		From("order_status_histories").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.OrderStatusHistory, 0)
	for rows.Next() {
		h := domain.OrderStatusHistory{}
		var from *string
		err := rows.Scan(&h.ID, &h.OrderID, &from, &h.ToStatus, &h.UserID, &h.Notes, &h.CreatedAt)
		if err != nil {
			return nil, err
		}
		if from != nil {
			status := domain.OrderStatus(*from)
			h.FromStatus = &status
		}
		list = append(list, &h)
	}

	return list, rows.Err()
}
