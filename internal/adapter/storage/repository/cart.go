package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) ListCartItems(ctx context.Context, userID uint64) ([]*domain.CartItem, error) {
	return listCartItems(ctx, r.db, r.db.QueryBuilder, userID, false)
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// listCartItems loads the user's cart joined with product rows. With
// forUpdate set, both cart and product rows are locked for the enclosing
// transaction.
func listCartItems(ctx context.Context, q queryer, qb *sq.StatementBuilderType,
	userID uint64, forUpdate bool) ([]*domain.CartItem, error) {
	statement := qb.
		Select("c.id", "c.user_id", "c.product_id", "c.quantity", "c.created_at",
			"p.id", "p.name", "p.slug", "p.description", "p.price", "p.stock",
			"p.sku", "p.is_active", "p.user_id", "p.created_at", "p.updated_at").
		From("carts c").
		Join("products p ON p.id = c.product_id").
		Where(sq.Eq{"c.user_id": userID}).
		OrderBy("c.id")

	if forUpdate {
		statement = statement.Suffix("FOR UPDATE OF c, p")
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.CartItem, 0)
	for rows.Next() {
		item := domain.CartItem{Product: &domain.Product{}}
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Slug,
			&item.Product.Description,
			&item.Product.Price,
			&item.Product.Stock,
			&item.Product.SKU,
			&item.Product.IsActive,
			&item.Product.UserID,
			&item.Product.CreatedAt,
			&item.Product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// UpsertCartItem inserts the line or increments the quantity of an
// existing (user, product) pair. The second return value reports whether
// a new line was created.
func (r *Repository) UpsertCartItem(ctx context.Context, userID, productID uint64,
	quantity uint32) (*domain.CartItem, bool, error) {
	statement := r.db.QueryBuilder.
		Insert("carts").
		Columns("user_id", "product_id", "quantity").
		Values(userID, productID, quantity).
		Suffix("ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = carts.quantity + EXCLUDED.quantity").
		Suffix("RETURNING id, quantity, created_at, (xmax = 0)")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, false, err
	}

	item := domain.CartItem{UserID: userID, ProductID: productID}
	var created bool

	err = r.db.QueryRow(ctx, sql, args...).Scan(&item.ID, &item.Quantity, &item.CreatedAt, &created)
	if err != nil {
		return nil, false, mapDBError(err)
	}

	return &item, created, nil
}

func (r *Repository) ReadCartItem(ctx context.Context, id uint64) (*domain.CartItem, error) {
	statement := r.db.QueryBuilder.
		Select("id", "user_id", "product_id", "quantity", "created_at").
		From("carts").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	item := domain.CartItem{}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &item, nil
}

func (r *Repository) UpdateCartItemQuantity(ctx context.Context, id uint64, quantity uint32) (*domain.CartItem, error) {
	statement := r.db.QueryBuilder.
		Update("carts").
		Set("quantity", quantity).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING user_id, product_id, created_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	item := domain.CartItem{ID: id, Quantity: quantity}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&item.UserID, &item.ProductID, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &item, nil
}

func (r *Repository) DeleteCartItem(ctx context.Context, id uint64) error {
	statement := r.db.QueryBuilder.
		Delete("carts").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}

	return nil
}

func (r *Repository) ClearCart(ctx context.Context, userID uint64) error {
	statement := r.db.QueryBuilder.
		Delete("carts").
		Where(sq.Eq{"user_id": userID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
