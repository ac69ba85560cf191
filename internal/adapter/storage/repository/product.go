package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

const productColumns = "id, name, slug, description, price, stock, sku, is_active, user_id, created_at, updated_at"

func scanProduct(row pgx.Row) (*domain.Product, error) {
	product := domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.SKU,
		&product.IsActive,
		&product.UserID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.db.QueryBuilder.
			Insert("products").
			Columns("name", "slug", "description", "price", "stock", "sku", "is_active", "user_id").
			Values(product.Name, product.Slug, product.Description, product.Price,
				product.Stock, product.SKU, product.IsActive, product.UserID).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, sql, args...).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return err
		}

		return r.syncProductCategories(ctx, tx, product.ID, product.CategoryIDs)
	})
	if err != nil {
		return nil, mapDBError(err)
	}

	return product, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.db.QueryBuilder.
			Update("products").
			Set("name", product.Name).
			Set("slug", product.Slug).
			Set("description", product.Description).
			Set("price", product.Price).
			Set("stock", product.Stock).
			Set("sku", product.SKU).
			Set("is_active", product.IsActive).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": product.ID}).
			ToSql()
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrDataNotFound
		}

		return r.syncProductCategories(ctx, tx, product.ID, product.CategoryIDs)
	})
	if err != nil {
		return nil, mapDBError(err)
	}

	return product, nil
}

// syncProductCategories replaces the product's category assignments with
// ids. Runs inside the caller's transaction.
func (r *Repository) syncProductCategories(ctx context.Context, tx pgx.Tx, productID uint64, ids []uint64) error {
	sql, args, err := r.db.QueryBuilder.
		Delete("category_product").
		Where(sq.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return err
	}

	if len(ids) == 0 {
		return nil
	}

	statement := r.db.QueryBuilder.
		Insert("category_product").
		Columns("category_id", "product_id")
	for _, id := range ids {
		statement = statement.Values(id, productID)
	}

	sql, args, err = statement.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	return err
}

func (r *Repository) listProductCategoryIDs(ctx context.Context, productID uint64) ([]uint64, error) {
	sql, args, err := r.db.QueryBuilder.
		Select("category_id").
		From("category_product").
		Where(sq.Eq{"product_id": productID}).
		OrderBy("category_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *Repository) DeleteProduct(ctx context.Context, id uint64) error {
	statement := r.db.QueryBuilder.
		Delete("products").
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

func (r *Repository) ReadProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select(productColumns).
		From("products").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	product, err := scanProduct(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}

	product.CategoryIDs, err = r.listProductCategoryIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *Repository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select(productColumns).
		From("products").
		OrderBy("id")

	if filter.PriceMin != nil {
		statement = statement.Where(sq.GtOrEq{"price": *filter.PriceMin})
	}
	if filter.PriceMax != nil {
		statement = statement.Where(sq.LtOrEq{"price": *filter.PriceMax})
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		statement = statement.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
		})
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (r *Repository) ListProductsByCategory(ctx context.Context, categoryID uint64) ([]*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select("p.id", "p.name", "p.slug", "p.description", "p.price", "p.stock",
			"p.sku", "p.is_active", "p.user_id", "p.created_at", "p.updated_at").
		From("products p").
		Join("category_product cp ON cp.product_id = p.id").
		Where(sq.Eq{"cp.category_id": categoryID}).
		OrderBy("p.id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
