package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

const categoryColumns = "id, name, slug, description, is_active, parent_id, created_at"

func scanCategory(row pgx.Row) (*domain.Category, error) {
	category := domain.Category{}
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.IsActive,
		&category.ParentID,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	statement := r.db.QueryBuilder.
		Insert("categories").
		Columns("name", "slug", "description", "is_active", "parent_id").
		Values(category.Name, category.Slug, category.Description, category.IsActive, category.ParentID).
		Suffix("RETURNING id, created_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}

	return category, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	statement := r.db.QueryBuilder.
		Update("categories").
		Set("name", category.Name).
		Set("slug", category.Slug).
		Set("description", category.Description).
		Set("is_active", category.IsActive).
		Set("parent_id", category.ParentID).
		Where(sq.Eq{"id": category.ID})

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

	return category, nil
}

// DeleteCategory removes the category and reparents its children to the
// deleted node's own parent in the same transaction.
func (r *Repository) DeleteCategory(ctx context.Context, id uint64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var parentID *uint64
		sql, args, err := r.db.QueryBuilder.
			Select("parent_id").
			From("categories").
			Where(sq.Eq{"id": id}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx, sql, args...).Scan(&parentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrDataNotFound
			}
			return err
		}

		sql, args, err = r.db.QueryBuilder.
			Update("categories").
			Set("parent_id", parentID).
			Where(sq.Eq{"parent_id": id}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		sql, args, err = r.db.QueryBuilder.
			Delete("categories").
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
}

// ReadCategory loads the category together with its parent and children.
func (r *Repository) ReadCategory(ctx context.Context, id uint64) (*domain.Category, error) {
	statement := r.db.QueryBuilder.
		Select(categoryColumns).
		From("categories").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	category, err := scanCategory(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}

	if category.ParentID != nil {
		sql, args, err = r.db.QueryBuilder.
			Select(categoryColumns).
			From("categories").
			Where(sq.Eq{"id": *category.ParentID}).
			ToSql()
		if err != nil {
			return nil, err
		}
		parent, err := scanCategory(r.db.QueryRow(ctx, sql, args...))
		if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
		category.Parent = parent
	}

	sql, args, err = r.db.QueryBuilder.
		Select(categoryColumns).
		From("categories").
		Where(sq.Eq{"parent_id": id}).
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

	for rows.Next() {
		child, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		category.Children = append(category.Children, child)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return category, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	statement := r.db.QueryBuilder.
		Select(categoryColumns).
		From("categories").
		OrderBy("id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
