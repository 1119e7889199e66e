package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lenspost/internal/common"
	"lenspost/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	List(ctx context.Context) ([]*model.Category, error)
	Delete(ctx context.Context, id string) error
}

type pgCategoryRepository struct {
	db *sql.DB
}

func NewPgCategoryRepository(db *sql.DB) CategoryRepository {
	return &pgCategoryRepository{db: db}
}

func (r *pgCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	query := `INSERT INTO categories (id, title) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, category.ID, category.Title)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("category with given title already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgCategoryRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	category := &model.Category{}
	err := r.db.QueryRowContext(ctx, `SELECT id, title, created_at FROM categories WHERE id = $1`, id).
		Scan(&category.ID, &category.Title, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCategoryRepository.FindByID: %w", err)
	}
	return category, nil
}

func (r *pgCategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, created_at FROM categories ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("pgCategoryRepository.List: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		category := &model.Category{}
		if err := rows.Scan(&category.ID, &category.Title, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgCategoryRepository.List scan: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *pgCategoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCategoryRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
