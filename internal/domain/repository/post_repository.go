package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lenspost/internal/common"
	"lenspost/internal/domain/model"
)

// PostFilter narrows List. Zero PageSize disables the page window.
type PostFilter struct {
	Category string
	Page     int
	PageSize int
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*model.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
}

type pgPostRepository struct {
	db *sql.DB
}

func NewPgPostRepository(db *sql.DB) PostRepository {
	return &pgPostRepository{db: db}
}

// Owner summary fields are joined in so responses can embed them
// without a second lookup.
const postSelect = `SELECT p.id, p.owner_id, p.title, p.slug, p.description, p.category, p.image,
       p.created_at, p.updated_at, u.username, u.profile_photo
	FROM posts p JOIN users u ON u.id = p.owner_id`

func (r *pgPostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (id, owner_id, title, slug, description, category, image)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.OwnerID, post.Title, post.Slug, post.Description, post.Category, post.Image)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPostRepository.FindByID: %w", err)
	}
	return post, nil
}

func (r *pgPostRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx, postSelect+` WHERE p.owner_id = $1 ORDER BY p.created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.FindByOwner: %w", err)
	}
	return collectPosts(rows)
}

func (r *pgPostRepository) List(ctx context.Context, filter PostFilter) ([]*model.Post, error) {
	query := postSelect
	args := []interface{}{}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" WHERE p.category = $%d", len(args))
	}
	query += " ORDER BY p.created_at DESC"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.PageSize)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, (page-1)*filter.PageSize)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.List: %w", err)
	}
	return collectPosts(rows)
}

func (r *pgPostRepository) Update(ctx context.Context, post *model.Post) error {
	query := `UPDATE posts SET title = $2, slug = $3, description = $4, category = $5, image = $6, updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Slug, post.Description, post.Category, post.Image)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgPostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	post := &model.Post{Owner: &model.UserSummary{}}
	err := row.Scan(
		&post.ID, &post.OwnerID, &post.Title, &post.Slug, &post.Description, &post.Category,
		&post.Image, &post.CreatedAt, &post.UpdatedAt,
		&post.Owner.Username, &post.Owner.ProfilePhoto,
	)
	if err != nil {
		return nil, err
	}
	post.Owner.ID = post.OwnerID
	return post, nil
}

func collectPosts(rows *sql.Rows) ([]*model.Post, error) {
	defer rows.Close()
	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post row: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
