package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lenspost/internal/common"
	"lenspost/internal/domain/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	FindByPost(ctx context.Context, postID string) ([]*model.Comment, error)
	List(ctx context.Context) ([]*model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}

type pgCommentRepository struct {
	db *sql.DB
}

func NewPgCommentRepository(db *sql.DB) CommentRepository {
	return &pgCommentRepository{db: db}
}

const commentSelect = `SELECT c.id, c.post_id, c.owner_id, c.text, c.created_at, c.updated_at,
       u.username, u.profile_photo
	FROM comments c JOIN users u ON u.id = c.owner_id`

func (r *pgCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `INSERT INTO comments (id, post_id, owner_id, text) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, comment.ID, comment.PostID, comment.OwnerID, comment.Text)
	if err != nil {
		return fmt.Errorf("pgCommentRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCommentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	comment, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCommentRepository.FindByID: %w", err)
	}
	return comment, nil
}

func (r *pgCommentRepository) FindByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, commentSelect+` WHERE c.post_id = $1 ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("pgCommentRepository.FindByPost: %w", err)
	}
	return collectComments(rows)
}

func (r *pgCommentRepository) List(ctx context.Context) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, commentSelect+` ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("pgCommentRepository.List: %w", err)
	}
	return collectComments(rows)
}

func (r *pgCommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	query := `UPDATE comments SET text = $2, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, comment.ID, comment.Text)
	if err != nil {
		return fmt.Errorf("pgCommentRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCommentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCommentRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("pgCommentRepository.DeleteByPost: %w", err)
	}
	return nil
}

func (r *pgCommentRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("pgCommentRepository.DeleteByOwner: %w", err)
	}
	return nil
}

func scanComment(row rowScanner) (*model.Comment, error) {
	comment := &model.Comment{Owner: &model.UserSummary{}}
	err := row.Scan(
		&comment.ID, &comment.PostID, &comment.OwnerID, &comment.Text,
		&comment.CreatedAt, &comment.UpdatedAt,
		&comment.Owner.Username, &comment.Owner.ProfilePhoto,
	)
	if err != nil {
		return nil, err
	}
	comment.Owner.ID = comment.OwnerID
	return comment, nil
}

func collectComments(rows *sql.Rows) ([]*model.Comment, error) {
	defer rows.Close()
	var comments []*model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
