package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-api/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	GetByID(ctx context.Context, id string) (domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	Update(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

type PgCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPgCommentRepository(pool *pgxpool.Pool) *PgCommentRepository {
	return &PgCommentRepository{pool: pool}
}

const commentColumns = `id, content, post_id, user_id, created_at, updated_at`

func (r *PgCommentRepository) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	const query = `
		INSERT INTO comments (id, content, post_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	comment = prepareComment(comment)
	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.Content,
		comment.PostID,
		comment.UserID,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return domain.Comment{}, translatePgError(err)
	}
	return comment, nil
}

func (r *PgCommentRepository) GetByID(ctx context.Context, id string) (domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	c, err := scanComment(r.pool.QueryRow(ctx, query, id))
	return c, translatePgError(err)
}

func (r *PgCommentRepository) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *PgCommentRepository) Update(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	query := `
		UPDATE comments SET content = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + commentColumns
	c, err := scanComment(r.pool.QueryRow(ctx, query, comment.ID, comment.Content, time.Now().UTC()))
	return c, translatePgError(err)
}

func (r *PgCommentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return translatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanComment(row pgx.Row) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.Content, &c.PostID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Comment{}, err
	}
	return c, nil
}

func prepareComment(comment domain.Comment) domain.Comment {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	if comment.UpdatedAt.IsZero() {
		comment.UpdatedAt = comment.CreatedAt
	}
	return comment
}
