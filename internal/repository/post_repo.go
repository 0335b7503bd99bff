package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-api/internal/domain"
)

// PostRepository define el contrato de persistencia para posts.
// Delete borra tambien los comentarios del post.
type PostRepository interface {
	Create(ctx context.Context, post domain.Post) (domain.Post, error)
	GetByID(ctx context.Context, id string) (domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	Update(ctx context.Context, post domain.Post) (domain.Post, error)
	Delete(ctx context.Context, id string) error
}

type PgPostRepository struct {
	pool *pgxpool.Pool
}

func NewPgPostRepository(pool *pgxpool.Pool) *PgPostRepository {
	return &PgPostRepository{pool: pool}
}

const postColumns = `id, title, content, author_id, created_at, updated_at`

func (r *PgPostRepository) Create(ctx context.Context, post domain.Post) (domain.Post, error) {
	const query = `
		INSERT INTO posts (id, title, content, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	post = preparePost(post)
	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.AuthorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return domain.Post{}, translatePgError(err)
	}
	return post, nil
}

func (r *PgPostRepository) GetByID(ctx context.Context, id string) (domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	p, err := scanPost(r.pool.QueryRow(ctx, query, id))
	return p, translatePgError(err)
}

func (r *PgPostRepository) List(ctx context.Context) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PgPostRepository) Update(ctx context.Context, post domain.Post) (domain.Post, error) {
	query := `
		UPDATE posts SET title = $2, content = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + postColumns
	p, err := scanPost(r.pool.QueryRow(ctx, query, post.ID, post.Title, post.Content, time.Now().UTC()))
	return p, translatePgError(err)
}

// Delete depende de ON DELETE CASCADE en comments.post_id.
func (r *PgPostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return translatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

func preparePost(post domain.Post) domain.Post {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}
	return post
}
