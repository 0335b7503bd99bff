package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"blog-api/internal/domain"
	"blog-api/internal/repository"
)

// PostService aplica la politica de autorizacion sobre posts.
type PostService struct {
	logger *zap.Logger
	posts  repository.PostRepository
	policy Policy
}

func NewPostService(logger *zap.Logger, posts repository.PostRepository) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{logger: logger, posts: posts}
}

type CreatePostInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UpdatePostInput deja intacto cualquier campo vacio; al menos uno es obligatorio.
type UpdatePostInput struct {
	Title   string `json:"title" validate:"required_without=Content"`
	Content string `json:"content" validate:"required_without=Title"`
}

func (s *PostService) Create(ctx context.Context, account *domain.User, input CreatePostInput) (domain.Post, error) {
	if err := s.policy.Authorize(account, ActionCreatePost, nil); err != nil {
		return domain.Post{}, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if err := validateInput(input); err != nil {
		return domain.Post{}, err
	}
	post, err := s.posts.Create(ctx, domain.Post{
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: account.ID,
	})
	if err != nil {
		return domain.Post{}, storeError(err, "create post")
	}
	s.logger.Debug("post created", zap.String("post_id", post.ID), zap.String("user_id", account.ID))
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, storeError(err, "load post")
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, storeError(err, "list posts")
	}
	return posts, nil
}

// Update comprueba existencia y dueño antes de validar el contenido: un usuario
// que no es dueño siempre recibe Forbidden.
func (s *PostService) Update(ctx context.Context, account *domain.User, id string, input UpdatePostInput) (domain.Post, error) {
	post, err := s.loadOwned(ctx, account, id)
	if err != nil {
		return domain.Post{}, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if err := validateInput(input); err != nil {
		return domain.Post{}, err
	}
	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Content != "" {
		post.Content = input.Content
	}
	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		return domain.Post{}, storeError(err, "update post")
	}
	return updated, nil
}

// Delete borra el post y, en cascada, sus comentarios.
func (s *PostService) Delete(ctx context.Context, account *domain.User, id string) error {
	if _, err := s.loadOwned(ctx, account, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return storeError(err, "delete post")
	}
	s.logger.Debug("post deleted", zap.String("post_id", id), zap.String("user_id", account.ID))
	return nil
}

func (s *PostService) loadOwned(ctx context.Context, account *domain.User, id string) (domain.Post, error) {
	if account == nil {
		return domain.Post{}, ErrUnauthenticated
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, storeError(err, "load post")
	}
	if err := s.policy.Authorize(account, ActionModifyPost, post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}
