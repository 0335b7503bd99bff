package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"blog-api/internal/domain"
	"blog-api/internal/repository"
)

type CommentService struct {
	logger   *zap.Logger
	comments repository.CommentRepository
	posts    repository.PostRepository
	policy   Policy
}

func NewCommentService(logger *zap.Logger, comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{logger: logger, comments: comments, posts: posts}
}

type CommentInput struct {
	Content string `json:"content" validate:"required"`
}

func (s *CommentService) Create(ctx context.Context, account *domain.User, postID string, input CommentInput) (domain.Comment, error) {
	if err := s.policy.Authorize(account, ActionCreateComment, nil); err != nil {
		return domain.Comment{}, err
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := validateInput(input); err != nil {
		return domain.Comment{}, err
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return domain.Comment{}, storeError(err, "load post")
	}
	comment, err := s.comments.Create(ctx, domain.Comment{
		Content: input.Content,
		PostID:  postID,
		UserID:  account.ID,
	})
	if err != nil {
		return domain.Comment{}, storeError(err, "create comment")
	}
	return comment, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, storeError(err, "load post")
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, storeError(err, "list comments")
	}
	return comments, nil
}

func (s *CommentService) Update(ctx context.Context, account *domain.User, id string, input CommentInput) (domain.Comment, error) {
	comment, err := s.loadOwned(ctx, account, id)
	if err != nil {
		return domain.Comment{}, err
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := validateInput(input); err != nil {
		return domain.Comment{}, err
	}
	comment.Content = input.Content
	updated, err := s.comments.Update(ctx, comment)
	if err != nil {
		return domain.Comment{}, storeError(err, "update comment")
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, account *domain.User, id string) error {
	if _, err := s.loadOwned(ctx, account, id); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return storeError(err, "delete comment")
	}
	return nil
}

func (s *CommentService) loadOwned(ctx context.Context, account *domain.User, id string) (domain.Comment, error) {
	if account == nil {
		return domain.Comment{}, ErrUnauthenticated
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return domain.Comment{}, storeError(err, "load comment")
	}
	if err := s.policy.Authorize(account, ActionModifyComment, comment); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}
