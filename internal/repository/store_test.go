package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"blog-api/internal/domain"
)

type testStore struct {
	users    UserRepository
	posts    PostRepository
	comments CommentRepository
}

func openTestStores(t *testing.T) map[string]testStore {
	t.Helper()
	mem := NewMemoryStore()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)
	gs, err := NewGormStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gs.Close() })

	return map[string]testStore{
		"memory": {users: mem.Users(), posts: mem.Posts(), comments: mem.Comments()},
		"sqlite": {users: gs.Users(), posts: gs.Posts(), comments: gs.Comments()},
	}
}

func TestStores_Users(t *testing.T) {
	for name, s := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			u, err := s.users.Create(ctx, domain.User{Email: "jane@example.com", PasswordHash: "h", Name: "Doe"})
			require.NoError(t, err)
			assert.NotEmpty(t, u.ID)
			assert.False(t, u.CreatedAt.IsZero())

			_, err = s.users.Create(ctx, domain.User{Email: "jane@example.com", PasswordHash: "h"})
			assert.ErrorIs(t, err, ErrConflict)

			// el email distingue mayusculas
			_, err = s.users.Create(ctx, domain.User{Email: "Jane@example.com", PasswordHash: "h"})
			assert.NoError(t, err)

			byEmail, err := s.users.GetByEmail(ctx, "jane@example.com")
			require.NoError(t, err)
			assert.Equal(t, u.ID, byEmail.ID)
			assert.Equal(t, "h", byEmail.PasswordHash)

			_, err = s.users.GetByID(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			promoted, err := s.users.SetAdmin(ctx, u.ID, true)
			require.NoError(t, err)
			assert.True(t, promoted.IsAdmin)

			_, err = s.users.SetAdmin(ctx, "missing", true)
			assert.ErrorIs(t, err, ErrNotFound)

			all, err := s.users.List(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)

			require.NoError(t, s.users.Delete(ctx, u.ID))
			assert.ErrorIs(t, s.users.Delete(ctx, u.ID), ErrNotFound)
		})
	}
}

func TestStores_PostsAndComments(t *testing.T) {
	for name, s := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			author, err := s.users.Create(ctx, domain.User{Email: "a@example.com", PasswordHash: "h"})
			require.NoError(t, err)
			reader, err := s.users.Create(ctx, domain.User{Email: "r@example.com", PasswordHash: "h"})
			require.NoError(t, err)

			_, err = s.posts.Create(ctx, domain.Post{Title: "t", Content: "c", AuthorID: "ghost"})
			assert.ErrorIs(t, err, ErrNotFound)

			post, err := s.posts.Create(ctx, domain.Post{Title: "t", Content: "c", AuthorID: author.ID})
			require.NoError(t, err)

			post.Title = "edited"
			updated, err := s.posts.Update(ctx, post)
			require.NoError(t, err)
			assert.Equal(t, "edited", updated.Title)
			assert.Equal(t, author.ID, updated.AuthorID)

			_, err = s.posts.Update(ctx, domain.Post{ID: "missing", Title: "x", Content: "y"})
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = s.comments.Create(ctx, domain.Comment{Content: "hi", PostID: "missing", UserID: reader.ID})
			assert.ErrorIs(t, err, ErrNotFound)

			comment, err := s.comments.Create(ctx, domain.Comment{Content: "hi", PostID: post.ID, UserID: reader.ID})
			require.NoError(t, err)

			comment.Content = "changed"
			changed, err := s.comments.Update(ctx, comment)
			require.NoError(t, err)
			assert.Equal(t, "changed", changed.Content)

			list, err := s.comments.ListByPost(ctx, post.ID)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, comment.ID, list[0].ID)

			require.NoError(t, s.posts.Delete(ctx, post.ID))
			_, err = s.comments.GetByID(ctx, comment.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.posts.Delete(ctx, post.ID), ErrNotFound)
		})
	}
}

func TestStores_DeleteUserCascades(t *testing.T) {
	for name, s := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			author, err := s.users.Create(ctx, domain.User{Email: "a@example.com", PasswordHash: "h"})
			require.NoError(t, err)
			reader, err := s.users.Create(ctx, domain.User{Email: "r@example.com", PasswordHash: "h"})
			require.NoError(t, err)

			authored, err := s.posts.Create(ctx, domain.Post{Title: "t", Content: "c", AuthorID: author.ID})
			require.NoError(t, err)
			kept, err := s.posts.Create(ctx, domain.Post{Title: "t", Content: "c", AuthorID: reader.ID})
			require.NoError(t, err)
			onAuthored, err := s.comments.Create(ctx, domain.Comment{Content: "x", PostID: authored.ID, UserID: reader.ID})
			require.NoError(t, err)
			byAuthor, err := s.comments.Create(ctx, domain.Comment{Content: "y", PostID: kept.ID, UserID: author.ID})
			require.NoError(t, err)

			require.NoError(t, s.users.Delete(ctx, author.ID))

			_, err = s.posts.GetByID(ctx, authored.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.comments.GetByID(ctx, onAuthored.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.comments.GetByID(ctx, byAuthor.ID)
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = s.posts.GetByID(ctx, kept.ID)
			assert.NoError(t, err)
		})
	}
}
