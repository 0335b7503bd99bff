package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"blog-api/internal/domain"
)

// MemoryStore guarda usuarios, posts y comentarios en memoria. Respeta las mismas
// reglas que el esquema SQL: email unico, claves foraneas y borrado en cascada.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	emails   map[string]string
	posts    map[string]domain.Post
	comments map[string]domain.Comment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]domain.User),
		emails:   make(map[string]string),
		posts:    make(map[string]domain.Post),
		comments: make(map[string]domain.Comment),
	}
}

func (s *MemoryStore) Users() UserRepository       { return memoryUsers{s} }
func (s *MemoryStore) Posts() PostRepository       { return memoryPosts{s} }
func (s *MemoryStore) Comments() CommentRepository { return memoryComments{s} }

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user = prepareUser(user)
	if _, ok := r.s.emails[user.Email]; ok {
		return domain.User{}, ErrConflict
	}
	if _, ok := r.s.users[user.ID]; ok {
		return domain.User{}, ErrConflict
	}
	r.s.users[user.ID] = user
	r.s.emails[user.Email] = user.ID
	return user, nil
}

func (r memoryUsers) GetByID(_ context.Context, id string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[email]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return r.s.users[id], nil
}

func (r memoryUsers) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b domain.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return users, nil
}

func (r memoryUsers) SetAdmin(_ context.Context, id string, isAdmin bool) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	u.IsAdmin = isAdmin
	r.s.users[id] = u
	return u, nil
}

func (r memoryUsers) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.s.users, id)
	delete(r.s.emails, u.Email)
	for pid, p := range r.s.posts {
		if p.AuthorID == id {
			delete(r.s.posts, pid)
		}
	}
	for cid, c := range r.s.comments {
		if _, alive := r.s.posts[c.PostID]; c.UserID == id || !alive {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

type memoryPosts struct{ s *MemoryStore }

func (r memoryPosts) Create(_ context.Context, post domain.Post) (domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[post.AuthorID]; !ok {
		return domain.Post{}, ErrNotFound
	}
	post = preparePost(post)
	if _, ok := r.s.posts[post.ID]; ok {
		return domain.Post{}, ErrConflict
	}
	r.s.posts[post.ID] = post
	return post, nil
}

func (r memoryPosts) GetByID(_ context.Context, id string) (domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return domain.Post{}, ErrNotFound
	}
	return p, nil
}

func (r memoryPosts) List(_ context.Context) ([]domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	posts := make([]domain.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		posts = append(posts, p)
	}
	slices.SortFunc(posts, func(a, b domain.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return posts, nil
}

func (r memoryPosts) Update(_ context.Context, post domain.Post) (domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.posts[post.ID]
	if !ok {
		return domain.Post{}, ErrNotFound
	}
	current.Title = post.Title
	current.Content = post.Content
	current.UpdatedAt = time.Now().UTC()
	r.s.posts[post.ID] = current
	return current, nil
}

func (r memoryPosts) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.posts, id)
	for cid, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

type memoryComments struct{ s *MemoryStore }

func (r memoryComments) Create(_ context.Context, comment domain.Comment) (domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[comment.PostID]; !ok {
		return domain.Comment{}, ErrNotFound
	}
	if _, ok := r.s.users[comment.UserID]; !ok {
		return domain.Comment{}, ErrNotFound
	}
	comment = prepareComment(comment)
	if _, ok := r.s.comments[comment.ID]; ok {
		return domain.Comment{}, ErrConflict
	}
	r.s.comments[comment.ID] = comment
	return comment, nil
}

func (r memoryComments) GetByID(_ context.Context, id string) (domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return domain.Comment{}, ErrNotFound
	}
	return c, nil
}

func (r memoryComments) ListByPost(_ context.Context, postID string) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	comments := make([]domain.Comment, 0)
	for _, c := range r.s.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	slices.SortFunc(comments, func(a, b domain.Comment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return comments, nil
}

func (r memoryComments) Update(_ context.Context, comment domain.Comment) (domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.comments[comment.ID]
	if !ok {
		return domain.Comment{}, ErrNotFound
	}
	current.Content = comment.Content
	current.UpdatedAt = time.Now().UTC()
	r.s.comments[comment.ID] = current
	return current, nil
}

func (r memoryComments) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

// Ping cumple el contrato de health check; la memoria siempre responde.
func (s *MemoryStore) Ping(context.Context) error { return nil }
