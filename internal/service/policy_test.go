package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blog-api/internal/domain"
)

func TestPolicy_Authorize(t *testing.T) {
	member := &domain.User{ID: "u1"}
	other := &domain.User{ID: "u2"}
	admin := &domain.User{ID: "a1", IsAdmin: true}
	post := domain.Post{ID: "p1", AuthorID: "u1"}
	comment := domain.Comment{ID: "c1", PostID: "p1", UserID: "u2"}

	tests := []struct {
		name     string
		account  *domain.User
		action   Action
		resource domain.Owned
		want     error
	}{
		{"anonymous list users", nil, ActionListUsers, nil, ErrUnauthenticated},
		{"anonymous create post", nil, ActionCreatePost, nil, ErrUnauthenticated},
		{"member list users", member, ActionListUsers, nil, ErrForbidden},
		{"member promote", member, ActionPromoteUser, nil, ErrForbidden},
		{"admin list users", admin, ActionListUsers, nil, nil},
		{"admin promote", admin, ActionPromoteUser, nil, nil},
		{"member create post", member, ActionCreatePost, nil, nil},
		{"member create comment", member, ActionCreateComment, nil, nil},
		{"owner modifies post", member, ActionModifyPost, post, nil},
		{"stranger modifies post", other, ActionModifyPost, post, ErrForbidden},
		{"admin is not owner", admin, ActionModifyPost, post, ErrForbidden},
		{"owner modifies comment", other, ActionModifyComment, comment, nil},
		{"stranger modifies comment", member, ActionModifyComment, comment, ErrForbidden},
		{"missing resource", member, ActionModifyPost, nil, ErrForbidden},
	}

	var policy Policy
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Authorize(tt.account, tt.action, tt.resource)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPolicy_AuthorizeAdminLogin(t *testing.T) {
	var policy Policy
	assert.NoError(t, policy.AuthorizeAdminLogin(domain.User{ID: "a1", IsAdmin: true}))
	assert.ErrorIs(t, policy.AuthorizeAdminLogin(domain.User{ID: "u1"}), ErrInvalidCredentials)
}
