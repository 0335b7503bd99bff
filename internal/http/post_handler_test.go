package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, s *testServer, token string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/posts", token, map[string]string{
		"title":   "Hello",
		"content": "World",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["post"].(map[string]any)["id"].(string)
}

func TestPosts_OwnershipScenario(t *testing.T) {
	s := newTestServer(t)
	_, u1 := s.signup(t, "u1@example.com")
	_, u2 := s.signup(t, "u2@example.com")

	postID := createPost(t, s, u1)

	rec := s.do(t, http.MethodDelete, "/api/posts/"+postID, u2, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/posts/"+postID, u2, map[string]string{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/posts/"+postID, u1, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPosts_CreateRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/posts", "", map[string]string{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, token := s.signup(t, "u1@example.com")
	rec = s.do(t, http.MethodPost, "/api/posts", token, map[string]string{"title": "t"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "content is required", decodeBody(t, rec)["error"])
}

func TestPosts_ListGetUpdate(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "u1@example.com")
	postID := createPost(t, s, token)

	rec := s.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["posts"].([]any), 1)

	rec = s.do(t, http.MethodPut, "/api/posts/"+postID, token, map[string]string{"content": "Updated"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	post := decodeBody(t, rec)["post"].(map[string]any)
	assert.Equal(t, "Hello", post["title"])
	assert.Equal(t, "Updated", post["content"])

	rec = s.do(t, http.MethodPut, "/api/posts/missing", token, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments_Flow(t *testing.T) {
	s := newTestServer(t)
	_, author := s.signup(t, "author@example.com")
	_, reader := s.signup(t, "reader@example.com")
	postID := createPost(t, s, author)

	rec := s.do(t, http.MethodPost, "/api/posts/"+postID+"/comments", reader, map[string]string{"content": "nice"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	commentID := decodeBody(t, rec)["comment"].(map[string]any)["id"].(string)

	rec = s.do(t, http.MethodPost, "/api/posts/missing/comments", reader, map[string]string{"content": "nice"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/posts/"+postID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["comments"].([]any), 1)

	rec = s.do(t, http.MethodPut, "/api/comments/"+commentID, author, map[string]string{"content": "edited"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/comments/"+commentID, reader, map[string]string{"content": "edited"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "edited", decodeBody(t, rec)["comment"].(map[string]any)["content"])

	// borrar el post elimina sus comentarios
	rec = s.do(t, http.MethodDelete, "/api/posts/"+postID, author, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/comments/"+commentID, reader, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdate_UnreadableBodyStillChecksOwnership(t *testing.T) {
	s := newTestServer(t)
	_, u1 := s.signup(t, "u1@example.com")
	_, u2 := s.signup(t, "u2@example.com")
	postID := createPost(t, s, u1)

	rec := s.do(t, http.MethodPost, "/api/posts/"+postID+"/comments", u2, map[string]string{"content": "nice"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	commentID := decodeBody(t, rec)["comment"].(map[string]any)["id"].(string)

	bodies := []string{"", `{"title": 123, "content": 5}`, `{not json`, `{}`}
	for _, body := range bodies {
		rec = s.doRaw(t, http.MethodPut, "/api/posts/"+postID, u2, body)
		assert.Equal(t, http.StatusForbidden, rec.Code, "post body %q: %s", body, rec.Body.String())

		rec = s.doRaw(t, http.MethodPut, "/api/comments/"+commentID, u1, body)
		assert.Equal(t, http.StatusForbidden, rec.Code, "comment body %q: %s", body, rec.Body.String())

		rec = s.doRaw(t, http.MethodPut, "/api/posts/missing", u2, body)
		assert.Equal(t, http.StatusNotFound, rec.Code, "missing post body %q", body)
	}

	// el dueño si recibe el error de entrada
	rec = s.doRaw(t, http.MethodPut, "/api/posts/"+postID, u1, `{"title": 123}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title is invalid", decodeBody(t, rec)["error"])

	rec = s.doRaw(t, http.MethodPut, "/api/comments/"+commentID, u2, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "body is invalid", decodeBody(t, rec)["error"])

	rec = s.do(t, http.MethodGet, "/api/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello", decodeBody(t, rec)["post"].(map[string]any)["title"])
}
