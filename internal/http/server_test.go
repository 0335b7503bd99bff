package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"blog-api/internal/repository"
	"blog-api/internal/service"
)

type testServer struct {
	router *gin.Engine
	store  *repository.MemoryStore
	jwt    *service.JWTService
	users  *service.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	store := repository.NewMemoryStore()
	jwtSvc, err := service.NewJWTService("test-secret")
	require.NoError(t, err)

	userServ := service.NewUserService(logger, store.Users(), service.NewBcryptHasher(), jwtSvc)
	postServ := service.NewPostService(logger, store.Posts())
	commentServ := service.NewCommentService(logger, store.Comments(), store.Posts())
	resolver := service.NewIdentityResolver(store.Users())

	router := NewRouter(logger, nil, JWTAuthMiddleware(logger, jwtSvc, resolver), Handlers{
		Users:    NewUserHandler(logger, userServ),
		Admin:    NewAdminHandler(logger, userServ),
		Posts:    NewPostHandler(logger, postServ),
		Comments: NewCommentHandler(logger, commentServ),
		Health:   NewHealthHandler(logger, store.Ping),
	})

	return &testServer{router: router, store: store, jwt: jwtSvc, users: userServ}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doRaw(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// signup registra un usuario y devuelve su id y token.
func (s *testServer) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/user/signup", "", map[string]string{
		"name":      "Doe",
		"firstName": "Jane",
		"email":     email,
		"country":   "AR",
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User  struct{ ID string } `json:"user"`
		Token string              `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

// seedAdmin crea un admin por el camino del seed y devuelve su token.
func (s *testServer) seedAdmin(t *testing.T, email string) string {
	t.Helper()
	_, err := s.users.SeedAdmin(context.Background(), service.SignupInput{
		Name:      "Admin",
		FirstName: "Default",
		Email:     email,
		Country:   "AdminLand",
		Password:  "adminpassword",
	})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"email":    email,
		"password": "adminpassword",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["token"].(string)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
