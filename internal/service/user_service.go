package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"blog-api/internal/domain"
	"blog-api/internal/repository"
)

// TokenIssuer emite el token de acceso de un usuario.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// UserService coordina alta, login y administracion de usuarios.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	policy Policy

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		logger: logger,
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// SignupInput se valida en orden de declaracion; el primer campo que falla gana.
type SignupInput struct {
	Name      string `json:"name" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Country   string `json:"country" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	User  domain.User
	Token string
}

func (in SignupInput) normalized() SignupInput {
	in.Name = strings.TrimSpace(in.Name)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.Email = strings.TrimSpace(in.Email)
	in.Country = strings.TrimSpace(in.Country)
	return in
}

// Signup valida antes de tocar el almacenamiento, rechaza emails repetidos y
// devuelve el usuario creado junto a su token.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	user, err := s.createUser(ctx, input, false, false)
	if err != nil {
		return AuthResult{}, err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w: %w", ErrInternal, err)
	}
	s.logger.Info("user signed up", zap.String("user_id", user.ID))
	return AuthResult{User: user, Token: token}, nil
}

func (s *UserService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	user, err := s.authenticate(ctx, input)
	if err != nil {
		return AuthResult{}, err
	}
	return s.issue(user)
}

// AdminLogin responde igual para cuenta inexistente, contraseña incorrecta o
// cuenta sin rol de admin.
func (s *UserService) AdminLogin(ctx context.Context, input LoginInput) (AuthResult, error) {
	user, err := s.authenticate(ctx, input)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.policy.AuthorizeAdminLogin(user); err != nil {
		return AuthResult{}, err
	}
	return s.issue(user)
}

func (s *UserService) ListUsers(ctx context.Context, account *domain.User) ([]domain.User, error) {
	if err := s.policy.Authorize(account, ActionListUsers, nil); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeError(err, "list users")
	}
	return users, nil
}

// Promote marca al usuario targetID como admin. Promover a un admin no es error.
func (s *UserService) Promote(ctx context.Context, account *domain.User, targetID string) (domain.User, error) {
	if err := s.policy.Authorize(account, ActionPromoteUser, nil); err != nil {
		return domain.User{}, err
	}
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return domain.User{}, &ValidationError{Field: "id", Rule: "required"}
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return domain.User{}, storeError(err, "load promotion target")
	}
	if target.IsAdmin {
		return target, nil
	}
	updated, err := s.users.SetAdmin(ctx, targetID, true)
	if err != nil {
		return domain.User{}, storeError(err, "promote user")
	}
	s.logger.Info("user promoted to admin",
		zap.String("user_id", updated.ID),
		zap.String("promoted_by", account.ID),
	)
	return updated, nil
}

// SeedAdmin crea la cuenta admin inicial (verificada). Si el email ya existe,
// la promueve en lugar de fallar.
func (s *UserService) SeedAdmin(ctx context.Context, input SignupInput) (domain.User, error) {
	user, err := s.createUser(ctx, input, true, true)
	if err == nil {
		s.logger.Info("admin seeded", zap.String("user_id", user.ID))
		return user, nil
	}
	if !errors.Is(err, ErrConflict) {
		return domain.User{}, err
	}

	existing, err := s.users.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		return domain.User{}, storeError(err, "load existing admin")
	}
	if existing.IsAdmin {
		s.logger.Info("admin already present", zap.String("user_id", existing.ID))
		return existing, nil
	}
	promoted, err := s.users.SetAdmin(ctx, existing.ID, true)
	if err != nil {
		return domain.User{}, storeError(err, "promote existing account")
	}
	s.logger.Info("existing account promoted by seed", zap.String("user_id", promoted.ID))
	return promoted, nil
}

func (s *UserService) createUser(ctx context.Context, input SignupInput, isAdmin, verified bool) (domain.User, error) {
	input = input.normalized()
	if err := validateInput(input); err != nil {
		return domain.User{}, err
	}
	if err := validatePassword(input.Password); err != nil {
		return domain.User{}, err
	}

	_, err := s.users.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return domain.User{}, fmt.Errorf("email %q: %w", input.Email, ErrConflict)
	case !errors.Is(err, repository.ErrNotFound):
		return domain.User{}, storeError(err, "check email")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		FirstName:    input.FirstName,
		Country:      input.Country,
		IsAdmin:      isAdmin,
		Verified:     verified,
	})
	if err != nil {
		return domain.User{}, storeError(err, "create user")
	}
	return user, nil
}

func (s *UserService) authenticate(ctx context.Context, input LoginInput) (domain.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return domain.User{}, err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Igualar el costo con el camino de contraseña incorrecta.
			_, _ = s.hasher.Verify(input.Password, s.dummyVerifier())
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, storeError(err, "load user by email")
	}
	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) issue(user domain.User) (AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w: %w", ErrInternal, err)
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *UserService) dummyVerifier() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("not-a-real-password")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
