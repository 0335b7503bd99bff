package service

import "blog-api/internal/domain"

type Action int

const (
	ActionListUsers Action = iota
	ActionPromoteUser
	ActionCreatePost
	ActionCreateComment
	ActionModifyPost
	ActionModifyComment
)

func (a Action) String() string {
	switch a {
	case ActionListUsers:
		return "list-users"
	case ActionPromoteUser:
		return "promote-user"
	case ActionCreatePost:
		return "create-post"
	case ActionCreateComment:
		return "create-comment"
	case ActionModifyPost:
		return "modify-post"
	case ActionModifyComment:
		return "modify-comment"
	default:
		return "unknown"
	}
}

// Policy decide permisos sin estado: rol para acciones de admin, dueño para
// acciones sobre recursos, y cuenta resuelta para crear contenido.
type Policy struct{}

// Authorize devuelve nil si account puede ejecutar action sobre resource.
// resource solo se usa en acciones de dueño.
func (Policy) Authorize(account *domain.User, action Action, resource domain.Owned) error {
	if account == nil {
		return ErrUnauthenticated
	}
	switch action {
	case ActionListUsers, ActionPromoteUser:
		switch account.Role() {
		case domain.RoleAdmin:
			return nil
		case domain.RoleMember:
			return ErrForbidden
		}
		return ErrForbidden
	case ActionModifyPost, ActionModifyComment:
		if resource == nil || resource.OwnerID() != account.ID {
			return ErrForbidden
		}
		return nil
	case ActionCreatePost, ActionCreateComment:
		return nil
	default:
		return ErrForbidden
	}
}

// AuthorizeAdminLogin no distingue "no es admin" de "credenciales invalidas".
func (Policy) AuthorizeAdminLogin(account domain.User) error {
	if account.Role() != domain.RoleAdmin {
		return ErrInvalidCredentials
	}
	return nil
}
