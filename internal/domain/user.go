package domain

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	FirstName    string    `json:"firstName"`
	Country      string    `json:"country"`
	IsAdmin      bool      `json:"isAdmin"`
	Verified     bool      `json:"verified"` // reservado, ninguna regla lo lee
	CreatedAt    time.Time `json:"createdAt"`
}

// Role es la vista interna de IsAdmin; la politica de autorizacion despacha sobre ella.
type Role int

const (
	RoleMember Role = iota
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	default:
		return "member"
	}
}

func (u User) Role() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleMember
}
