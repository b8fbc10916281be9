package accounts

import "time"

// Role define el rol del usuario.
// @Enum admin, user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
}

// Session es la sesión guardada en el dispositivo (token + perfil cacheado).
type Session struct {
	Token     string
	User      User
	ExpiresAt time.Time
}

type demoUser struct {
	User
	Password string
}

func demoUsers() []demoUser {
	return []demoUser{
		{User: User{ID: "1", Email: "admin@example.com", Name: "Administrator", Role: RoleAdmin}, Password: "admin123"},
		{User: User{ID: "2", Email: "user@example.com", Name: "User Test", Role: RoleUser}, Password: "user123"},
	}
}
