package models

// Role is the closed set of marketplace roles.
type Role string

const (
	RoleVisitor Role = "visitor"
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
)

var roles = map[Role]bool{
	RoleVisitor: true,
	RoleOwner:   true,
	RoleAdmin:   true,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return roles[r] }

// User is the already-authenticated actor handed to every core operation.
// The core never resolves identity itself; the caller owns the session.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar"`
}
