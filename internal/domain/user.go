package domain

// Role determines what API operations a user may perform.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// User is an authenticated API caller. Users are managed outside the engine;
// they matter here only as the audit trail's actor.
type User struct {
	ID   string
	Name string
	Role Role
}
