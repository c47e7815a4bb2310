package models

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// ValidRole reports whether role is one of the recognised staff roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}
