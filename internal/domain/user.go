package domain

import "time"

// Role is the dashboard role of a user
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleUser         Role = "user"
	RoleBrandManager Role = "brand_manager"
)

// User is a dashboard account; every user is also a data owner
type User struct {
	ID        int64
	Username  string
	Role      Role
	FullName  string
	IsActive  bool
	CreatedAt time.Time
}

// IsManager reports whether the user aggregates several stores
func (u *User) IsManager() bool {
	return u.Role == RoleBrandManager
}
