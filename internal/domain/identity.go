package domain

// Role роль пользователя, приходит из заголовка X-User-Role
type Role string

const (
	RoleChef    Role = "chef"
	RolePortal  Role = "portal"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleChef, RolePortal, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Actor пользователь, выполняющий операцию
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true for administrators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage returns true if the actor manages the location (admins manage everything)
func (a Actor) CanManage(location *Location) bool {
	return a.IsAdmin() || location.IsManagedBy(a.UserID)
}
