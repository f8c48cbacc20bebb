package models

// Role - роль аутентифицированного пользователя
type Role string

const (
	RoleStudent        Role = "student"
	RoleSecurity       Role = "security"
	RoleAdministrative Role = "administrative"
	RoleAuthority      Role = "authority"
)

// Claims - проверенные факты о личности вызывающего.
// Живут только в рамках одного запроса и никогда не сохраняются.
type Claims struct {
	SubjectID string
	Email     string
	Role      Role
	// Area заполняется только для роли authority
	Area string
}

// KnownRole проверяет, что роль входит в закрытый список ролей системы
func KnownRole(r Role) bool {
	switch r {
	case RoleStudent, RoleSecurity, RoleAdministrative, RoleAuthority:
		return true
	}
	return false
}
