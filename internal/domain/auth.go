package domain

// AuthorityPrefix is prepended to role names when roles cross the token/HTTP
// boundary, so external policy checks can treat authorities as opaque strings.
const AuthorityPrefix = "ROLE_"

// Authority renders a role in the boundary naming convention.
func (r Role) Authority() string {
	return AuthorityPrefix + string(r)
}

// RoleFromAuthority strips the boundary prefix back to the role enumeration.
func RoleFromAuthority(authority string) (Role, bool) {
	if len(authority) <= len(AuthorityPrefix) || authority[:len(AuthorityPrefix)] != AuthorityPrefix {
		return "", false
	}
	return ParseRole(authority[len(AuthorityPrefix):])
}
