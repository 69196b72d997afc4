package model

// Roles a user can log in with.
const (
	RoleAdmin   = "admin"
	RoleSponsor = "sponsor"
)

// User represents a login as stored in the `users` table.  Sponsor
// users are bound to exactly one sponsor through SponsorID; admins
// leave it null.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  PasswordHash – bcrypt hash of the password.
//  Role         – admin or sponsor.
//  SponsorID    – bound sponsor for sponsor users (nullable).
type User struct {
	ID           int64  // users.id
	Username     string // users.username
	PasswordHash string // users.password_hash
	Role         string // users.role
	SponsorID    *int64 // users.sponsor_id (nullable)
}

// ValidRole reports whether r is a role the service knows about.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleSponsor
}
