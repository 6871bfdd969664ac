package shared

// Role is the role of the authenticated caller.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMentor Role = "mentor"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMentor
}

// Actor is the identity on whose behalf a core operation runs. It is passed
// explicitly to every command; the core trusts it and never re-authenticates.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Validate checks the actor carries an identity.
func (a Actor) Validate() error {
	if a.ID == "" || !a.Role.IsValid() {
		return ErrMissingActor
	}
	return nil
}

// RequireAdmin fails unless the actor is an admin.
func (a Actor) RequireAdmin() error {
	if err := a.Validate(); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

// RequireSelfOrAdmin fails unless the actor is an admin or the mentor mentorID.
func (a Actor) RequireSelfOrAdmin(mentorID string) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.IsAdmin() || a.ID == mentorID {
		return nil
	}
	return ErrNotOwnMentor
}
