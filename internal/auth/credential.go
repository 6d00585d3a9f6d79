package auth

// Credential is the single stored login for one role. Password holds a
// bcrypt hash, never the raw value, and is not serialized.
type Credential struct {
	ID       int    `json:"id"`
	Role     Role   `json:"role"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// CredentialPatch carries a partial credential update; nil fields are left
// untouched.
type CredentialPatch struct {
	Username *string
	Password *string
}

func (p CredentialPatch) Empty() bool {
	return p.Username == nil && p.Password == nil
}
