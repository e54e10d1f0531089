package auth

// Principal identifies the caller and the capabilities it holds.
// It is supplied by the auth layer once per request and consumed read-only.
type Principal struct {
	userID string
	perms  map[string]struct{}
}

// New creates a principal with the given permission set.
func New(userID string, permissions []string) Principal {
	perms := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		if p != "" {
			perms[p] = struct{}{}
		}
	}
	return Principal{userID: userID, perms: perms}
}

// Anonymous returns a principal with no identity and no permissions.
func Anonymous() Principal {
	return Principal{userID: "anonymous"}
}

// UserID returns the caller identity used for rate-limit accounting.
func (p Principal) UserID() string { return p.userID }

// HasPermission reports whether the caller holds the named capability.
func (p Principal) HasPermission(perm string) bool {
	_, ok := p.perms[perm]
	return ok
}
