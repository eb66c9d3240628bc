package domain

// Requester is the identity and capability set a request acts with.
type Requester struct {
	userID      int64
	hasUser     bool
	permissions map[Permission]struct{}
}

// NewRequester builds a requester. A nil userID is an anonymous requester
// that owns nothing. Only the listed permissions are granted.
func NewRequester(userID *int64, perms ...Permission) Requester {
	r := Requester{permissions: make(map[Permission]struct{}, len(perms))}
	if userID != nil {
		r.userID, r.hasUser = *userID, true
	}
	for _, p := range perms {
		r.permissions[p] = struct{}{}
	}
	return r
}

// UserID returns the requester's user id, if any.
func (r Requester) UserID() (int64, bool) {
	return r.userID, r.hasUser
}

// HasPermission reports whether the requester holds any of check.
func (r Requester) HasPermission(check ...Permission) bool {
	for _, p := range check {
		if _, ok := r.permissions[p]; ok {
			return true
		}
	}
	return false
}
