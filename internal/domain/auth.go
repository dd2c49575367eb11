package domain

import "time"

// Identity is the verified payload of a session token, scoped to one request.
type Identity struct {
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Owns reports whether the identity is the owner recorded on a resource.
func (i Identity) Owns(ownerID string) bool {
	return i.SubjectID != "" && i.SubjectID == ownerID
}
