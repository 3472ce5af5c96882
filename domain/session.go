package domain

import "time"

// Session represents a cached authentication session stored in Redis.
type Session struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	ExpiresAt time.Time         `json:"expires_at"`
	CreatedAt time.Time         `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

// Identity returns the capability object handed to the board for this session.
func (s *Session) Identity() Identity {
	if s == nil {
		return Identity{}
	}
	return Identity{UserID: s.UserID, SessionID: s.ID}
}

// Identity is the signed-in user as seen by the core. It is passed
// explicitly; nothing reads the current user from global state.
type Identity struct {
	UserID    string
	SessionID string
}

// Authenticated reports whether the identity carries a user.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// Owns reports whether the identity owns a record with the given owner id.
func (i Identity) Owns(ownerID string) bool {
	return i.UserID != "" && i.UserID == ownerID
}
