package transport

import "time"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every API response. Failures carry the store or validation
// message in Error so clients can show it verbatim.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{Status: StatusSuccess, Data: data, Meta: meta}
}

// NewError builds a failure envelope. meta holds extra context such as the
// item's lifecycle view after a rejected action.
func NewError(code, message string, meta interface{}) Envelope {
	return Envelope{Status: StatusError, Code: code, Error: message, Meta: meta}
}

// SessionResponse is returned by login and refresh. Clients send SessionID
// back as X-Session-ID next to the identity provider's bearer token.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RefreshMeta reports a partial refresh failure next to a snapshot.
type RefreshMeta struct {
	RefreshError string `json:"refresh_error,omitempty"`
}
