package transport

// AuthLoginRequest is optional; the user always comes from the verified token.
type AuthLoginRequest struct {
	TTL int `json:"ttl_seconds"`
}

// RefreshRequest names the session to extend. An empty SessionID falls back to
// the X-Session-ID header.
type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

type GoalRequest struct {
	Title string `json:"title"`
	Emoji string `json:"emoji"`
}

// TaskRequest carries either an existing CategoryID or a NewCategory name.
type TaskRequest struct {
	Title       string `json:"title"`
	Emoji       string `json:"emoji"`
	CategoryID  string `json:"category_id"`
	NewCategory string `json:"new_category"`
}

// DraftRequest is the body of the draft item action.
type DraftRequest struct {
	Title string `json:"title"`
	Emoji string `json:"emoji"`
}
