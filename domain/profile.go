package domain

import "time"

// UnknownUser is the display name used when an owner has no profile.
const UnknownUser = "Unknown User"

// Profile is the public face of a user on the board. One per owner.
type Profile struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
