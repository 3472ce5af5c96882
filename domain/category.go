package domain

import "time"

// UncategorizedName is preselected in the category picker when the owner has one.
const UncategorizedName = "Uncategorized"

// Category groups tasks. Unique per (Name, CreatedBy).
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
