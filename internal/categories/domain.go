// Package categories manages per-user collection categories.
package categories

import (
	"time"

	"github.com/google/uuid"
)

// Category labels a group of items within one user's collection. Names are
// unique per user, not globally.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
