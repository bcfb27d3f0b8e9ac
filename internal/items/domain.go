// Package items manages the cataloged objects in a user's collection.
package items

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single cataloged object. CategoryID and the optional fields are
// nullable; ImageURL points into object storage when a cover was uploaded.
type Item struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"-"`
	CategoryID      *uuid.UUID `json:"categoryId,omitempty"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	ImageURL        *string    `json:"imageUrl,omitempty"`
	Price           float64    `json:"price"`
	AcquisitionDate *time.Time `json:"acquisitionDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ListFilter narrows and orders a listing. Zero values mean "no constraint".
type ListFilter struct {
	Search     string
	CategoryID *uuid.UUID
	MinPrice   *float64
	MaxPrice   *float64
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	Order      string
	Page       int
	Limit      int
}

// Page is one page of a filtered listing.
type Page struct {
	Items []Item `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

const defaultPageSize = 12

// sortColumns whitelists client-supplied sort fields against column names.
var sortColumns = map[string]string{
	"price":           "price",
	"acquisitionDate": "acquisition_date",
	"title":           "title",
	"createdAt":       "created_at",
}

// Normalize clamps paging and resolves sort defaults (createdAt desc).
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = defaultPageSize
	}
	if _, ok := sortColumns[f.SortBy]; !ok {
		f.SortBy = "createdAt"
	}
	if f.Order != "asc" {
		f.Order = "desc"
	}
}
