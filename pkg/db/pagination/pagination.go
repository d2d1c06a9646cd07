package pagination

import "gorm.io/gorm"

const (
	DefaultLimit = 25
	MaxLimit     = 250
)

// Page is an offset window over a created_at-ordered listing.
type Page struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

// Normalize clamps the window: a non-positive limit becomes DefaultLimit,
// limits above MaxLimit are capped and negative offsets become zero.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Apply scopes a query to the normalized window.
func (p Page) Apply(db *gorm.DB) *gorm.DB {
	n := p.Normalize()
	return db.Limit(n.Limit).Offset(n.Offset)
}

// Slice returns the window of an already materialized list.
func Slice[T any](items []T, p Page) []T {
	n := p.Normalize()
	if n.Offset >= len(items) {
		return []T{}
	}
	end := n.Offset + n.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[n.Offset:end]
}
