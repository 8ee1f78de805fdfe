package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// RequestMeta carries transport details a service may need to stamp on a record.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

// SortOrder selects the creation-time ordering of list queries.
type SortOrder int

const (
	SortNewestFirst SortOrder = 0
	SortOldestFirst SortOrder = 1
)

// Valid reports whether the order is one of the known values.
func (o SortOrder) Valid() bool {
	return o == SortNewestFirst || o == SortOldestFirst
}
