package specification

import "gorm.io/gorm"

// Specification narrows a query. Repositories apply them in order, so
// ordering and pagination specs go last.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
