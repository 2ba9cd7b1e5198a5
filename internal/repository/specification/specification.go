package specification

import "gorm.io/gorm"

// Specification narrows or orders a query. Repositories chain any number
// of them onto a base statement.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// ApplyAll applies every specification to the statement in order.
func ApplyAll(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, s := range specs {
		db = s.Apply(db)
	}
	return db
}
