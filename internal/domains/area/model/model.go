package model

import "condo/shared/model"

const (
	TableName  = "common_areas"
	EntityName = "area"

	FieldID       = "id"
	FieldName     = "name"
	FieldLocation = "location"
	FieldCapacity = "capacity"
	FieldOpensAt  = "opens_at"
	FieldClosesAt = "closes_at"
	FieldActive   = "active"
)

// Area is a bookable shared facility. OpensAt and ClosesAt are wall-clock
// "HH:MM" values; ClosesAt numerically at or below OpensAt means the
// operating window runs past midnight.
type Area struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Location string `db:"location"`
	Capacity int    `db:"capacity"`
	OpensAt  string `db:"opens_at"`
	ClosesAt string `db:"closes_at"`
	Active   bool   `db:"active"`
	model.Metadata
}
