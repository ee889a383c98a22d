package model

import "condo/shared/model"

const (
	TableName  = "area_reservations"
	EntityName = "reservation"

	FieldID         = "id"
	FieldAreaID     = "area_id"
	FieldResidentID = "resident_id"
	FieldDate       = "date"
	FieldStartTime  = "start_time"
	FieldEndTime    = "end_time"
	FieldStatus     = "status"
)

// Reservation statuses. Pending and confirmed are live; cancelled and
// completed are terminal. A cancelled reservation keeps its row for audit.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Reservation books one Area for the window [date+start_time, date'+end_time).
// An end_time at or before start_time means the window runs into the next
// calendar day. AreaID and ResidentID never change after creation.
type Reservation struct {
	ID         string `db:"id"`
	AreaID     string `db:"area_id"`
	ResidentID string `db:"resident_id"`
	Date       string `db:"date"`
	StartTime  string `db:"start_time"`
	EndTime    string `db:"end_time"`
	Status     string `db:"status"`
	model.Metadata
}

// IsTerminal reports whether the reservation can no longer transition.
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCancelled || r.Status == StatusCompleted
}
