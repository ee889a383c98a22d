package dto

import (
	"github.com/google/uuid"

	"condo/internal/domains/reservation/model"
	"condo/shared"
	gDto "condo/shared/dto"
	gModel "condo/shared/model"
	"condo/shared/timezone"
)

type CreateReservationRequest struct {
	AreaID string `json:"area_id" validate:"required"`
	// ResidentID is optional; administrators set it when booking on behalf
	// of a resident, otherwise the acting identity owns the booking.
	ResidentID string `json:"resident_id" validate:"omitempty"`
	Date       string `json:"date"        validate:"required,bookdate"`
	StartTime  string `json:"start_time"  validate:"required,clock"`
	EndTime    string `json:"end_time"    validate:"required,clock"`
}

func (c *CreateReservationRequest) ToModel(residentID, status, user string) model.Reservation {
	return model.Reservation{
		ID:         uuid.NewString(),
		AreaID:     c.AreaID,
		ResidentID: residentID,
		Date:       c.Date,
		StartTime:  c.StartTime,
		EndTime:    c.EndTime,
		Status:     status,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// RescheduleReservationRequest moves a pending reservation to a new window.
// Area and owner are immutable, so only the window fields appear here.
type RescheduleReservationRequest struct {
	Date      string `db:"date"       json:"date"       validate:"required,bookdate"`
	StartTime string `db:"start_time" json:"start_time" validate:"required,clock"`
	EndTime   string `db:"end_time"   json:"end_time"   validate:"required,clock"`
}

type ReservationResponse struct {
	ID         string `json:"id"`
	AreaID     string `json:"area_id"`
	ResidentID string `json:"resident_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Status     string `json:"status"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.AreaID = model.AreaID
	r.ResidentID = model.ResidentID
	r.Date = model.Date
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
