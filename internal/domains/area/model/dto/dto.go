package dto

import (
	"github.com/google/uuid"

	"condo/internal/domains/area/model"
	"condo/shared"
	gDto "condo/shared/dto"
	"condo/shared/failure"
	gModel "condo/shared/model"
	"condo/shared/timezone"
)

type CreateAreaRequest struct {
	Name     string `json:"name"      validate:"required,max=100"`
	Location string `json:"location"  validate:"omitempty,max=100"`
	Capacity int    `json:"capacity"  validate:"required,min=1"`
	OpensAt  string `json:"opens_at"  validate:"required,clock"`
	ClosesAt string `json:"closes_at" validate:"required,clock"`
	Active   *bool  `json:"active"    validate:"omitempty"`
}

// Validate enforces the rules not expressible as struct tags. An overnight
// window (closes_at below opens_at) is valid; an empty one is not.
func (c *CreateAreaRequest) Validate() error {
	if c.OpensAt == c.ClosesAt {
		return failure.BadRequestFromString("opens_at and closes_at must differ") //nolint:wrapcheck
	}

	return nil
}

func (c *CreateAreaRequest) ToModel(user string) model.Area {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Area{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Location: c.Location,
		Capacity: c.Capacity,
		OpensAt:  c.OpensAt,
		ClosesAt: c.ClosesAt,
		Active:   active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateAreaRequest struct {
	Name     string `db:"name"      json:"name"      validate:"omitempty,max=100"`
	Location string `db:"location"  json:"location"  validate:"omitempty,max=100"`
	Capacity *int   `db:"capacity"  json:"capacity"  validate:"omitempty,min=1"`
	OpensAt  string `db:"opens_at"  json:"opens_at"  validate:"omitempty,clock"`
	ClosesAt string `db:"closes_at" json:"closes_at" validate:"omitempty,clock"`
	Active   *bool  `db:"active"    json:"active"    validate:"omitempty"`
}

type AreaResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *AreaResponse) FromModel(model model.Area) {
	r.ID = model.ID
	r.Name = model.Name
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.OpensAt = model.OpensAt
	r.ClosesAt = model.ClosesAt
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetAreasResponse struct {
	Areas     []AreaResponse `json:"areas"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetAreasResponse) FromModels(models []model.Area, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Areas = make([]AreaResponse, len(models))
	for i, mod := range models {
		r.Areas[i].FromModel(mod)
	}
}
