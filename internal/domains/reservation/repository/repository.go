package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"condo/infras/otel"
	"condo/infras/postgres"
	"condo/internal/domains/reservation/model"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	gRepo "condo/shared/repository"
)

// Reservation is the durable store of booking records. Rows are never
// deleted; cancellation and completion are status updates, keeping the
// booking history intact.
type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	ListByArea(ctx context.Context, areaID string, includeCancelled bool) ([]model.Reservation, error)
	ListByStatus(ctx context.Context, status string) ([]model.Reservation, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ListByArea returns every reservation for an area, ordered by date and start
// time. The conflict check reads this with cancelled rows excluded.
func (repo *repositoryImpl) ListByArea(ctx context.Context, areaID string, includeCancelled bool) ([]model.Reservation, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAreaID,
				Operator: gDto.FilterOperatorEq,
				Value:    areaID,
				Table:    model.TableName,
			},
		},
	}

	if !includeCancelled {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorNotEq,
			Value:    model.StatusCancelled,
			Table:    model.TableName,
		})
	}

	return repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldDate, SortDir: gDto.SortDirAsc}, filter) //nolint:wrapcheck
}

// ListByStatus returns every reservation in the given status, oldest first.
// The completion sweep reads confirmed rows through this.
func (repo *repositoryImpl) ListByStatus(ctx context.Context, status string) ([]model.Reservation, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    status,
				Table:    model.TableName,
			},
		},
	}

	return repo.GetAll(ctx, gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}, filter) //nolint:wrapcheck
}
