package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"condo/config"
	"condo/infras/otel"
	"condo/internal/domains/area/model"
	"condo/internal/domains/area/model/dto"
	"condo/internal/domains/area/repository"
	"condo/shared"
	"condo/shared/cache"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"
)

const (
	cacheGetArea    = "area:get"
	cacheGetAllArea = "area:gets"
	cacheCountArea  = "area:count"
)

// Area is the catalog of bookable common areas. Mutations are restricted to
// administrators at the transport layer; disabling an area never touches the
// reservations already made for it.
type Area interface {
	Create(ctx context.Context, req dto.CreateAreaRequest) (dto.AreaResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAreasResponse, error)
	ListEnabled(ctx context.Context) ([]dto.AreaResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.AreaResponse, error)
	Update(ctx context.Context, req dto.UpdateAreaRequest, id string) error
	Disable(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Area
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Area, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Area {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAreaRequest) (res dto.AreaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = req.Validate(); err != nil {
		return res, err
	}

	taken, err := s.repo.Exist(ctx, filterByName(req.Name))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if area name is taken")

		return res, fmt.Errorf("failed to check if area name is taken: %w", err)
	}

	if taken {
		return res, failure.Conflict("an area with this name already exists") //nolint:wrapcheck
	}

	area := req.ToModel(user)

	if err = s.repo.Insert(ctx, area); err != nil {
		log.Error().Err(err).Msg("failed to create area")

		return res, fmt.Errorf("failed to create area: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllArea)
		shared.InvalidateCaches(c, s.cache, cacheCountArea)
	}()

	res.FromModel(area)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAreasResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllArea, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for areas")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count areas")

		return res, fmt.Errorf("failed to count areas: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get areas")

		return res, fmt.Errorf("failed to get areas: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save areas to cache")
		}
	}()

	return res, nil
}

// ListEnabled returns every active area, unpaginated, for the booking forms.
func (s *serviceImpl) ListEnabled(ctx context.Context) (res []dto.AreaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListEnabled")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list enabled areas")

		return res, fmt.Errorf("failed to list enabled areas: %w", err)
	}

	res = make([]dto.AreaResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountArea, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for area count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count areas")

		return res, fmt.Errorf("failed to count areas: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save area count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AreaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetArea, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for area")

		return res, nil
	}

	area, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get area")

		return res, fmt.Errorf("failed to get area: %w", err)
	}

	if area.ID == constant.Empty {
		return res, failure.NotFound("area not found") //nolint:wrapcheck
	}

	res.FromModel(area)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save area to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAreaRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateAreaRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get area for update")

		return fmt.Errorf("failed to get area for update: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("area not found") //nolint:wrapcheck
	}

	// The operating window must stay non-empty after a partial update.
	opensAt := current.OpensAt
	if req.OpensAt != constant.Empty {
		opensAt = req.OpensAt
	}

	closesAt := current.ClosesAt
	if req.ClosesAt != constant.Empty {
		closesAt = req.ClosesAt
	}

	if opensAt == closesAt {
		return failure.BadRequestFromString("opens_at and closes_at must differ") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update area")

		return fmt.Errorf("failed to update area: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Disable soft-disables an area. Existing reservations stay valid; only new
// bookings are rejected. Areas are never deleted.
func (s *serviceImpl) Disable(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Disable")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if area exists")

		return fmt.Errorf("failed to check if area exists: %w", err)
	}

	if !exist {
		return failure.NotFound("area not found") //nolint:wrapcheck
	}

	fields := shared.TransformFields(struct {
		Active *bool `db:"active"`
	}{Active: boolPtr(false)}, user)

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to disable area")

		return fmt.Errorf("failed to disable area: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetArea, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete area from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllArea)
		shared.InvalidateCaches(c, s.cache, cacheCountArea)
	}()
}

func filterByName(name string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Value:    name,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}
