package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"condo/config"
	"condo/infras/metrics"
	"condo/infras/otel"
	aModel "condo/internal/domains/area/model"
	aRepository "condo/internal/domains/area/repository"
	"condo/internal/domains/reservation/model"
	"condo/internal/domains/reservation/model/dto"
	"condo/internal/domains/reservation/policy"
	"condo/internal/domains/reservation/repository"
	"condo/internal/domains/reservation/schedule"
	"condo/internal/events"
	"condo/shared"
	"condo/shared/cache"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/failure"
	"condo/shared/lock"
	"condo/shared/timezone"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

// Reservation drives the booking lifecycle: pending on resident creation,
// confirmed on admin creation or approval, cancelled or completed as terminal
// states. Every mutation that could double-book runs its read-check-persist
// step under the area's exclusive lock, so overlap checks for one area are
// serialized while different areas proceed concurrently.
type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Reschedule(ctx context.Context, req dto.RescheduleReservationRequest, id string) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id string) error
	Confirm(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	SweepCompletions(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo      repository.Reservation
	areaRepo  aRepository.Area
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	locks     *lock.Keyed
	publisher events.Publisher
}

func New(
	repo repository.Reservation,
	areaRepo aRepository.Area,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	locks *lock.Keyed,
	publisher events.Publisher,
) Reservation {
	return &serviceImpl{
		repo:      repo,
		areaRepo:  areaRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		locks:     locks,
		publisher: publisher,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	residentID := req.ResidentID
	if residentID == constant.Empty {
		residentID = actor
	}

	if err = policy.CanCreate(role, actor, residentID); err != nil {
		return res, err
	}

	area, err := s.getArea(ctx, req.AreaID)
	if err != nil {
		return res, err
	}

	if !area.Active {
		return res, failure.BadRequestFromString("area is not accepting new reservations") //nolint:wrapcheck
	}

	window := schedule.Window{OpensAt: area.OpensAt, ClosesAt: area.ClosesAt}

	candidate, err := window.Resolve(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return res, failure.BadRequestFromString(err.Error()) //nolint:wrapcheck
	}

	release, err := s.lockArea(ctx, area.ID)
	if err != nil {
		return res, err
	}
	defer release()

	if err = s.checkConflict(ctx, window, candidate, area.ID, constant.Empty); err != nil {
		return res, err
	}

	reservation := req.ToModel(residentID, policy.InitialStatus(role), actor)

	if err = s.repo.Insert(ctx, reservation); err != nil {
		log.Error().Err(err).Msg("failed to create reservation")

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	metrics.IncReservation("create", "success")
	s.publisher.ReservationChanged(ctx, events.TypeReservationCreated, reservation)
	s.invalidate(ctx, reservation.ID)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Reschedule(ctx context.Context, req dto.RescheduleReservationRequest, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if err = policy.CanReschedule(role, actor, reservation); err != nil {
		return res, err
	}

	if reservation.Status != model.StatusPending {
		return res, failure.InvalidState("only pending reservations can be rescheduled") //nolint:wrapcheck
	}

	area, err := s.getArea(ctx, reservation.AreaID)
	if err != nil {
		return res, err
	}

	window := schedule.Window{OpensAt: area.OpensAt, ClosesAt: area.ClosesAt}

	candidate, err := window.Resolve(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return res, failure.BadRequestFromString(err.Error()) //nolint:wrapcheck
	}

	release, err := s.lockArea(ctx, area.ID)
	if err != nil {
		return res, err
	}
	defer release()

	// The status read above raced anything that held the lock first, so
	// re-read before touching the row. A concurrent cancel must win.
	reservation, err = s.getReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if reservation.Status != model.StatusPending {
		return res, failure.InvalidState("only pending reservations can be rescheduled") //nolint:wrapcheck
	}

	if err = s.checkConflict(ctx, window, candidate, area.ID, reservation.ID); err != nil {
		return res, err
	}

	fields := shared.TransformFields(req, actor)
	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to reschedule reservation")

		return res, fmt.Errorf("failed to reschedule reservation: %w", err)
	}

	reservation.Date = req.Date
	reservation.StartTime = req.StartTime
	reservation.EndTime = req.EndTime

	metrics.IncReservation("reschedule", "success")
	s.publisher.ReservationChanged(ctx, events.TypeReservationRescheduled, reservation)
	s.invalidate(ctx, reservation.ID)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return err
	}

	// A second cancel, or cancelling a completed booking, is a state error
	// rather than a denial: the caller had the right, the record moved on.
	if reservation.IsTerminal() {
		return failure.InvalidState(fmt.Sprintf("reservation is already %s", reservation.Status)) //nolint:wrapcheck
	}

	if err = policy.CanCancel(role, actor, reservation); err != nil {
		return err
	}

	if err = s.transition(ctx, &reservation, model.StatusCancelled, actor); err != nil {
		return err
	}

	metrics.IncReservation("cancel", "success")
	s.publisher.ReservationChanged(ctx, events.TypeReservationCancelled, reservation)
	s.invalidate(ctx, reservation.ID)

	return nil
}

func (s *serviceImpl) Confirm(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if err = policy.CanConfirm(role); err != nil {
		return err
	}

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return err
	}

	if reservation.Status != model.StatusPending {
		return failure.InvalidState("only pending reservations can be confirmed") //nolint:wrapcheck
	}

	if err = s.transition(ctx, &reservation, model.StatusConfirmed, actor); err != nil {
		return err
	}

	metrics.IncReservation("confirm", "success")
	s.publisher.ReservationChanged(ctx, events.TypeReservationConfirmed, reservation)
	s.invalidate(ctx, reservation.ID)

	return nil
}

func (s *serviceImpl) Complete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if err = policy.CanComplete(role); err != nil {
		return err
	}

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return err
	}

	if reservation.Status != model.StatusConfirmed {
		return failure.InvalidState("only confirmed reservations can be completed") //nolint:wrapcheck
	}

	area, err := s.getArea(ctx, reservation.AreaID)
	if err != nil {
		return err
	}

	window := schedule.Window{OpensAt: area.OpensAt, ClosesAt: area.ClosesAt}

	interval, err := window.Resolve(reservation.Date, reservation.StartTime, reservation.EndTime)
	if err != nil {
		return failure.BadRequestFromString(err.Error()) //nolint:wrapcheck
	}

	if interval.End.After(wallClock()) {
		return failure.InvalidState("reservation window has not elapsed yet") //nolint:wrapcheck
	}

	if err = s.transition(ctx, &reservation, model.StatusCompleted, actor); err != nil {
		return err
	}

	metrics.IncReservation("complete", "success")
	s.publisher.ReservationChanged(ctx, events.TypeReservationCompleted, reservation)
	s.invalidate(ctx, reservation.ID)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		if role == constant.RoleResident && res.ResidentID != actor {
			return dto.ReservationResponse{}, failure.Forbidden("residents may only view their own reservations") //nolint:wrapcheck
		}

		return res, nil
	}

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if role == constant.RoleResident && reservation.ResidentID != actor {
		return res, failure.Forbidden("residents may only view their own reservations") //nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

// SweepCompletions moves every confirmed reservation whose window has fully
// elapsed to completed. The worker calls this on a ticker; the number of
// reservations completed is returned for logging. Rows whose area is gone or
// whose window no longer parses are skipped, not failed, so one bad row never
// stalls the sweep.
func (s *serviceImpl) SweepCompletions(ctx context.Context) (completed int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".SweepCompletions")
	defer scope.End()
	defer scope.TraceIfError(err)

	confirmed, err := s.repo.ListByStatus(ctx, model.StatusConfirmed)
	if err != nil {
		log.Error().Err(err).Msg("failed to list confirmed reservations")

		return 0, fmt.Errorf("failed to list confirmed reservations: %w", err)
	}

	now := wallClock()
	windows := make(map[string]schedule.Window)

	for _, reservation := range confirmed {
		window, ok := windows[reservation.AreaID]
		if !ok {
			area, areaErr := s.areaRepo.Get(ctx, shared.FilterByID(reservation.AreaID, aModel.FieldID, aModel.TableName))
			if areaErr != nil || area.ID == constant.Empty {
				log.Error().Err(areaErr).Str("area_id", reservation.AreaID).Msg("failed to load area during completion sweep")

				continue
			}

			window = schedule.Window{OpensAt: area.OpensAt, ClosesAt: area.ClosesAt}
			windows[reservation.AreaID] = window
		}

		interval, resolveErr := window.Resolve(reservation.Date, reservation.StartTime, reservation.EndTime)
		if resolveErr != nil {
			log.Error().Err(resolveErr).Str("reservation_id", reservation.ID).Msg("reservation window no longer resolves, skipping")

			continue
		}

		if interval.End.After(now) {
			continue
		}

		res := reservation
		if transitionErr := s.transition(ctx, &res, model.StatusCompleted, "system"); transitionErr != nil {
			log.Error().Err(transitionErr).Str("reservation_id", res.ID).Msg("failed to complete reservation during sweep")

			continue
		}

		metrics.IncReservation("complete", "sweep")
		s.publisher.ReservationChanged(ctx, events.TypeReservationCompleted, res)
		s.invalidate(ctx, res.ID)

		completed++
	}

	return completed, nil
}

// wallClock returns the configured timezone's wall clock rebuilt as a naive
// UTC instant, matching how stored dates and clocks parse.
func wallClock() time.Time {
	local := timezone.Now()

	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), 0, time.UTC)
}

// lockArea takes the area's exclusive lock with the configured timeout.
// Timing out is reported as retryable contention, not as a hard failure.
func (s *serviceImpl) lockArea(ctx context.Context, areaID string) (func(), error) {
	timeout := time.Duration(s.cfg.Scheduler.LockTimeoutMillis) * time.Millisecond

	release, err := s.locks.Acquire(ctx, areaID, timeout)
	if err != nil {
		metrics.IncContention()
		log.Warn().Err(err).Str("area_id", areaID).Msg("timed out waiting for area lock")

		return nil, failure.Locked("the area is busy with another booking, retry shortly") //nolint:wrapcheck
	}

	return release, nil
}

// checkConflict loads the area's live reservations and rejects the candidate
// when it overlaps any of them. Callers hold the area lock.
func (s *serviceImpl) checkConflict(ctx context.Context, window schedule.Window, candidate schedule.Interval, areaID, excludeID string) error {
	existing, err := s.repo.ListByArea(ctx, areaID, false)
	if err != nil {
		log.Error().Err(err).Msg("failed to list reservations for conflict check")

		return fmt.Errorf("failed to list reservations for conflict check: %w", err)
	}

	if schedule.HasConflict(window, candidate, existing, excludeID) {
		metrics.IncConflict()

		return failure.Conflict("the requested window overlaps an existing reservation") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) transition(ctx context.Context, reservation *model.Reservation, status, actor string) error {
	fields := shared.TransformFields(struct {
		Status string `db:"status"`
	}{Status: status}, actor)

	if err := s.repo.Update(ctx, fields, shared.FilterByID(reservation.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("status", status).Msg("failed to update reservation status")

		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	reservation.Status = status

	return nil
}

func (s *serviceImpl) getReservation(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	return reservation, nil
}

func (s *serviceImpl) getArea(ctx context.Context, id string) (aModel.Area, error) {
	area, err := s.areaRepo.Get(ctx, shared.FilterByID(id, aModel.FieldID, aModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get area for reservation")

		return area, fmt.Errorf("failed to get area for reservation: %w", err)
	}

	if area.ID == constant.Empty {
		return area, failure.NotFound("area not found") //nolint:wrapcheck
	}

	return area, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}
