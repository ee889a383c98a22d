package area

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"condo/infras/otel"
	"condo/internal/domains/area/model"
	"condo/internal/domains/area/model/dto"
	"condo/internal/domains/area/service"
	"condo/shared"
	"condo/shared/constant"
	gDto "condo/shared/dto"
	"condo/shared/validator"
	"condo/transport/http/response"
)

type Handler struct {
	service service.Area
	otel    otel.Otel
}

func New(service service.Area, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/areas", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateArea)
		routerGroup.Get("/", handler.GetAreas)
		routerGroup.Get("/enabled", handler.GetEnabledAreas)
		routerGroup.Get("/{id}", handler.GetAreaByID)
		routerGroup.Patch("/{id}", handler.UpdateArea)
		routerGroup.Post("/{id}/disable", handler.DisableArea)
	})
}

// CreateArea registers a new bookable common area.
// @Summary Create a new common area
// @Description Register a common area with its operating hours and capacity.
// @Tags Area
// @Accept json
// @Produce json
// @Param request body dto.CreateAreaRequest true "Area details"
// @Success 201 {object} response.Data[dto.AreaResponse] "Area created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas [post]
// @Security BearerAuth
func (handler *Handler) CreateArea(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateArea")
	defer scope.End()

	var req dto.CreateAreaRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	area, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create area")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Area created successfully")

	response.WithJSON(w, http.StatusCreated, area)
}

// GetAreas retrieves all common areas based on query parameters.
// @Summary Get all common areas
// @Description Retrieve all common areas with optional filtering and pagination.
// @Tags Area
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param location query string false "Filter by location"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetAreasResponse] "List of areas"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas [get]
// @Security BearerAuth
func (handler *Handler) GetAreas(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAreas")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldName),
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldLocation,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldLocation),
				Table:    model.TableName,
			},
		},
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	areas, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get areas")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Areas retrieved successfully")

	response.WithJSON(w, http.StatusOK, areas)
}

// GetEnabledAreas lists every area currently accepting reservations.
// @Summary Get enabled areas
// @Description Retrieve every active area, unpaginated, for booking forms.
// @Tags Area
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[[]dto.AreaResponse] "List of enabled areas"
// @Failure 500 {object} response.Error
// @Router /v1/areas/enabled [get]
// @Security BearerAuth
func (handler *Handler) GetEnabledAreas(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEnabledAreas")
	defer scope.End()

	areas, err := handler.service.ListEnabled(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list enabled areas")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Enabled areas retrieved successfully")

	response.WithJSON(w, http.StatusOK, areas)
}

// GetAreaByID retrieves an area by its ID.
// @Summary Get an area by ID
// @Description Retrieve a common area by its unique identifier.
// @Tags Area
// @Accept json
// @Produce json
// @Param id path string true "Area ID"
// @Success 200 {object} response.Data[dto.AreaResponse] "Area details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetAreaByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAreaByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	area, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get area by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Area retrieved successfully")

	response.WithJSON(w, http.StatusOK, area)
}

// UpdateArea updates an existing area by its ID.
// @Summary Update an area by ID
// @Description Update the details or operating hours of an existing area.
// @Tags Area
// @Accept json
// @Produce json
// @Param id path string true "Area ID"
// @Param request body dto.UpdateAreaRequest true "Fields to update"
// @Success 200 {object} response.Message "Area updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateArea(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateArea")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	var req dto.UpdateAreaRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update area")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Area updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Area updated successfully")
}

// DisableArea stops an area from accepting new reservations.
// @Summary Disable an area
// @Description Mark an area as inactive. Existing reservations are untouched.
// @Tags Area
// @Accept json
// @Produce json
// @Param id path string true "Area ID"
// @Success 200 {object} response.Message "Area disabled successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas/{id}/disable [post]
// @Security BearerAuth
func (handler *Handler) DisableArea(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DisableArea")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Disable(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to disable area")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Area disabled successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Area disabled successfully")
}
