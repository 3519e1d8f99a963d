package dish

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"mealflow/pkg/otel"
	"mealflow/pkg/pipeline"
	"mealflow/pkg/storage"
)

// Handler serves the /dishes routes. Each operation runs its guard chain
// before touching the repository, so a rejected request never mutates it.
type Handler struct {
	repo   storage.Repository[Dish]
	log    *zap.Logger
	create pipeline.Chain[Payload, Dish]
	read   pipeline.Chain[Payload, Dish]
	update pipeline.Chain[Payload, Dish]
}

// NewHandler builds the handler and its per-operation guard chains.
func NewHandler(repo storage.Repository[Dish], log *zap.Logger) *Handler {
	h := &Handler{repo: repo, log: log}
	h.create = append(pipeline.Chain[Payload, Dish]{}, requireFields()...)
	h.create = append(h.create, priceValid)
	h.read = pipeline.Chain[Payload, Dish]{h.exists}
	h.update = pipeline.Chain[Payload, Dish]{h.exists}
	h.update = append(h.update, requireFields()...)
	h.update = append(h.update, priceValid, idMatch)
	return h
}

// Register mounts the dish routes on the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/dishes", h.List).Methods(http.MethodGet)
	r.HandleFunc("/dishes", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/dishes/{dishId}", h.Read).Methods(http.MethodGet)
	r.HandleFunc("/dishes/{dishId}", h.Update).Methods(http.MethodPut)
}

// exists looks up the route id and stashes the dish for the terminal
// handler.
func (h *Handler) exists(req *request) *pipeline.Error {
	d, err := h.repo.Get(req.Ctx, req.RouteID)
	if errors.Is(err, storage.ErrNotFound) {
		return pipeline.NotFound("Dish id not found: %s", req.RouteID)
	}
	if err != nil {
		return pipeline.Internal(err)
	}
	req.Entity = &d
	return nil
}

// List returns every dish.
// @Summary List dishes
// @Produce json
// @Success 200 {array} dish.Dish
// @Router /dishes [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listDishes")
	defer span.End()

	dishes, err := h.repo.List(ctx)
	if err != nil {
		h.log.Error("list dishes", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		pipeline.RespondError(w, pipeline.Internal(err))
		return
	}
	if dishes == nil {
		dishes = []Dish{}
	}
	pipeline.Respond(w, http.StatusOK, dishes)
}

// Create validates and stores a new dish.
// @Summary Create dish
// @Accept json
// @Produce json
// @Param dish body dish.Payload true "Dish"
// @Success 201 {object} dish.Dish
// @Failure 400 {object} pipeline.Error
// @Router /dishes [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createDish")
	defer span.End()

	body, perr := pipeline.Decode[Payload](r)
	if perr != nil {
		pipeline.RespondError(w, perr)
		return
	}
	req := &request{Ctx: ctx, Body: body}
	if err := h.create.Run(req); err != nil {
		pipeline.RespondError(w, err)
		return
	}

	price, _ := body.Price.Int64()
	d := Dish{
		ID:          uuid.NewString(),
		Name:        body.Name,
		Description: body.Description,
		Price:       int(price),
		ImageURL:    body.ImageURL,
	}
	if err := h.repo.Create(ctx, d); err != nil {
		h.log.Error("create dish", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		pipeline.RespondError(w, pipeline.Internal(err))
		return
	}
	pipeline.Respond(w, http.StatusCreated, d)
}

// Read returns one dish by id.
// @Summary Get dish
// @Produce json
// @Param dishId path string true "Dish ID"
// @Success 200 {object} dish.Dish
// @Failure 404 {object} pipeline.Error
// @Router /dishes/{dishId} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "readDish")
	defer span.End()

	req := &request{Ctx: ctx, RouteID: mux.Vars(r)["dishId"]}
	if err := h.read.Run(req); err != nil {
		pipeline.RespondError(w, err)
		return
	}
	pipeline.Respond(w, http.StatusOK, req.Entity)
}

// Update overwrites a dish's fields, preserving its id.
// @Summary Update dish
// @Accept json
// @Produce json
// @Param dishId path string true "Dish ID"
// @Param dish body dish.Payload true "Dish"
// @Success 200 {object} dish.Dish
// @Failure 400 {object} pipeline.Error
// @Failure 404 {object} pipeline.Error
// @Router /dishes/{dishId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateDish")
	defer span.End()

	body, perr := pipeline.Decode[Payload](r)
	if perr != nil {
		pipeline.RespondError(w, perr)
		return
	}
	req := &request{Ctx: ctx, RouteID: mux.Vars(r)["dishId"], Body: body}
	if err := h.update.Run(req); err != nil {
		pipeline.RespondError(w, err)
		return
	}

	price, _ := body.Price.Int64()
	d := *req.Entity
	d.Name = body.Name
	d.Description = body.Description
	d.Price = int(price)
	d.ImageURL = body.ImageURL
	if err := h.repo.Update(ctx, d); err != nil {
		h.log.Error("update dish", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		pipeline.RespondError(w, pipeline.Internal(err))
		return
	}
	pipeline.Respond(w, http.StatusOK, d)
}
