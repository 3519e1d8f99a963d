package order

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

// Handler serves the /orders routes. Each operation runs its guard chain
// before touching the repository, so a rejected request never mutates it.
type Handler struct {
	repo   storage.Repository[Order]
	log    *zap.Logger
	create pipeline.Chain[Payload, Order]
	read   pipeline.Chain[Payload, Order]
	update pipeline.Chain[Payload, Order]
	delete pipeline.Chain[Payload, Order]
}

// NewHandler builds the handler and its per-operation guard chains.
func NewHandler(repo storage.Repository[Order], log *zap.Logger) *Handler {
	h := &Handler{repo: repo, log: log}
	h.create = append(pipeline.Chain[Payload, Order]{}, requireFields()...)
	h.create = append(h.create, dishesNotEmpty, quantityValid)
	h.read = pipeline.Chain[Payload, Order]{h.exists}
	h.update = pipeline.Chain[Payload, Order]{h.exists}
	h.update = append(h.update, requireFields()...)
	h.update = append(h.update, dishesNotEmpty, quantityValid, idMatch, statusValid, notDelivered)
	h.delete = pipeline.Chain[Payload, Order]{h.exists, pendingOnly}
	return h
}

// Register mounts the order routes on the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/orders", h.List).Methods(http.MethodGet)
	r.HandleFunc("/orders", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/orders/{orderId}", h.Read).Methods(http.MethodGet)
	r.HandleFunc("/orders/{orderId}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/orders/{orderId}", h.Delete).Methods(http.MethodDelete)
}

// exists looks up the route id and stashes the order for the guards and
// terminal handler downstream.
func (h *Handler) exists(req *request) *pipeline.Error {
	o, err := h.repo.Get(req.Ctx, req.RouteID)
	if errors.Is(err, storage.ErrNotFound) {
		return pipeline.NotFound("Order id not found: %s", req.RouteID)
	}
	if err != nil {
		return pipeline.Internal(err)
	}
	req.Entity = &o
	return nil
}

// List returns every order.
// @Summary List orders
// @Produce json
// @Success 200 {array} order.Order
// @Router /orders [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrders")
	defer span.End()

	orders, err := h.repo.List(ctx)
	if err != nil {
		h.log.Error("list orders", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		pipeline.RespondError(w, pipeline.Internal(err))
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	pipeline.Respond(w, http.StatusOK, orders)
}

// Create validates and stores a new order. New orders start pending.
// @Summary Create order
// @Accept json
// @Produce json
// @Param order body order.Payload true "Order"
// @Success 201 {object} order.Order
// @Failure 400 {object} pipeline.Error
// @Router /orders [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createOrder")
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

	o := Order{
		ID:           uuid.NewString(),
		DeliverTo:    body.DeliverTo,
		MobileNumber: body.MobileNumber,
		Status:       StatusPending,
		Dishes:       items(body.Dishes),
	}
	if err := h.repo.Create(ctx, o); err != nil {
		h.log.Error("create order", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		pipeline.RespondError(w, pipeline.Internal(err))
		return
	}
	pipeline.Respond(w, http.StatusCreated, o)
}

// Read returns one order by id.
// @Summary Get order
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} order.Order
// @Failure 404 {object} pipeline.Error
// @Router /orders/{orderId} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "readOrder")
	defer span.End()

	req := &request{Ctx: ctx, RouteID: mux.Vars(r)["orderId"]}
	if err := h.read.Run(req); err != nil {
		pipeline.RespondError(w, err)
		return
	}
	pipeline.Respond(w, http.StatusOK, req.Entity)
}

// Update overwrites an order's fields, preserving its id and persisting
// the validated status.
// @Summary Update order
// @Accept json
// @Produce json
// @Param orderId path string true "Order ID"
// @Param order body order.Payload true "Order"
// @Success 200 {object} order.Order
// @Failure 400 {object} pipeline.Error
// @Failure 404 {object} pipeline.Error
// @Router /orders/{orderId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateOrder")
	defer span.End()

	body, perr := pipeline.Decode[Payload](r)
	if perr != nil {
		pipeline.RespondError(w, perr)
		return
	}
	req := &request{Ctx: ctx, RouteID: mux.Vars(r)["orderId"], Body: body}
	if err := h.update.Run(req); err != nil {
		pipeline.RespondError(w, err)
		return
	}

	o := *req.Entity
	o.DeliverTo = body.DeliverTo
	o.MobileNumber = body.MobileNumber
	o.Status = body.Status
	o.Dishes = items(body.Dishes)
	if err := h.repo.Update(ctx, o); err != nil {
		h.log.Error("update order", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		pipeline.RespondError(w, pipeline.Internal(err))
		return
	}
	pipeline.Respond(w, http.StatusOK, o)
}

// Delete removes a pending order.
// @Summary Delete order
// @Param orderId path string true "Order ID"
// @Success 204
// @Failure 400 {object} pipeline.Error
// @Failure 404 {object} pipeline.Error
// @Router /orders/{orderId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteOrder")
	defer span.End()

	req := &request{Ctx: ctx, RouteID: mux.Vars(r)["orderId"]}
	if err := h.delete.Run(req); err != nil {
		pipeline.RespondError(w, err)
		return
	}
	if err := h.repo.Delete(ctx, req.RouteID); err != nil {
		h.log.Error("delete order", zap.Error(err), zap.String("trace_id", otel.GetTraceID(ctx)))
		pipeline.RespondError(w, pipeline.Internal(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
