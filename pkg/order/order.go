// Package order implements the /orders resource: model, lifecycle guards,
// and HTTP handlers.
package order

import (
	"encoding/json"

	"mealflow/pkg/pipeline"
)

// Status is an order's lifecycle state.
type Status string

const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelivered      Status = "delivered"
)

// Valid reports whether s is one of the four lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusOutForDelivery, StatusDelivered:
		return true
	}
	return false
}

// LineItem is one dish entry on an order. The dish fields beyond DishID are
// optional denormalized copies supplied by the client.
type LineItem struct {
	DishID      string `json:"dishId"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Price       int    `json:"price,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Quantity    int    `json:"quantity"`
}

// Order is a delivery order. New orders start out pending; a delivered
// order can no longer be changed, and only a pending one may be deleted.
type Order struct {
	ID           string     `json:"id"`
	DeliverTo    string     `json:"deliverTo"`
	MobileNumber string     `json:"mobileNumber"`
	Status       Status     `json:"status"`
	Dishes       []LineItem `json:"dishes"`
}

// Payload is the write-request body under "data".
type Payload struct {
	ID           string        `json:"id"`
	DeliverTo    string        `json:"deliverTo"`
	MobileNumber string        `json:"mobileNumber"`
	Status       Status        `json:"status"`
	Dishes       []ItemPayload `json:"dishes"`
}

// ItemPayload defers quantity parsing to the quantity guard, so a
// non-integer value gets the proper rejection message instead of a decode
// error.
type ItemPayload struct {
	DishID      string      `json:"dishId"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	ImageURL    string      `json:"image_url"`
	Quantity    json.Number `json:"quantity"`
}

type request = pipeline.Request[Payload, Order]

func requireFields() []pipeline.Guard[Payload, Order] {
	return []pipeline.Guard[Payload, Order]{
		pipeline.Require[Payload, Order]("Order", "deliverTo", func(p Payload) bool { return p.DeliverTo != "" }),
		pipeline.Require[Payload, Order]("Order", "mobileNumber", func(p Payload) bool { return p.MobileNumber != "" }),
		pipeline.Require[Payload, Order]("Order", "dishes", func(p Payload) bool { return p.Dishes != nil }),
	}
}

// dishesNotEmpty rejects an order with no line items.
func dishesNotEmpty(req *request) *pipeline.Error {
	if len(req.Body.Dishes) == 0 {
		return pipeline.Invalid("Order must include at least one dish")
	}
	return nil
}

// quantityValid rejects the first line item whose quantity is missing,
// non-integer, or not greater than zero.
func quantityValid(req *request) *pipeline.Error {
	for i, it := range req.Body.Dishes {
		q, err := it.Quantity.Int64()
		if err != nil || q <= 0 {
			return pipeline.Invalid("Dish %d must have a quantity that is an integer greater than 0", i)
		}
	}
	return nil
}

// idMatch rejects a body id that disagrees with the route id. An absent
// body id is permitted.
func idMatch(req *request) *pipeline.Error {
	if req.Body.ID == "" || req.Body.ID == req.RouteID {
		return nil
	}
	return pipeline.Invalid("Order id does not match route id. Order: %s, Route: %s.", req.Body.ID, req.RouteID)
}

// statusValid rejects statuses outside the lifecycle enumeration.
func statusValid(req *request) *pipeline.Error {
	if req.Body.Status.Valid() {
		return nil
	}
	return pipeline.Invalid("Order must have a status of pending, preparing, out-for-delivery, delivered")
}

// notDelivered rejects updates to an order that has already been delivered.
// It checks the stored status, not the submitted one.
func notDelivered(req *request) *pipeline.Error {
	if req.Entity.Status == StatusDelivered {
		return pipeline.Invalid("A delivered order cannot be changed")
	}
	return nil
}

// pendingOnly rejects deletion of any order that is not still pending.
func pendingOnly(req *request) *pipeline.Error {
	if req.Entity.Status != StatusPending {
		return pipeline.Invalid("An order cannot be deleted unless it is pending")
	}
	return nil
}

// items converts vetted payload line items to stored ones.
func items(ps []ItemPayload) []LineItem {
	out := make([]LineItem, len(ps))
	for i, p := range ps {
		q, _ := p.Quantity.Int64()
		price, _ := p.Price.Int64()
		out[i] = LineItem{
			DishID:      p.DishID,
			Name:        p.Name,
			Description: p.Description,
			Price:       int(price),
			ImageURL:    p.ImageURL,
			Quantity:    int(q),
		}
	}
	return out
}
