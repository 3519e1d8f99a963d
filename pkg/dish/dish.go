// Package dish implements the /dishes resource: model, validation guards,
// and HTTP handlers.
package dish

import (
	"encoding/json"

	"mealflow/pkg/pipeline"
)

// Dish is a menu item. Price is in currency minor units.
type Dish struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	ImageURL    string `json:"image_url"`
}

// Payload is the write-request body under "data". Price stays a
// json.Number until the price guard has vetted it, so non-integer input is
// rejected with the proper message instead of a decode error.
type Payload struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	ImageURL    string      `json:"image_url"`
}

type request = pipeline.Request[Payload, Dish]

func requireFields() []pipeline.Guard[Payload, Dish] {
	return []pipeline.Guard[Payload, Dish]{
		pipeline.Require[Payload, Dish]("Dish", "name", func(p Payload) bool { return p.Name != "" }),
		pipeline.Require[Payload, Dish]("Dish", "description", func(p Payload) bool { return p.Description != "" }),
		pipeline.Require[Payload, Dish]("Dish", "price", func(p Payload) bool { return numberPresent(p.Price) }),
		pipeline.Require[Payload, Dish]("Dish", "image_url", func(p Payload) bool { return p.ImageURL != "" }),
	}
}

// numberPresent reports whether a numeric field was supplied with a
// non-zero value.
func numberPresent(n json.Number) bool {
	f, err := n.Float64()
	return err == nil && f != 0
}

// priceValid rejects prices that are not positive integers.
func priceValid(req *request) *pipeline.Error {
	v, err := req.Body.Price.Int64()
	if err != nil || v <= 0 {
		return pipeline.Invalid("Dish must have a price that is an integer greater than 0")
	}
	return nil
}

// idMatch rejects a body id that disagrees with the route id. An absent
// body id is permitted.
func idMatch(req *request) *pipeline.Error {
	if req.Body.ID == "" || req.Body.ID == req.RouteID {
		return nil
	}
	return pipeline.Invalid("Dish id does not match route id. Dish: %s, Route: %s", req.Body.ID, req.RouteID)
}
