// Package postgres implements the dish and order repositories over
// PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"mealflow/pkg/dish"
	"mealflow/pkg/order"
	"mealflow/pkg/storage"
)

// Schema creates the tables the repositories expect. The pos column keeps
// List in insertion order.
func Schema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS dishes (
    pos SERIAL,
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    price INT NOT NULL,
    image_url TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS orders (
    pos SERIAL,
    id TEXT PRIMARY KEY,
    deliver_to TEXT NOT NULL,
    mobile_number TEXT NOT NULL,
    status TEXT NOT NULL,
    dishes JSONB NOT NULL
);`)
	return err
}

// DishRepository persists dishes in PostgreSQL.
type DishRepository struct {
	db *sql.DB
}

// NewDishRepository creates a dish repository over db.
func NewDishRepository(db *sql.DB) *DishRepository {
	return &DishRepository{db: db}
}

// Create inserts a new dish.
func (r *DishRepository) Create(ctx context.Context, d dish.Dish) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO dishes (id,name,description,price,image_url) VALUES ($1,$2,$3,$4,$5)",
		d.ID, d.Name, d.Description, d.Price, d.ImageURL)
	return err
}

// Get retrieves a dish by id.
func (r *DishRepository) Get(ctx context.Context, id string) (dish.Dish, error) {
	var d dish.Dish
	err := r.db.QueryRowContext(ctx,
		"SELECT id,name,description,price,image_url FROM dishes WHERE id=$1", id).
		Scan(&d.ID, &d.Name, &d.Description, &d.Price, &d.ImageURL)
	if err == sql.ErrNoRows {
		return dish.Dish{}, storage.ErrNotFound
	}
	return d, err
}

// List fetches all dishes in insertion order.
func (r *DishRepository) List(ctx context.Context) ([]dish.Dish, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,name,description,price,image_url FROM dishes ORDER BY pos")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var dishes []dish.Dish
	for rows.Next() {
		var d dish.Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Price, &d.ImageURL); err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	return dishes, rows.Err()
}

// Update overwrites an existing dish.
func (r *DishRepository) Update(ctx context.Context, d dish.Dish) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE dishes SET name=$2, description=$3, price=$4, image_url=$5 WHERE id=$1",
		d.ID, d.Name, d.Description, d.Price, d.ImageURL)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes a dish by id. The API never exposes this; it exists so
// the repository satisfies the shared contract.
func (r *DishRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM dishes WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// OrderRepository persists orders in PostgreSQL. Line items ride in a
// JSONB column.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates an order repository over db.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order.
func (r *OrderRepository) Create(ctx context.Context, o order.Order) error {
	dishes, err := json.Marshal(o.Dishes)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO orders (id,deliver_to,mobile_number,status,dishes) VALUES ($1,$2,$3,$4,$5)",
		o.ID, o.DeliverTo, o.MobileNumber, o.Status, dishes)
	return err
}

// Get retrieves an order by id.
func (r *OrderRepository) Get(ctx context.Context, id string) (order.Order, error) {
	var o order.Order
	var dishes []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT id,deliver_to,mobile_number,status,dishes FROM orders WHERE id=$1", id).
		Scan(&o.ID, &o.DeliverTo, &o.MobileNumber, &o.Status, &dishes)
	if err == sql.ErrNoRows {
		return order.Order{}, storage.ErrNotFound
	}
	if err != nil {
		return order.Order{}, err
	}
	if err := json.Unmarshal(dishes, &o.Dishes); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

// List fetches all orders in insertion order.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,deliver_to,mobile_number,status,dishes FROM orders ORDER BY pos")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []order.Order
	for rows.Next() {
		var o order.Order
		var dishes []byte
		if err := rows.Scan(&o.ID, &o.DeliverTo, &o.MobileNumber, &o.Status, &dishes); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(dishes, &o.Dishes); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Update overwrites an existing order.
func (r *OrderRepository) Update(ctx context.Context, o order.Order) error {
	dishes, err := json.Marshal(o.Dishes)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET deliver_to=$2, mobile_number=$3, status=$4, dishes=$5 WHERE id=$1",
		o.ID, o.DeliverTo, o.MobileNumber, o.Status, dishes)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes an order by id.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
