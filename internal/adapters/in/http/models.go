package http

import (
	"time"

	"github.com/google/uuid"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Courier struct {
	Id      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Number  int       `json:"number"`
	Pending int       `json:"pending"`
	Busy    bool      `json:"busy"`
	State   string    `json:"state"`
}

type Delivery struct {
	OrderId     uuid.UUID `json:"orderId"`
	CourierName string    `json:"courierName"`
	Customer    string    `json:"customer"`
	Food        string    `json:"food"`
	Drink       string    `json:"drink"`
	Dessert     string    `json:"dessert"`
	CreatedAt   time.Time `json:"createdAt"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

type NewOrder struct {
	Customer string `json:"customer"`
	Food     string `json:"food"`
	Drink    string `json:"drink"`
	Dessert  string `json:"dessert"`
}

type PlacedOrders struct {
	Accepted []uuid.UUID `json:"accepted"`
	Dropped  []uuid.UUID `json:"dropped"`
	Launched int         `json:"launched"`
}
