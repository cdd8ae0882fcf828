package models

import "time"

// Order status values. Transitions append to History and are never rewritten.
const (
	OrderPending    = "Pending"
	OrderProcessing = "Processing"
	OrderDelivered  = "Delivered"
	OrderCancelled  = "Cancelled"
)

// OrderItem is a snapshot of a cart item at checkout time.
type OrderItem struct {
	ListingID string  `json:"listingId" bson:"listingId"`
	Name      string  `json:"name" bson:"name"`
	Unit      string  `json:"unit,omitempty" bson:"unit,omitempty"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
}

// StatusEvent is one entry in an order's append-only history log.
type StatusEvent struct {
	Status string    `json:"status" bson:"status"`
	Note   string    `json:"note,omitempty" bson:"note,omitempty"`
	By     string    `json:"by" bson:"by"`
	At     time.Time `json:"at" bson:"at"`
}

type ShippingInfo struct {
	FullName string `json:"fullName" bson:"fullName"`
	Phone    string `json:"phone" bson:"phone"`
	District string `json:"district" bson:"district"`
	Address  string `json:"address" bson:"address"`
}

// Order is an immutable-once-placed snapshot of cart contents. Only the
// status transitions mutate it, by appending to History and flipping the
// summary flags.
type Order struct {
	OrderID       string        `json:"orderId" bson:"orderId"`
	UserID        string        `json:"userId" bson:"userId"`
	Items         []OrderItem   `json:"items" bson:"items"`
	Shipping      ShippingInfo  `json:"shipping" bson:"shipping"`
	PaymentMethod string        `json:"paymentMethod" bson:"paymentMethod"`
	Total         float64       `json:"total" bson:"total"`
	Status        string        `json:"status" bson:"status"`
	History       []StatusEvent `json:"history" bson:"history"`
	IsPaid        bool          `json:"isPaid" bson:"isPaid"`
	IsDelivered   bool          `json:"isDelivered" bson:"isDelivered"`
	PaidAt        *time.Time    `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	DeliveredAt   *time.Time    `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
}
