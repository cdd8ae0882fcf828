package models

import "time"

// CartItem is one listing in a user's cart. Price is the unit price at the
// time the item was added, not the live listing price.
type CartItem struct {
	UserID    string    `json:"userId" bson:"userId"`
	ListingID string    `json:"listingId" bson:"listingId"`
	Name      string    `json:"name" bson:"name"`
	Unit      string    `json:"unit,omitempty" bson:"unit,omitempty"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	Price     float64   `json:"price" bson:"price"`
	ImageURL  string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

// WishlistItem is one saved listing reference.
type WishlistItem struct {
	UserID    string    `json:"userId" bson:"userId"`
	ListingID string    `json:"listingId" bson:"listingId"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}
