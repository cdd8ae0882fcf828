package models

import (
	"fmt"
	"time"
)

// Listing categories. SubCategory must belong to CategorySubcategories[Category].
const (
	CategoryCrops     = "Crops"
	CategoryLivestock = "Livestock"
	CategoryEquipment = "Equipment"
	CategoryServices  = "Services"
	CategoryInputs    = "Inputs"
)

var Categories = []string{
	CategoryCrops,
	CategoryLivestock,
	CategoryEquipment,
	CategoryServices,
	CategoryInputs,
}

var CategorySubcategories = map[string][]string{
	CategoryCrops:     {"Cereals", "Legumes", "Fruits", "Vegetables", "Roots & Tubers", "Cash Crops"},
	CategoryLivestock: {"Cattle", "Goats", "Sheep", "Poultry", "Pigs", "Fish"},
	CategoryEquipment: {"Tractors", "Irrigation", "Hand Tools", "Processing", "Storage"},
	CategoryServices:  {"Transport", "Veterinary", "Land Preparation", "Consultancy", "Labour"},
	CategoryInputs:    {"Seeds", "Fertilizers", "Pesticides", "Animal Feed", "Veterinary Drugs"},
}

var Units = []string{"kg", "g", "tonne", "bag", "crate", "litre", "piece", "bunch", "tray", "acre"}

// Listing status values (seller-controlled).
const (
	StatusActive    = "active"
	StatusSold      = "sold"
	StatusExpired   = "expired"
	StatusSuspended = "suspended"
)

// Moderation status values (admin-controlled, independent of Status).
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

type GeoPoint struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

type Location struct {
	District    string    `json:"district" bson:"district"`
	Subcounty   string    `json:"subcounty,omitempty" bson:"subcounty,omitempty"`
	Parish      string    `json:"parish,omitempty" bson:"parish,omitempty"`
	Village     string    `json:"village,omitempty" bson:"village,omitempty"`
	Coordinates *GeoPoint `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

// Listing is a sellable agricultural item.
type Listing struct {
	ListingID       string     `json:"listingid" bson:"listingid"`
	Name            string     `json:"name" bson:"name"`
	Description     string     `json:"description" bson:"description"`
	Category        string     `json:"category" bson:"category"`
	SubCategory     string     `json:"subCategory" bson:"subCategory"`
	Location        Location   `json:"location" bson:"location"`
	RegularPrice    float64    `json:"regularPrice" bson:"regularPrice"`
	DiscountedPrice float64    `json:"discountedPrice,omitempty" bson:"discountedPrice,omitempty"`
	Offer           bool       `json:"offer" bson:"offer"`
	ImageURLs       []string   `json:"imageUrls" bson:"imageUrls"`
	Details         Details    `json:"details" bson:"details"`
	SellerID        string     `json:"sellerId" bson:"sellerId"`
	SellerName      string     `json:"sellerName,omitempty" bson:"sellerName,omitempty"`
	SellerPhone     string     `json:"sellerPhone,omitempty" bson:"sellerPhone,omitempty"`
	Status          string     `json:"status" bson:"status"`
	Moderation      string     `json:"moderation" bson:"moderation"`
	ModerationNote  string     `json:"moderationNote,omitempty" bson:"moderationNote,omitempty"`
	Views           int64      `json:"views" bson:"views"`
	ContactClicks   int64      `json:"contactClicks" bson:"contactClicks"`
	FeaturedUntil   *time.Time `json:"featuredUntil,omitempty" bson:"featuredUntil,omitempty"`
	BoostedUntil    *time.Time `json:"boostedUntil,omitempty" bson:"boostedUntil,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt" bson:"updatedAt"`
	ExpiresAt       time.Time  `json:"expiresAt" bson:"expiresAt"`
}

// Validate checks the cross-field invariants enforced at create/update time.
func (l *Listing) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("name is required")
	}
	subs, ok := CategorySubcategories[l.Category]
	if !ok {
		return fmt.Errorf("unknown category %q", l.Category)
	}
	found := false
	for _, s := range subs {
		if s == l.SubCategory {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("subCategory %q does not belong to category %q", l.SubCategory, l.Category)
	}
	if len(l.ImageURLs) < 1 {
		return fmt.Errorf("at least one image is required")
	}
	if len(l.ImageURLs) > 10 {
		return fmt.Errorf("at most 10 images are allowed")
	}
	if l.RegularPrice <= 0 {
		return fmt.Errorf("regularPrice must be positive")
	}
	if l.Offer {
		if l.DiscountedPrice <= 0 || l.DiscountedPrice >= l.RegularPrice {
			return fmt.Errorf("discountedPrice must be lower than regularPrice for an offer")
		}
	}
	if l.Location.District == "" {
		return fmt.Errorf("location district is required")
	}
	return l.Details.Validate(l.Category)
}

// ExpiryFor derives the expiry timestamp for a freshly created listing.
// Crops expire 14 days after harvest, livestock after 60 days, services
// after a year, everything else after 90 days.
func ExpiryFor(category string, harvestDate *time.Time, now time.Time) time.Time {
	switch category {
	case CategoryCrops:
		base := now
		if harvestDate != nil {
			base = *harvestDate
		}
		return base.AddDate(0, 0, 14)
	case CategoryLivestock:
		return now.AddDate(0, 0, 60)
	case CategoryServices:
		return now.AddDate(0, 0, 365)
	default:
		return now.AddDate(0, 0, 90)
	}
}
