package models

import (
	"fmt"
	"time"
)

// Details carries the category-specific attributes of a listing. It is stored
// as one sub-document, but each category only admits its own closed field set
// (checked by Validate); anything outside that set is rejected at the API
// boundary instead of being trusted from the client.
type Details struct {
	// Crops
	CropType     string     `json:"cropType,omitempty" bson:"cropType,omitempty"`
	Variety      string     `json:"variety,omitempty" bson:"variety,omitempty"`
	PricePerUnit float64    `json:"pricePerUnit,omitempty" bson:"pricePerUnit,omitempty"`
	Organic      bool       `json:"organic,omitempty" bson:"organic,omitempty"`
	HarvestDate  *time.Time `json:"harvestDate,omitempty" bson:"harvestDate,omitempty"`

	// Livestock
	AnimalType string  `json:"animalType,omitempty" bson:"animalType,omitempty"`
	Breed      string  `json:"breed,omitempty" bson:"breed,omitempty"`
	AgeMonths  int     `json:"ageMonths,omitempty" bson:"ageMonths,omitempty"`
	WeightKg   float64 `json:"weightKg,omitempty" bson:"weightKg,omitempty"`

	// Equipment
	EquipmentType     string `json:"equipmentType,omitempty" bson:"equipmentType,omitempty"`
	Condition         string `json:"condition,omitempty" bson:"condition,omitempty"`
	YearOfManufacture int    `json:"yearOfManufacture,omitempty" bson:"yearOfManufacture,omitempty"`

	// Services
	ServiceType  string `json:"serviceType,omitempty" bson:"serviceType,omitempty"`
	CoverageArea string `json:"coverageArea,omitempty" bson:"coverageArea,omitempty"`
	Availability string `json:"availability,omitempty" bson:"availability,omitempty"`

	// Inputs
	ProductName string     `json:"productName,omitempty" bson:"productName,omitempty"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`

	// Shared by Crops, Livestock and Inputs
	Quantity float64 `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty" bson:"unit,omitempty"`

	// Shared by Equipment and Inputs
	Brand string `json:"brand,omitempty" bson:"brand,omitempty"`
}

// fieldSet lists which Details fields a category admits.
type fieldSet struct {
	cropType, variety, pricePerUnit, organic, harvestDate bool
	animalType, breed, ageMonths, weightKg                bool
	equipmentType, condition, yearOfManufacture           bool
	serviceType, coverageArea, availability               bool
	productName, expiryDate                               bool
	quantity, unit, brand                                 bool
}

var detailFields = map[string]fieldSet{
	CategoryCrops: {
		cropType: true, variety: true, pricePerUnit: true, organic: true,
		harvestDate: true, quantity: true, unit: true,
	},
	CategoryLivestock: {
		animalType: true, breed: true, ageMonths: true, weightKg: true,
		quantity: true, unit: true,
	},
	CategoryEquipment: {
		equipmentType: true, condition: true, yearOfManufacture: true, brand: true,
	},
	CategoryServices: {
		serviceType: true, coverageArea: true, availability: true,
	},
	CategoryInputs: {
		productName: true, brand: true, expiryDate: true, quantity: true, unit: true,
	},
}

// Validate rejects any detail field that does not belong to the category and
// checks the per-category required fields.
func (d Details) Validate(category string) error {
	allowed, ok := detailFields[category]
	if !ok {
		return fmt.Errorf("unknown category %q", category)
	}

	check := func(set bool, allowed bool, field string) error {
		if set && !allowed {
			return fmt.Errorf("detail field %q is not valid for category %q", field, category)
		}
		return nil
	}
	checks := []error{
		check(d.CropType != "", allowed.cropType, "cropType"),
		check(d.Variety != "", allowed.variety, "variety"),
		check(d.PricePerUnit != 0, allowed.pricePerUnit, "pricePerUnit"),
		check(d.Organic, allowed.organic, "organic"),
		check(d.HarvestDate != nil, allowed.harvestDate, "harvestDate"),
		check(d.AnimalType != "", allowed.animalType, "animalType"),
		check(d.Breed != "", allowed.breed, "breed"),
		check(d.AgeMonths != 0, allowed.ageMonths, "ageMonths"),
		check(d.WeightKg != 0, allowed.weightKg, "weightKg"),
		check(d.EquipmentType != "", allowed.equipmentType, "equipmentType"),
		check(d.Condition != "", allowed.condition, "condition"),
		check(d.YearOfManufacture != 0, allowed.yearOfManufacture, "yearOfManufacture"),
		check(d.ServiceType != "", allowed.serviceType, "serviceType"),
		check(d.CoverageArea != "", allowed.coverageArea, "coverageArea"),
		check(d.Availability != "", allowed.availability, "availability"),
		check(d.ProductName != "", allowed.productName, "productName"),
		check(d.ExpiryDate != nil, allowed.expiryDate, "expiryDate"),
		check(d.Quantity != 0, allowed.quantity, "quantity"),
		check(d.Unit != "", allowed.unit, "unit"),
		check(d.Brand != "", allowed.brand, "brand"),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	switch category {
	case CategoryCrops:
		if d.CropType == "" {
			return fmt.Errorf("cropType is required for crop listings")
		}
		if d.Quantity <= 0 || d.Unit == "" {
			return fmt.Errorf("quantity and unit are required for crop listings")
		}
	case CategoryLivestock:
		if d.AnimalType == "" {
			return fmt.Errorf("animalType is required for livestock listings")
		}
	case CategoryEquipment:
		if d.EquipmentType == "" {
			return fmt.Errorf("equipmentType is required for equipment listings")
		}
		if d.Condition != "" && d.Condition != "new" && d.Condition != "used" {
			return fmt.Errorf("condition must be \"new\" or \"used\"")
		}
	case CategoryServices:
		if d.ServiceType == "" {
			return fmt.Errorf("serviceType is required for service listings")
		}
	case CategoryInputs:
		if d.ProductName == "" {
			return fmt.Errorf("productName is required for input listings")
		}
	}
	return nil
}
