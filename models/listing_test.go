package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCropListing() Listing {
	return Listing{
		ListingID:    "lst123",
		Name:         "Fresh Maize",
		Category:     CategoryCrops,
		SubCategory:  "Cereals",
		Location:     Location{District: "Mbale"},
		RegularPrice: 1500,
		ImageURLs:    []string{"/static/listingpic/a.jpg"},
		Details: Details{
			CropType: "Maize",
			Quantity: 100,
			Unit:     "kg",
		},
	}
}

func TestListingValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		l := validCropListing()
		require.NoError(t, l.Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		l := validCropListing()
		l.Name = ""
		assert.Error(t, l.Validate())
	})

	t.Run("unknown category", func(t *testing.T) {
		l := validCropListing()
		l.Category = "Minerals"
		assert.Error(t, l.Validate())
	})

	t.Run("subcategory from another category", func(t *testing.T) {
		l := validCropListing()
		l.SubCategory = "Tractors"
		assert.Error(t, l.Validate())
	})

	t.Run("no images", func(t *testing.T) {
		l := validCropListing()
		l.ImageURLs = nil
		assert.Error(t, l.Validate())
	})

	t.Run("too many images", func(t *testing.T) {
		l := validCropListing()
		l.ImageURLs = make([]string, 11)
		assert.Error(t, l.Validate())
	})

	t.Run("zero price", func(t *testing.T) {
		l := validCropListing()
		l.RegularPrice = 0
		assert.Error(t, l.Validate())
	})

	t.Run("offer requires lower discounted price", func(t *testing.T) {
		l := validCropListing()
		l.Offer = true
		l.DiscountedPrice = 2000
		assert.Error(t, l.Validate())

		l.DiscountedPrice = l.RegularPrice
		assert.Error(t, l.Validate())

		l.DiscountedPrice = 1000
		assert.NoError(t, l.Validate())
	})

	t.Run("discounted price ignored without offer", func(t *testing.T) {
		l := validCropListing()
		l.Offer = false
		l.DiscountedPrice = 9999
		assert.NoError(t, l.Validate())
	})

	t.Run("missing district", func(t *testing.T) {
		l := validCropListing()
		l.Location.District = ""
		assert.Error(t, l.Validate())
	})
}

func TestDetailsValidate(t *testing.T) {
	t.Run("crop field on livestock rejected", func(t *testing.T) {
		d := Details{AnimalType: "Cattle", CropType: "Maize"}
		assert.Error(t, d.Validate(CategoryLivestock))
	})

	t.Run("brand allowed for equipment and inputs only", func(t *testing.T) {
		d := Details{EquipmentType: "Tractors", Brand: "Massey Ferguson"}
		assert.NoError(t, d.Validate(CategoryEquipment))

		d = Details{ProductName: "NPK Fertilizer", Brand: "Yara"}
		assert.NoError(t, d.Validate(CategoryInputs))

		d = Details{CropType: "Maize", Quantity: 10, Unit: "kg", Brand: "Yara"}
		assert.Error(t, d.Validate(CategoryCrops))
	})

	t.Run("required fields per category", func(t *testing.T) {
		assert.Error(t, Details{Quantity: 10, Unit: "kg"}.Validate(CategoryCrops))
		assert.Error(t, Details{}.Validate(CategoryLivestock))
		assert.Error(t, Details{}.Validate(CategoryEquipment))
		assert.Error(t, Details{}.Validate(CategoryServices))
		assert.Error(t, Details{}.Validate(CategoryInputs))
	})

	t.Run("equipment condition vocabulary", func(t *testing.T) {
		d := Details{EquipmentType: "Tractors", Condition: "refurbished"}
		assert.Error(t, d.Validate(CategoryEquipment))

		d.Condition = "used"
		assert.NoError(t, d.Validate(CategoryEquipment))
	})

	t.Run("unknown category", func(t *testing.T) {
		assert.Error(t, Details{}.Validate("Minerals"))
	})
}

func TestExpiryFor(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("crops expire 14 days after harvest", func(t *testing.T) {
		harvest := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
		got := ExpiryFor(CategoryCrops, &harvest, now)
		assert.Equal(t, harvest.AddDate(0, 0, 14), got)
	})

	t.Run("crops without harvest date count from now", func(t *testing.T) {
		got := ExpiryFor(CategoryCrops, nil, now)
		assert.Equal(t, now.AddDate(0, 0, 14), got)
	})

	t.Run("livestock", func(t *testing.T) {
		assert.Equal(t, now.AddDate(0, 0, 60), ExpiryFor(CategoryLivestock, nil, now))
	})

	t.Run("services", func(t *testing.T) {
		assert.Equal(t, now.AddDate(0, 0, 365), ExpiryFor(CategoryServices, nil, now))
	})

	t.Run("default window", func(t *testing.T) {
		assert.Equal(t, now.AddDate(0, 0, 90), ExpiryFor(CategoryEquipment, nil, now))
		assert.Equal(t, now.AddDate(0, 0, 90), ExpiryFor(CategoryInputs, nil, now))
	})
}
