package reference

import (
	"context"
	"log"
	"time"

	"nguza/db"
	"nguza/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Seed loads the static lookups into Mongo on first boot. Each collection is
// seeded only if it is empty, so restarts are cheap and manual edits survive.
func Seed(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	seedDistricts(ctx)
	seedCropTypes(ctx)
	seedBreeds(ctx)
}

func seedDistricts(ctx context.Context) {
	n, err := db.DistrictsCollection.CountDocuments(ctx, bson.M{})
	if err != nil || n > 0 {
		return
	}

	docs := make([]interface{}, 0, len(districtSeed))
	for _, d := range districtSeed {
		docs = append(docs, d)
	}
	if _, err := db.DistrictsCollection.InsertMany(ctx, docs); err != nil {
		log.Printf("District seed failed: %v", err)
		return
	}
	log.Printf("Seeded %d districts", len(docs))
}

func seedCropTypes(ctx context.Context) {
	n, err := db.CropTypesCollection.CountDocuments(ctx, bson.M{})
	if err != nil || n > 0 {
		return
	}

	docs := make([]interface{}, 0, len(cropTypeSeed))
	for _, c := range cropTypeSeed {
		docs = append(docs, c)
	}
	if _, err := db.CropTypesCollection.InsertMany(ctx, docs); err != nil {
		log.Printf("Crop type seed failed: %v", err)
		return
	}
	log.Printf("Seeded %d crop types", len(docs))
}

func seedBreeds(ctx context.Context) {
	n, err := db.LivestockBreedCollection.CountDocuments(ctx, bson.M{})
	if err != nil || n > 0 {
		return
	}

	docs := make([]interface{}, 0, len(breedSeed))
	for _, b := range breedSeed {
		docs = append(docs, b)
	}
	if _, err := db.LivestockBreedCollection.InsertMany(ctx, docs); err != nil {
		log.Printf("Breed seed failed: %v", err)
		return
	}
	log.Printf("Seeded %d livestock breeds", len(docs))
}

var districtSeed = []models.District{
	{Name: "Kampala", Region: "Central", Subcounties: []models.Subcounty{
		{Name: "Central Division", Parishes: []string{"Kamwokya", "Kololo", "Old Kampala"}},
		{Name: "Nakawa", Parishes: []string{"Bugolobi", "Ntinda", "Luzira"}},
	}},
	{Name: "Wakiso", Region: "Central", Subcounties: []models.Subcounty{
		{Name: "Entebbe", Parishes: []string{"Katabi", "Kitooro"}},
		{Name: "Nansana", Parishes: []string{"Gombe", "Nabweru"}},
	}},
	{Name: "Mukono", Region: "Central", Subcounties: []models.Subcounty{
		{Name: "Mukono Central", Parishes: []string{"Ggulu", "Namumira"}},
	}},
	{Name: "Mbarara", Region: "Western", Subcounties: []models.Subcounty{
		{Name: "Kakoba", Parishes: []string{"Kakoba Central", "Lugazi"}},
		{Name: "Nyamitanga", Parishes: []string{"Ruti", "Kiyanja"}},
	}},
	{Name: "Kabale", Region: "Western", Subcounties: []models.Subcounty{
		{Name: "Kabale Central", Parishes: []string{"Kigongi", "Kirigime"}},
	}},
	{Name: "Gulu", Region: "Northern", Subcounties: []models.Subcounty{
		{Name: "Laroo", Parishes: []string{"Iriaga", "Pageya"}},
	}},
	{Name: "Lira", Region: "Northern", Subcounties: []models.Subcounty{
		{Name: "Adyel", Parishes: []string{"Junior Quarters", "Ireda"}},
	}},
	{Name: "Jinja", Region: "Eastern", Subcounties: []models.Subcounty{
		{Name: "Jinja Central", Parishes: []string{"Mpumudde", "Walukuba"}},
	}},
	{Name: "Mbale", Region: "Eastern", Subcounties: []models.Subcounty{
		{Name: "Industrial Division", Parishes: []string{"Nkoma", "Namatala"}},
	}},
	{Name: "Soroti", Region: "Eastern", Subcounties: []models.Subcounty{
		{Name: "Soroti East", Parishes: []string{"Opuyo", "Aloet"}},
	}},
}

var cropTypeSeed = []models.CropType{
	{Name: "Maize", SubCategory: "Cereals"},
	{Name: "Rice", SubCategory: "Cereals"},
	{Name: "Millet", SubCategory: "Cereals"},
	{Name: "Sorghum", SubCategory: "Cereals"},
	{Name: "Beans", SubCategory: "Legumes"},
	{Name: "Groundnuts", SubCategory: "Legumes"},
	{Name: "Soybeans", SubCategory: "Legumes"},
	{Name: "Bananas", SubCategory: "Fruits"},
	{Name: "Mangoes", SubCategory: "Fruits"},
	{Name: "Pineapples", SubCategory: "Fruits"},
	{Name: "Passion Fruit", SubCategory: "Fruits"},
	{Name: "Tomatoes", SubCategory: "Vegetables"},
	{Name: "Cabbages", SubCategory: "Vegetables"},
	{Name: "Onions", SubCategory: "Vegetables"},
	{Name: "Cassava", SubCategory: "Roots & Tubers"},
	{Name: "Sweet Potatoes", SubCategory: "Roots & Tubers"},
	{Name: "Irish Potatoes", SubCategory: "Roots & Tubers"},
	{Name: "Coffee", SubCategory: "Cash Crops"},
	{Name: "Tea", SubCategory: "Cash Crops"},
	{Name: "Cotton", SubCategory: "Cash Crops"},
	{Name: "Sugarcane", SubCategory: "Cash Crops"},
}

var breedSeed = []models.LivestockBreed{
	{AnimalType: "Cattle", Name: "Ankole"},
	{AnimalType: "Cattle", Name: "Friesian"},
	{AnimalType: "Cattle", Name: "Zebu"},
	{AnimalType: "Cattle", Name: "Boran"},
	{AnimalType: "Goats", Name: "Mubende"},
	{AnimalType: "Goats", Name: "Boer"},
	{AnimalType: "Goats", Name: "Small East African"},
	{AnimalType: "Sheep", Name: "Dorper"},
	{AnimalType: "Sheep", Name: "East African Blackhead"},
	{AnimalType: "Poultry", Name: "Kuroiler"},
	{AnimalType: "Poultry", Name: "Broiler"},
	{AnimalType: "Poultry", Name: "Layer"},
	{AnimalType: "Poultry", Name: "Local"},
	{AnimalType: "Pigs", Name: "Large White"},
	{AnimalType: "Pigs", Name: "Landrace"},
	{AnimalType: "Pigs", Name: "Camborough"},
	{AnimalType: "Fish", Name: "Tilapia"},
	{AnimalType: "Fish", Name: "Catfish"},
}
