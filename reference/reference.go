package reference

import (
	"context"
	"net/http"
	"time"

	"nguza/db"
	"nguza/models"
	"nguza/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetCategories returns the category tree with its subcategories and the
// supported units. Static data, served straight from the models.
func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"categories": models.Categories,
		"tree":       models.CategorySubcategories,
		"units":      models.Units,
	})
}

// GetUnits returns the unit vocabulary listings may use.
func GetUnits(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"units":   models.Units,
	})
}

// GetDistricts returns the district lookup, optionally filtered by region.
func GetDistricts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if region := r.URL.Query().Get("region"); region != "" {
		filter["region"] = region
	}

	cursor, err := db.DistrictsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch districts")
		return
	}
	defer cursor.Close(ctx)

	var items []models.District
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode districts")
		return
	}
	if items == nil {
		items = []models.District{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "districts": items})
}

// GetCropTypes returns the crop lookup, optionally filtered by subcategory.
func GetCropTypes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if sub := r.URL.Query().Get("subCategory"); sub != "" {
		filter["subCategory"] = sub
	}

	cursor, err := db.CropTypesCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch crop types")
		return
	}
	defer cursor.Close(ctx)

	var items []models.CropType
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode crop types")
		return
	}
	if items == nil {
		items = []models.CropType{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "cropTypes": items})
}

// GetLivestockBreeds returns the breed lookup, optionally filtered by animal
// type.
func GetLivestockBreeds(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if animal := r.URL.Query().Get("animalType"); animal != "" {
		filter["animalType"] = animal
	}

	cursor, err := db.LivestockBreedCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch breeds")
		return
	}
	defer cursor.Close(ctx)

	var items []models.LivestockBreed
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode breeds")
		return
	}
	if items == nil {
		items = []models.LivestockBreed{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "breeds": items})
}
