package listings

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"nguza/db"
	"nguza/models"
	"nguza/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateListing handles the multipart create form. Images are saved first;
// if the insert fails, the saved files are removed again so no orphaned
// uploads survive a failed create.
func CreateListing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	listing, err := listingFromForm(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	listing.SellerID = userID

	formImages := r.MultipartForm.File["images"]
	if len(formImages) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "At least one image is required")
		return
	}
	if len(formImages) > 10 {
		utils.RespondWithError(w, http.StatusBadRequest, "At most 10 images are allowed")
		return
	}

	savedURLs := make([]string, 0, len(formImages))
	for _, fh := range formImages {
		if !utils.ValidateImageFileType(w, fh) {
			utils.RemoveListingImages(savedURLs)
			return
		}
		file, err := fh.Open()
		if err != nil {
			continue
		}
		url, err := utils.SaveListingImage(file, fh)
		file.Close()
		if err != nil {
			log.Printf("Image save failed: %v", err)
			continue
		}
		savedURLs = append(savedURLs, url)
	}
	listing.ImageURLs = savedURLs

	now := time.Now()
	listing.ListingID = "lst" + utils.GenerateRandomString(12)
	listing.Status = models.StatusActive
	listing.Moderation = models.ModerationPending
	listing.CreatedAt = now
	listing.UpdatedAt = now
	listing.ExpiresAt = models.ExpiryFor(listing.Category, listing.Details.HarvestDate, now)

	if err := listing.Validate(); err != nil {
		utils.RemoveListingImages(savedURLs)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Denormalize seller contact so list pages need no join; the backfill
	// worker repairs it later if this lookup loses the race.
	var seller models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&seller); err == nil {
		listing.SellerName = seller.Username
		listing.SellerPhone = seller.PhoneNumber
	}

	if _, err := db.ListingsCollection.InsertOne(ctx, listing); err != nil {
		utils.RemoveListingImages(savedURLs)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create listing")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "listing": listing})
}

// UpdateListing lets the owner (or an admin) edit a listing. The form is
// applied on top of the stored document and the whole result re-validated.
func UpdateListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	listingID := ps.ByName("id")
	existing, status, msg := loadOwnedListing(ctx, r, listingID)
	if existing == nil {
		utils.RespondWithError(w, status, msg)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	updated := *existing
	applyListingForm(r, &updated)

	// Optional replacement images.
	formImages := r.MultipartForm.File["images"]
	if len(formImages) > 10 {
		utils.RespondWithError(w, http.StatusBadRequest, "At most 10 images are allowed")
		return
	}
	var newURLs []string
	for _, fh := range formImages {
		if !utils.ValidateImageFileType(w, fh) {
			utils.RemoveListingImages(newURLs)
			return
		}
		file, err := fh.Open()
		if err != nil {
			continue
		}
		url, err := utils.SaveListingImage(file, fh)
		file.Close()
		if err != nil {
			log.Printf("Image save failed: %v", err)
			continue
		}
		newURLs = append(newURLs, url)
	}
	if len(newURLs) > 0 {
		updated.ImageURLs = newURLs
	}

	updated.UpdatedAt = time.Now()
	if err := updated.Validate(); err != nil {
		utils.RemoveListingImages(newURLs)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := db.ListingsCollection.ReplaceOne(ctx, bson.M{"listingid": listingID}, updated); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update listing")
		return
	}
	if len(newURLs) > 0 {
		utils.RemoveListingImages(existing.ImageURLs)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "listing": updated})
}

// DeleteListing removes the document and cleans up its stored images.
func DeleteListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	listingID := ps.ByName("id")
	existing, status, msg := loadOwnedListing(ctx, r, listingID)
	if existing == nil {
		utils.RespondWithError(w, status, msg)
		return
	}

	if _, err := db.ListingsCollection.DeleteOne(ctx, bson.M{"listingid": listingID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete listing")
		return
	}

	utils.RemoveListingImages(existing.ImageURLs)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Listing deleted"})
}

// MarkSold is the owner's soft retirement of an active listing.
func MarkSold(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	listingID := ps.ByName("id")
	existing, status, msg := loadOwnedListing(ctx, r, listingID)
	if existing == nil {
		utils.RespondWithError(w, status, msg)
		return
	}
	if existing.Status != models.StatusActive {
		utils.RespondWithError(w, http.StatusBadRequest, "Only active listings can be marked sold")
		return
	}

	_, err := db.ListingsCollection.UpdateOne(ctx,
		bson.M{"listingid": listingID},
		bson.M{"$set": bson.M{"status": models.StatusSold, "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update listing")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": models.StatusSold})
}

// MyListings returns the caller's own listings in every status.
func MyListings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cursor, err := db.ListingsCollection.Find(ctx, bson.M{"sellerId": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch listings")
		return
	}
	defer cursor.Close(ctx)

	var items []models.Listing
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode listings")
		return
	}
	if items == nil {
		items = []models.Listing{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "listings": items})
}

// loadOwnedListing fetches a listing and checks the requester is its owner
// or an admin. Returns nil plus a status/message pair on failure.
func loadOwnedListing(ctx context.Context, r *http.Request, listingID string) (*models.Listing, int, string) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		return nil, http.StatusUnauthorized, "Unauthorized"
	}

	var listing models.Listing
	err := db.ListingsCollection.FindOne(ctx, bson.M{"listingid": listingID}).Decode(&listing)
	if err == mongo.ErrNoDocuments {
		return nil, http.StatusNotFound, "Listing not found"
	}
	if err != nil {
		return nil, http.StatusInternalServerError, "Failed to fetch listing"
	}
	if listing.SellerID != userID && !utils.IsAdminRequest(r) {
		return nil, http.StatusForbidden, "Not your listing"
	}
	return &listing, 0, ""
}

// listingFromForm builds a fresh listing from the multipart form.
func listingFromForm(r *http.Request) (*models.Listing, error) {
	var listing models.Listing
	applyListingForm(r, &listing)
	return &listing, nil
}

// applyListingForm overlays any present form values onto the listing.
func applyListingForm(r *http.Request, l *models.Listing) {
	set := func(field *string, name string) {
		if v := r.FormValue(name); v != "" {
			*field = v
		}
	}
	set(&l.Name, "name")
	set(&l.Description, "description")
	set(&l.Category, "category")
	set(&l.SubCategory, "subCategory")
	set(&l.Location.District, "district")
	set(&l.Location.Subcounty, "subcounty")
	set(&l.Location.Parish, "parish")
	set(&l.Location.Village, "village")

	if v, err := strconv.ParseFloat(r.FormValue("regularPrice"), 64); err == nil {
		l.RegularPrice = v
	}
	if v, err := strconv.ParseFloat(r.FormValue("discountedPrice"), 64); err == nil {
		l.DiscountedPrice = v
	}
	if v := r.FormValue("offer"); v != "" {
		l.Offer = v == "true" || v == "on"
	}

	lat, latErr := strconv.ParseFloat(r.FormValue("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.FormValue("lng"), 64)
	if latErr == nil && lngErr == nil {
		l.Location.Coordinates = &models.GeoPoint{Lat: lat, Lng: lng}
	}

	if raw := r.FormValue("details"); raw != "" {
		var d models.Details
		if err := json.Unmarshal([]byte(raw), &d); err == nil {
			l.Details = d
		}
	}
}
