package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"nguza/db"
	"nguza/models"
	"nguza/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListUsers returns a page of accounts, newest first. Password hashes never
// leave the model thanks to its json tag.
func ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 20, 100)

	filter := bson.M{}
	if q := r.URL.Query().Get("search"); q != "" {
		filter["$or"] = []bson.M{
			{"username": bson.M{"$regex": q, "$options": "i"}},
			{"phoneNumber": bson.M{"$regex": q, "$options": "i"}},
		}
	}
	if r.URL.Query().Get("banned") == "true" {
		filter["banned"] = true
	}

	cursor, err := db.UserCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetSkip(skip).SetLimit(limit))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	total, err := db.UserCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count users")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"users":   users,
		"total":   total,
	})
}

// SetUserBan bans or unbans an account. A banned user cannot sign in; their
// active listings are suspended alongside the ban and restored on unban.
func SetUserBan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := ps.ByName("id")

	var input struct {
		Banned bool `json:"banned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	res, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"banned": input.Banned, "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if input.Banned {
		_, _ = db.ListingsCollection.UpdateMany(ctx,
			bson.M{"sellerId": userID, "status": models.StatusActive},
			bson.M{"$set": bson.M{"status": models.StatusSuspended, "updatedAt": time.Now()}},
		)
	} else {
		_, _ = db.ListingsCollection.UpdateMany(ctx,
			bson.M{"sellerId": userID, "status": models.StatusSuspended},
			bson.M{"$set": bson.M{"status": models.StatusActive, "updatedAt": time.Now()}},
		)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "banned": input.Banned})
}

// Moderate approves or rejects a listing. Rejection requires a note so the
// seller knows what to fix.
func Moderate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	listingID := ps.ByName("id")

	var input struct {
		Moderation string `json:"moderation"`
		Note       string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Moderation != models.ModerationApproved && input.Moderation != models.ModerationRejected {
		utils.RespondWithError(w, http.StatusBadRequest, "Moderation must be approved or rejected")
		return
	}
	if input.Moderation == models.ModerationRejected && input.Note == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "A note is required when rejecting")
		return
	}

	res, err := db.ListingsCollection.UpdateOne(ctx,
		bson.M{"listingid": listingID},
		bson.M{"$set": bson.M{
			"moderation":     input.Moderation,
			"moderationNote": input.Note,
			"updatedAt":      time.Now(),
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update listing")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Listing not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "moderation": input.Moderation})
}

// SuspendListing flips a listing in or out of the suspended status.
func SuspendListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	listingID := ps.ByName("id")

	var input struct {
		Suspend bool   `json:"suspend"`
		Note    string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	status := models.StatusActive
	if input.Suspend {
		status = models.StatusSuspended
	}

	set := bson.M{"status": status, "updatedAt": time.Now()}
	if input.Note != "" {
		set["moderationNote"] = input.Note
	}

	res, err := db.ListingsCollection.UpdateOne(ctx,
		bson.M{"listingid": listingID}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update listing")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Listing not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": status})
}

// PromoteListing sets the featured or boosted window on a listing. Days of
// zero or less clears the window.
func PromoteListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	listingID := ps.ByName("id")

	var input struct {
		Kind string `json:"kind"`
		Days int    `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var field string
	switch input.Kind {
	case "featured":
		field = "featuredUntil"
	case "boosted":
		field = "boostedUntil"
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Kind must be featured or boosted")
		return
	}

	var update bson.M
	if input.Days <= 0 {
		update = bson.M{
			"$unset": bson.M{field: ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		}
	} else {
		until := time.Now().AddDate(0, 0, input.Days)
		update = bson.M{"$set": bson.M{field: until, "updatedAt": time.Now()}}
	}

	res, err := db.ListingsCollection.UpdateOne(ctx, bson.M{"listingid": listingID}, update)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update listing")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Listing not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// DeleteListing removes any listing regardless of owner.
func DeleteListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	listingID := ps.ByName("id")

	var listing models.Listing
	if err := db.ListingsCollection.FindOne(ctx, bson.M{"listingid": listingID}).Decode(&listing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Listing not found")
		return
	}

	if _, err := db.ListingsCollection.DeleteOne(ctx, bson.M{"listingid": listingID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete listing")
		return
	}

	utils.RemoveListingImages(listing.ImageURLs)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Listing deleted"})
}

// Stats returns the counters the admin dashboard shows.
func Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	users, err := db.UserCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count users")
		return
	}
	listings, err := db.ListingsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count listings")
		return
	}
	active, err := db.ListingsCollection.CountDocuments(ctx, bson.M{"status": models.StatusActive})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count listings")
		return
	}
	pending, err := db.ListingsCollection.CountDocuments(ctx, bson.M{"moderation": models.ModerationPending})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count listings")
		return
	}
	orders, err := db.OrderCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"stats": utils.M{
			"users":             users,
			"listings":          listings,
			"activeListings":    active,
			"pendingModeration": pending,
			"orders":            orders,
		},
	})
}
