package wishlist

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

// GetWishlist returns the caller's saved listings, most recent first. Saved
// references to listings that have since been deleted are skipped.
func GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cursor, err := db.WishlistCollection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch wishlist")
		return
	}
	defer cursor.Close(ctx)

	var saved []models.WishlistItem
	if err := cursor.All(ctx, &saved); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode wishlist")
		return
	}

	ids := make([]string, 0, len(saved))
	for _, s := range saved {
		ids = append(ids, s.ListingID)
	}

	items := []models.Listing{}
	if len(ids) > 0 {
		lc, err := db.ListingsCollection.Find(ctx, bson.M{"listingid": bson.M{"$in": ids}})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch listings")
			return
		}
		defer lc.Close(ctx)
		if err := lc.All(ctx, &items); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode listings")
			return
		}
		// Keep the wishlist's own ordering.
		byID := make(map[string]models.Listing, len(items))
		for _, l := range items {
			byID[l.ListingID] = l
		}
		ordered := make([]models.Listing, 0, len(items))
		for _, id := range ids {
			if l, ok := byID[id]; ok {
				ordered = append(ordered, l)
			}
		}
		items = ordered
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "listings": items})
}

// ToggleWishlist saves a listing if it is not saved yet, and unsaves it
// otherwise. The response reports which way it went.
func ToggleWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	listingID := ps.ByName("id")

	res, err := db.WishlistCollection.DeleteOne(ctx, bson.M{"userId": userID, "listingId": listingID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	if res.DeletedCount > 0 {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "saved": false})
		return
	}

	if err := db.ListingsCollection.FindOne(ctx, bson.M{"listingid": listingID}).Err(); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Listing not found")
		return
	}

	item := models.WishlistItem{
		UserID:    userID,
		ListingID: listingID,
		AddedAt:   time.Now(),
	}
	if _, err := db.WishlistCollection.InsertOne(ctx, item); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "saved": true})
}
