package cart

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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetCart returns the caller's cart items with a running total.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode cart")
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}

	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"items":   items,
		"total":   total,
	})
}

// AddToCart puts a listing into the cart. Re-adding the same listing bumps
// the quantity; the stored unit price stays what it was on first add.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		ListingID string `json:"listingId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ListingID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	var listing models.Listing
	err := db.ListingsCollection.FindOne(ctx, bson.M{"listingid": input.ListingID}).Decode(&listing)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Listing not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch listing")
		return
	}
	if listing.Status != models.StatusActive {
		utils.RespondWithError(w, http.StatusBadRequest, "Listing is no longer available")
		return
	}
	if listing.SellerID == userID {
		utils.RespondWithError(w, http.StatusBadRequest, "Cannot add your own listing to cart")
		return
	}

	price := listing.RegularPrice
	if listing.Offer && listing.DiscountedPrice > 0 {
		price = listing.DiscountedPrice
	}

	var imageURL string
	if len(listing.ImageURLs) > 0 {
		imageURL = listing.ImageURLs[0]
	}

	_, err = db.CartCollection.UpdateOne(ctx,
		bson.M{"userId": userID, "listingId": input.ListingID},
		bson.M{
			"$inc": bson.M{"quantity": input.Quantity},
			"$setOnInsert": bson.M{
				"name":     listing.Name,
				"unit":     listing.Details.Unit,
				"price":    price,
				"imageUrl": imageURL,
				"addedAt":  time.Now(),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Added to cart"})
}

// UpdateCartItem sets the quantity of an item already in the cart. A zero or
// negative quantity removes it.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	listingID := ps.ByName("id")

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Quantity <= 0 {
		res, err := db.CartCollection.DeleteOne(ctx, bson.M{"userId": userID, "listingId": listingID})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
			return
		}
		if res.DeletedCount == 0 {
			utils.RespondWithError(w, http.StatusNotFound, "Item not in cart")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Item removed"})
		return
	}

	res, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"userId": userID, "listingId": listingID},
		bson.M{"$set": bson.M{"quantity": input.Quantity}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Item not in cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "quantity": input.Quantity})
}

// RemoveFromCart deletes one item from the cart.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	res, err := db.CartCollection.DeleteOne(ctx, bson.M{
		"userId":    userID,
		"listingId": ps.ByName("id"),
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove item")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Item not in cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Item removed"})
}

// ClearCart empties the caller's cart.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Cart cleared"})
}
