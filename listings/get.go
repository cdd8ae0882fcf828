package listings

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"time"

	"nguza/db"
	"nguza/models"
	"nguza/mq"
	"nguza/rdx"
	"nguza/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetListings serves the public browse query. Any status override is forced
// back to active before compilation, so the response is identical for every
// caller and safe to replay from the page cache.
func GetListings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	serveListings(w, r, forceActiveStatus(r.URL.Query()))
}

// AdminListings is the uncached admin view: the status override passes
// through, so "all", "suspended" and friends work as written.
func AdminListings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	serveListings(w, r, r.URL.Query())
}

func serveListings(w http.ResponseWriter, r *http.Request, vals url.Values) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := Compile(vals)

	opts := options.Find().SetSort(q.Sort).SetSkip(q.Skip).SetLimit(q.Limit)
	if q.Projection != nil {
		opts.SetProjection(q.Projection)
	}

	cursor, err := db.ListingsCollection.Find(ctx, q.Filter, opts)
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

	total, err := db.ListingsCollection.CountDocuments(ctx, q.Filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count listings")
		return
	}

	dispatchSellerBackfill(ctx, items)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"listings": items,
		"total":    total,
		"limit":    q.Limit,
		"skip":     q.Skip,
		"hasMore":  q.Skip+int64(len(items)) < total,
	})
}

// forceActiveStatus rewrites any status override to active. Cached pages are
// replayed verbatim to whoever asks next, so the public query must compile
// the same way no matter who sent it.
func forceActiveStatus(vals url.Values) url.Values {
	if vals.Get("status") != "" {
		vals.Set("status", models.StatusActive)
	}
	return vals
}

// CountView increments the view counter for the listing in the path. It sits
// in front of the page cache in the route chain, so every GET counts exactly
// once whether the body comes from the handler or from cache.
func CountView(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		_, err := db.ListingsCollection.UpdateOne(ctx,
			bson.M{"listingid": ps.ByName("id")},
			bson.M{"$inc": bson.M{"views": 1}},
		)
		cancel()
		if err != nil {
			log.Printf("View count failed for %s: %v", ps.ByName("id"), err)
		}
		next(w, r, ps)
	}
}

// GetListing returns one listing. The view counter is handled by CountView
// upstream, not here, so cache hits still count.
func GetListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	listingID := ps.ByName("id")

	var listing models.Listing
	err := db.ListingsCollection.FindOne(ctx, bson.M{"listingid": listingID}).Decode(&listing)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Listing not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch listing")
		return
	}

	dispatchSellerBackfill(ctx, []models.Listing{listing})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "listing": listing})
}

// RecordContactClick counts a buyer tapping the seller contact. The counter
// rides through redis and is flushed to Mongo in batches.
func RecordContactClick(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	listingID := ps.ByName("id")
	if err := db.ListingsCollection.FindOne(ctx, bson.M{"listingid": listingID}).Err(); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Listing not found")
		return
	}

	rdx.RecordContactClick(listingID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// dispatchSellerBackfill queues contact resolution for any returned listing
// missing denormalized seller fields. Best-effort: the response never waits
// on it and failures stay in the logs.
func dispatchSellerBackfill(ctx context.Context, items []models.Listing) {
	var ids []string
	for _, l := range items {
		if l.SellerName == "" || l.SellerPhone == "" {
			ids = append(ids, l.ListingID)
		}
	}
	mq.EmitBackfill(ctx, ids)
}
