package mq

import (
	"context"
	"encoding/json"
	"log"

	"nguza/db"
	"nguza/models"
	"nguza/rdx"

	"go.mongodb.org/mongo-driver/bson"
)

// StartBackfillWorker subscribes to the backfill channel and persists seller
// contact fields onto listings. Every failure is logged and skipped; the
// worker never takes a request down with it.
func StartBackfillWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, backfillChannel)
	ch := sub.Channel()

	log.Println("[BackfillWorker] Listening for seller backfill events...")

	for msg := range ch {
		var event BackfillEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[BackfillWorker] Failed to parse event: %v", err)
			continue
		}
		for _, listingID := range event.ListingIDs {
			if err := backfillListing(ctx, listingID); err != nil {
				log.Printf("[BackfillWorker] %s: %v", listingID, err)
			}
		}
	}
}

func backfillListing(ctx context.Context, listingID string) error {
	var listing models.Listing
	err := db.ListingsCollection.FindOne(ctx, bson.M{"listingid": listingID}).Decode(&listing)
	if err != nil {
		return err
	}
	if listing.SellerName != "" && listing.SellerPhone != "" {
		return nil
	}

	var seller models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": listing.SellerID}).Decode(&seller); err != nil {
		return err
	}

	_, err = db.ListingsCollection.UpdateOne(ctx,
		bson.M{"listingid": listingID},
		bson.M{"$set": bson.M{
			"sellerName":  seller.Username,
			"sellerPhone": seller.PhoneNumber,
		}},
	)
	return err
}
