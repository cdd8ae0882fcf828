package mq

import (
	"context"
	"encoding/json"
	"log"

	"nguza/rdx"
)

// BackfillEvent asks the worker to re-resolve seller contact fields for a
// batch of listings. Emitting is fire-and-forget: a lost event only delays
// the backfill until the listings are read again.
type BackfillEvent struct {
	ListingIDs []string `json:"listing_ids"`
}

const backfillChannel = "seller-backfill"

// EmitBackfill publishes a backfill request to redis. Failures are logged,
// never surfaced to the caller.
func EmitBackfill(ctx context.Context, listingIDs []string) {
	if len(listingIDs) == 0 {
		return
	}
	data, err := json.Marshal(BackfillEvent{ListingIDs: listingIDs})
	if err != nil {
		log.Printf("Backfill marshal error: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, backfillChannel, data).Err(); err != nil {
		log.Printf("Backfill publish error: %v", err)
	}
}
