package rdx

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"nguza/db"
	"nguza/globals"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
)

// RecordContactClick bumps the redis-side contact counter for a listing.
// Click totals tolerate batching, so they ride through redis and reach Mongo
// on the next flush. Failure is logged only.
func RecordContactClick(listingID string) {
	key := fmt.Sprintf("contact:count:%s", listingID)
	if err := Conn.Incr(globals.Ctx, key).Err(); err != nil {
		log.Printf("Contact click incr failed for %s: %v", listingID, err)
		return
	}
	Conn.Expire(globals.Ctx, key, 2*time.Minute)
}

// listingIDFromCounterKey extracts the listing id from a contact counter key.
func listingIDFromCounterKey(key string) (string, bool) {
	parts := strings.Split(key, ":")
	if len(parts) != 3 || parts[0] != "contact" || parts[1] != "count" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

// FlushContactClicks moves accumulated contact-click counts from redis into
// the listings collection in bulk. Runs for the life of the process.
func FlushContactClicks() {
	ticker := time.NewTicker(30 * time.Second)
	for range ticker.C {
		keys, err := Conn.Keys(globals.Ctx, "contact:count:*").Result()
		if err != nil {
			log.Println("Redis scan error:", err)
			continue
		}

		for _, key := range keys {
			listingID, ok := listingIDFromCounterKey(key)
			if !ok {
				log.Println("Invalid contact counter key:", key)
				continue
			}

			// GETDEL reads and clears atomically, so clicks landing between
			// a separate read and delete can never be dropped.
			countStr, err := Conn.GetDel(globals.Ctx, key).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				log.Println("Redis GetDel error for key", key, ":", err)
				continue
			}
			count, err := strconv.ParseInt(countStr, 10, 64)
			if err != nil {
				log.Println("Failed to parse contact count:", countStr)
				continue
			}
			if count == 0 {
				continue
			}

			_, err = db.ListingsCollection.UpdateOne(globals.Ctx,
				bson.M{"listingid": listingID},
				bson.M{"$inc": bson.M{"contactClicks": count}},
			)
			if err != nil {
				log.Println("MongoDB update error for listing", listingID, ":", err)
				// Put the count back so the next flush retries it.
				if err := Conn.IncrBy(globals.Ctx, key, count).Err(); err != nil {
					log.Println("Failed to restore contact count for", listingID, ":", err)
				}
			}
		}
	}
}
