package db

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection           *mongo.Collection
	ListingsCollection       *mongo.Collection
	CartCollection           *mongo.Collection
	WishlistCollection       *mongo.Collection
	OrderCollection          *mongo.Collection
	DistrictsCollection      *mongo.Collection
	CropTypesCollection      *mongo.Collection
	LivestockBreedCollection *mongo.Collection
	Client                   *mongo.Client
)

// Init connects to MongoDB and binds the package-level collections.
// Called once from main before any routes are served.
func Init() error {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "nguzadb"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	Client = client

	database := client.Database(dbName)
	UserCollection = database.Collection("users")
	ListingsCollection = database.Collection("listings")
	CartCollection = database.Collection("cart")
	WishlistCollection = database.Collection("wishlist")
	OrderCollection = database.Collection("orders")
	DistrictsCollection = database.Collection("districts")
	CropTypesCollection = database.Collection("croptypes")
	LivestockBreedCollection = database.Collection("livestockbreeds")

	if err := ensureIndexes(ctx); err != nil {
		log.Printf("Index creation failed: %v", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context) error {
	// Phone and email are unique only when present; OAuth-first accounts
	// carry neither field until the user fills them in.
	_, err := UserCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "phoneNumber", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"phoneNumber": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
		},
	})
	if err != nil {
		return err
	}

	_, err = ListingsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
		{Keys: bson.D{{Key: "listingid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "subCategory", Value: 1}}},
		{Keys: bson.D{{Key: "location.district", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = OrderCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Close disconnects the client, used during graceful shutdown.
func Close(ctx context.Context) {
	if Client == nil {
		return
	}
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("Mongo disconnect error: %v", err)
	}
}
