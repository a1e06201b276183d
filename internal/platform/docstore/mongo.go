// Package docstore connects to the MongoDB document store and owns its
// collection names and lookup indexes.
package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dentalportal/portal/internal/platform/db"
)

// Collection names.
const (
	Services = "service"
	Bookings = "bookings"
	Users    = "users"
	Doctors  = "doctors"
)

// Connect opens a client against uri with the stable v1 server API and pings
// the primary before returning.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(10 * time.Second).
		// Free-form booking fields decode as maps so they render as JSON objects.
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// Check probes the primary for the health endpoint.
func Check(client *mongo.Client) db.Check {
	return db.Check{
		Name: "mongo",
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}
}

// ObjectID parses a hex id. ok is false for anything that is not a valid
// ObjectID, which callers treat as "no such document".
func ObjectID(id string) (oid primitive.ObjectID, ok bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// indexSpecs lists the lookup indexes per collection.
func indexSpecs() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		Services: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetName("name_1")},
		},
		Bookings: {
			{Keys: bson.D{{Key: "appointmentDate", Value: 1}}, Options: options.Index().SetName("appointmentDate_1")},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("email_1")},
			{
				Keys: bson.D{
					{Key: "email", Value: 1},
					{Key: "appointmentDate", Value: 1},
					{Key: "treatment", Value: 1},
				},
				Options: options.Index().SetName("email_1_appointmentDate_1_treatment_1"),
			},
		},
		Users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("email_1")},
		},
	}
}

// EnsureIndexes creates the lookup indexes and returns their names. Existing
// indexes with the same keys and name are left alone by the server.
func EnsureIndexes(ctx context.Context, database *mongo.Database) ([]string, error) {
	var created []string
	for coll, models := range indexSpecs() {
		names, err := database.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return created, fmt.Errorf("create indexes on %s: %w", coll, err)
		}
		for _, n := range names {
			created = append(created, coll+"."+n)
		}
	}
	return created, nil
}
