package docstore

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentalportal/portal/internal/platform/store"
)

// IDString renders a driver-generated id as the opaque string the API uses.
func IDString(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func InsertResult(res *mongo.InsertOneResult) *store.InsertResult {
	return store.Inserted(IDString(res.InsertedID))
}

func UpdateResult(res *mongo.UpdateResult) *store.UpdateResult {
	return &store.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    IDString(res.UpsertedID),
	}
}

func DeleteResult(res *mongo.DeleteResult) *store.DeleteResult {
	return &store.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}
