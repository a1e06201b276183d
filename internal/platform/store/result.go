// Package store holds the acknowledgement shapes returned by every write
// against the document store, independent of the backing driver.
package store

import "errors"

// ErrNotFound is returned by repositories when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

// InsertResult acknowledges a single insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult acknowledges an update of one or many documents.
type UpdateResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

// DeleteResult acknowledges a delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func Inserted(id string) *InsertResult {
	return &InsertResult{Acknowledged: true, InsertedID: id}
}
