package export

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists export metadata so the console can list past archives.
// A nil *Store is a no-op: exports still upload, they just leave no trail.
type Store struct {
	col *mongo.Collection
}

func NewStore(col *mongo.Collection) *Store {
	return &Store{col: col}
}

// Save upserts the record keyed by exportId.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if s == nil || s.col == nil {
		return nil
	}
	filter := bson.M{"exportId": rec.ExportID}
	opts := options.Update().SetUpsert(true)
	if _, err := s.col.UpdateOne(ctx, filter, bson.M{"$set": rec}, opts); err != nil {
		return fmt.Errorf("save export record: %w", err)
	}
	return nil
}

// Recent returns the most recent export records, newest first.
func (s *Store) Recent(ctx context.Context, limit int64) ([]Record, error) {
	if s == nil || s.col == nil {
		return nil, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Record{}
	for cur.Next(ctx) {
		var r Record
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, cur.Err()
}
