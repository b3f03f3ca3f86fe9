package roster

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/platefront/platefront/backend/admin-console/pkg/logger"
)

var ErrNotFound = errors.New("user record not found")

// Repository defines persistence operations for end-user records.
//
// List always returns the collection ordered descending by createdAt
// (records without the field last); consumers never re-sort.
//
// Watch returns a channel that receives a tick whenever the collection
// changes. The channel is closed when ctx is done. A tick carries no
// payload: the consumer re-reads the full collection, so a coalesced or
// spurious tick is harmless.
type Repository interface {
	List(ctx context.Context) ([]UserRecord, error)
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// MongoRepository implements Repository on a Mongo collection. Change
// notifications come from a change stream when the deployment supports
// one (replica set), otherwise from interval polling.
type MongoRepository struct {
	col          *mongo.Collection
	pollInterval time.Duration
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col, pollInterval: 3 * time.Second}
}

func (r *MongoRepository) List(ctx context.Context) ([]UserRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []UserRecord{}
	for cur.Next(ctx) {
		var u UserRecord
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, cur.Err()
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Watch(ctx context.Context) (<-chan struct{}, error) {
	ticks := make(chan struct{}, 1)
	stream, err := r.col.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		// standalone deployments have no oplog; fall back to polling
		logger.Warnf("roster: change stream unavailable (%v), polling every %s", err, r.pollInterval)
		go r.poll(ctx, ticks)
		return ticks, nil
	}
	go func() {
		defer close(ticks)
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			select {
			case ticks <- struct{}{}:
			default: // a tick is already pending; coalesce
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logger.Errorf("roster: change stream ended: %v", err)
		}
	}()
	return ticks, nil
}

func (r *MongoRepository) poll(ctx context.Context, ticks chan<- struct{}) {
	defer close(ticks)
	t := time.NewTicker(r.pollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			select {
			case ticks <- struct{}{}:
			default:
			}
		}
	}
}
