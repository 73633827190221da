package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterCollection hands out monotonically increasing sequence numbers.
type CounterCollection interface {
	NextSequence(ctx context.Context, name string) (int64, error)
}

// MongoCounterCollection implements CounterCollection on a counters
// collection with one document per sequence.
type MongoCounterCollection struct {
	Collection *mongo.Collection
}

// NextSequence atomically increments and returns the named sequence. The
// $inc upsert means concurrent callers never see the same value.
func (c *MongoCounterCollection) NextSequence(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := c.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}
