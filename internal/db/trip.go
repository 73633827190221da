package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// TripCollection defines the interface for trip data operations.
type TripCollection interface {
	InsertTrip(ctx context.Context, trip models.Trip) (*models.Trip, error)
	FindTrips(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Trip, error)
	FindTripByID(ctx context.Context, id string) (*models.Trip, error)
	SetTripFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	CountTrips(ctx context.Context, filter bson.M) (int64, error)
}

// MongoTripCollection implements TripCollection for MongoDB.
type MongoTripCollection struct {
	Collection *mongo.Collection
}

// InsertTrip inserts a trip record and returns it with its new ID.
func (c *MongoTripCollection) InsertTrip(ctx context.Context, trip models.Trip) (*models.Trip, error) {
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now()
	}
	result, err := c.Collection.InsertOne(ctx, trip)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		trip.ID = oid
	}
	return &trip, nil
}

// FindTrips queries trip records from the collection.
func (c *MongoTripCollection) FindTrips(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Trip, error) {
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var trips []models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// FindTripByID finds a trip by its ID.
func (c *MongoTripCollection) FindTripByID(ctx context.Context, id string) (*models.Trip, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var trip models.Trip
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &trip, nil
}

// SetTripFields applies a partial update to a trip.
func (c *MongoTripCollection) SetTripFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountTrips counts trips matching the filter.
func (c *MongoTripCollection) CountTrips(ctx context.Context, filter bson.M) (int64, error) {
	return c.Collection.CountDocuments(ctx, filter)
}
