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

// DriverCollection defines the interface for driver data operations.
type DriverCollection interface {
	InsertDriver(ctx context.Context, driver models.Driver) (*models.Driver, error)
	FindDrivers(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Driver, error)
	FindDriverByID(ctx context.Context, id string) (*models.Driver, error)
	SetDriverFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	SuspendExpiredLicenses(ctx context.Context, now time.Time) (int64, error)
	CountDrivers(ctx context.Context, filter bson.M) (int64, error)
}

// MongoDriverCollection implements DriverCollection for MongoDB.
type MongoDriverCollection struct {
	Collection *mongo.Collection
}

// InsertDriver inserts a driver record and returns it with its new ID.
func (c *MongoDriverCollection) InsertDriver(ctx context.Context, driver models.Driver) (*models.Driver, error) {
	if driver.CreatedAt.IsZero() {
		driver.CreatedAt = time.Now()
	}
	result, err := c.Collection.InsertOne(ctx, driver)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		driver.ID = oid
	}
	return &driver, nil
}

// FindDrivers queries driver records from the collection.
func (c *MongoDriverCollection) FindDrivers(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Driver, error) {
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var drivers []models.Driver
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, err
	}
	return drivers, nil
}

// FindDriverByID finds a driver by their ID.
func (c *MongoDriverCollection) FindDriverByID(ctx context.Context, id string) (*models.Driver, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var driver models.Driver
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&driver)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &driver, nil
}

// SetDriverFields applies a partial update to a driver.
func (c *MongoDriverCollection) SetDriverFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SuspendExpiredLicenses moves every driver whose license expired before now
// and who is not already suspended to SUSPENDED. Runs before list reads so
// stale duty statuses are never served.
func (c *MongoDriverCollection) SuspendExpiredLicenses(ctx context.Context, now time.Time) (int64, error) {
	result, err := c.Collection.UpdateMany(
		ctx,
		bson.M{
			"license_expiry": bson.M{"$lt": now},
			"duty_status":    bson.M{"$ne": models.DutySuspended},
		},
		bson.M{"$set": bson.M{"duty_status": models.DutySuspended}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// CountDrivers counts drivers matching the filter.
func (c *MongoDriverCollection) CountDrivers(ctx context.Context, filter bson.M) (int64, error) {
	return c.Collection.CountDocuments(ctx, filter)
}
