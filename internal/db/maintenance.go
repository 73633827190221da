package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// MaintenanceCollection defines the interface for maintenance log operations.
type MaintenanceCollection interface {
	InsertMaintenanceLog(ctx context.Context, log models.MaintenanceLog) (*models.MaintenanceLog, error)
	FindMaintenanceLogs(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.MaintenanceLog, error)
	CountMaintenanceLogs(ctx context.Context, filter bson.M) (int64, error)
}

// MongoMaintenanceCollection implements MaintenanceCollection for MongoDB.
type MongoMaintenanceCollection struct {
	Collection *mongo.Collection
}

// InsertMaintenanceLog inserts a maintenance record and returns it with its new ID.
func (c *MongoMaintenanceCollection) InsertMaintenanceLog(ctx context.Context, log models.MaintenanceLog) (*models.MaintenanceLog, error) {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	result, err := c.Collection.InsertOne(ctx, log)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		log.ID = oid
	}
	return &log, nil
}

// FindMaintenanceLogs queries maintenance records from the collection.
func (c *MongoMaintenanceCollection) FindMaintenanceLogs(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.MaintenanceLog, error) {
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var logs []models.MaintenanceLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// CountMaintenanceLogs counts maintenance records matching the filter.
func (c *MongoMaintenanceCollection) CountMaintenanceLogs(ctx context.Context, filter bson.M) (int64, error) {
	return c.Collection.CountDocuments(ctx, filter)
}
