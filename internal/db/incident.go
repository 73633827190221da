package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// IncidentCollection defines the interface for driver incident operations.
type IncidentCollection interface {
	InsertIncident(ctx context.Context, incident models.DriverIncident) (*models.DriverIncident, error)
	FindIncidentsByDriver(ctx context.Context, driverID primitive.ObjectID) ([]models.DriverIncident, error)
}

// MongoIncidentCollection implements IncidentCollection for MongoDB.
type MongoIncidentCollection struct {
	Collection *mongo.Collection
}

// InsertIncident appends an incident record and returns it with its new ID.
func (c *MongoIncidentCollection) InsertIncident(ctx context.Context, incident models.DriverIncident) (*models.DriverIncident, error) {
	result, err := c.Collection.InsertOne(ctx, incident)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		incident.ID = oid
	}
	return &incident, nil
}

// FindIncidentsByDriver lists a driver's incident history, newest first.
func (c *MongoIncidentCollection) FindIncidentsByDriver(ctx context.Context, driverID primitive.ObjectID) ([]models.DriverIncident, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := c.Collection.Find(ctx, bson.M{"driver_id": driverID}, opts)
	if err != nil {
		return nil, err
	}
	var incidents []models.DriverIncident
	if err := cursor.All(ctx, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}
