package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Maintenance statuses
const (
	MaintenancePending    = "Pending"
	MaintenanceInProgress = "In Progress"
	MaintenanceCompleted  = "Completed"
)

// MaintenanceLog represents a vehicle service record. Creating one moves the
// vehicle into the shop.
type MaintenanceLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID   primitive.ObjectID `bson:"vehicle_id" json:"vehicleId"`
	ServiceType string             `bson:"service_type" json:"serviceType"` // e.g. "Oil Change", "Brake Inspection"
	Description string             `bson:"description" json:"description"`
	Cost        float64            `bson:"cost" json:"cost"`
	Date        time.Time          `bson:"date" json:"date"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
