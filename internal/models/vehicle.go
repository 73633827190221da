package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleStatus values match what the dispatch board displays.
const (
	VehicleAvailable    = "Available"
	VehicleOnTrip       = "On Trip"
	VehicleInShop       = "In Shop"
	VehicleOutOfService = "Out of Service"
)

// Vehicle types
const (
	VehicleTruck = "TRUCK"
	VehicleVan   = "VAN"
	VehicleBike  = "BIKE"
)

// Vehicle represents a fleet vehicle.
type Vehicle struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	LicensePlate    string             `bson:"license_plate" json:"licensePlate"`
	Type            string             `bson:"type" json:"type"` // "TRUCK", "VAN" or "BIKE"
	MaxLoadCapacity float64            `bson:"max_load_capacity" json:"maxLoadCapacity"` // in kg
	AcquisitionCost float64            `bson:"acquisition_cost" json:"acquisitionCost"`
	Odometer        float64            `bson:"odometer" json:"odometer"` // in kilometers
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
}

// IsValidVehicleStatus checks if a status is one of the known lifecycle states.
func IsValidVehicleStatus(status string) bool {
	switch status {
	case VehicleAvailable, VehicleOnTrip, VehicleInShop, VehicleOutOfService:
		return true
	default:
		return false
	}
}
