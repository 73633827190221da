package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Duty statuses
const (
	DutyOnDuty    = "ON_DUTY"
	DutyBreak     = "BREAK"
	DutySuspended = "SUSPENDED"
)

// Availability states
const (
	DriverAvailable = "AVAILABLE"
	DriverOnTrip    = "ON_TRIP"
)

// Safety score thresholds. Below the suspension threshold a driver is taken
// off duty; below the flagged threshold they show up in safety stats but can
// still be dispatched.
const (
	SuspensionScoreThreshold = 40
	FlaggedScoreThreshold    = 60
)

// Driver represents a fleet driver and their safety standing.
type Driver struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	LicenseNumber   string             `bson:"license_number" json:"licenseNumber"`
	LicenseCategory string             `bson:"license_category" json:"licenseCategory"` // vehicle type the license covers
	LicenseExpiry   time.Time          `bson:"license_expiry" json:"licenseExpiry"`
	DutyStatus      string             `bson:"duty_status" json:"dutyStatus"`
	Availability    string             `bson:"availability" json:"availability"`
	SafetyScore     int                `bson:"safety_score" json:"safetyScore"` // 0..100
	Complaints      int                `bson:"complaints" json:"complaints"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
}

// IsValidDutyStatus checks if a duty status value is known.
func IsValidDutyStatus(status string) bool {
	switch status {
	case DutyOnDuty, DutyBreak, DutySuspended:
		return true
	default:
		return false
	}
}

// Eligible reports whether the driver may be assigned to a new trip:
// on duty, free, holding an unexpired license and a safety score at or above
// the suspension threshold.
func (d *Driver) Eligible(now time.Time) bool {
	return d.DutyStatus == DutyOnDuty &&
		d.Availability == DriverAvailable &&
		d.LicenseExpiry.After(now) &&
		d.SafetyScore >= SuspensionScoreThreshold
}

// Flagged reports whether the driver falls below the soft warning threshold.
func (d *Driver) Flagged() bool {
	return d.SafetyScore < FlaggedScoreThreshold
}
