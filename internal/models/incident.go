package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Incident types
const (
	IncidentLate      = "LATE"
	IncidentComplaint = "COMPLAINT"
	IncidentMinor     = "MINOR"
	IncidentMajor     = "MAJOR"
)

// incidentDeductions maps incident type to safety score deduction.
var incidentDeductions = map[string]int{
	IncidentLate:      5,
	IncidentComplaint: 10,
	IncidentMinor:     15,
	IncidentMajor:     30,
}

// DriverIncident is an append-only record of a driver safety event.
type DriverIncident struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DriverID      primitive.ObjectID `bson:"driver_id" json:"driverId"`
	Type          string             `bson:"type" json:"type"`
	Description   string             `bson:"description" json:"description"`
	SeverityScore int                `bson:"severity_score" json:"severityScore"`
	Date          time.Time          `bson:"date" json:"date"`
}

// IncidentDeduction returns the safety score deduction for an incident type,
// or false for an unknown type.
func IncidentDeduction(incidentType string) (int, bool) {
	d, ok := incidentDeductions[incidentType]
	return d, ok
}

// ApplyIncident deducts the incident's severity from the driver's safety
// score, clamping at zero, suspends the driver if the result falls below the
// suspension threshold and counts complaints. It mutates the driver in place.
func (d *Driver) ApplyIncident(incidentType string, deduction int) {
	score := d.SafetyScore - deduction
	if score < 0 {
		score = 0
	}
	d.SafetyScore = score

	if score < SuspensionScoreThreshold {
		d.DutyStatus = DutySuspended
	}
	if incidentType == IncidentComplaint {
		d.Complaints++
	}
}
