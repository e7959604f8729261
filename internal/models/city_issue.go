// internal/models/city_issue.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IssueType string

const (
	IssueTypePothole           IssueType = "POTHOLE"
	IssueTypeBrokenStreetlight IssueType = "BROKEN_STREETLIGHT"
	IssueTypeGarbageOverflow   IssueType = "GARBAGE_OVERFLOW"
	IssueTypeWaterLeak         IssueType = "WATER_LEAK"
	IssueTypeRoadDamage        IssueType = "ROAD_DAMAGE"
	IssueTypeVandalism         IssueType = "VANDALISM"
	IssueTypeNoisePollution    IssueType = "NOISE_POLLUTION"
	IssueTypeTrafficSignal     IssueType = "TRAFFIC_SIGNAL_ISSUE"
	IssueTypePublicToilet      IssueType = "PUBLIC_TOILET_ISSUE"
	IssueTypeIllegalParking    IssueType = "ILLEGAL_PARKING"
	IssueTypeStreetFlooding    IssueType = "STREET_FLOODING"
	IssueTypeOther             IssueType = "OTHER"
)

var issueTypes = []IssueType{
	IssueTypePothole,
	IssueTypeBrokenStreetlight,
	IssueTypeGarbageOverflow,
	IssueTypeWaterLeak,
	IssueTypeRoadDamage,
	IssueTypeVandalism,
	IssueTypeNoisePollution,
	IssueTypeTrafficSignal,
	IssueTypePublicToilet,
	IssueTypeIllegalParking,
	IssueTypeStreetFlooding,
	IssueTypeOther,
}

// AllIssueTypes returns every declared issue type.
func AllIssueTypes() []IssueType {
	out := make([]IssueType, len(issueTypes))
	copy(out, issueTypes)
	return out
}

// ParseIssueType matches s case-insensitively against the declared types.
func ParseIssueType(s string) (IssueType, bool) {
	t := IssueType(normalizeEnum(s))
	for _, known := range issueTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "PENDING"
	IssueStatusAssigned   IssueStatus = "ASSIGNED"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusResolved   IssueStatus = "RESOLVED"
)

// ParseIssueStatus normalizes free text ("in progress", "In-Progress")
// and matches it against the declared statuses.
func ParseIssueStatus(s string) (IssueStatus, bool) {
	switch st := IssueStatus(normalizeEnum(s)); st {
	case IssueStatusPending, IssueStatusAssigned, IssueStatusInProgress, IssueStatusResolved:
		return st, true
	}
	return "", false
}

func normalizeEnum(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// Address is embedded by value in its single owner (issue, citizen or
// technician) and never shared.
type Address struct {
	Name          string   `bson:"name" json:"name"`
	Locality      string   `bson:"locality" json:"locality"`
	StreetAddress string   `bson:"street_address" json:"street_address"`
	City          string   `bson:"city" json:"city"`
	State         string   `bson:"state" json:"state"`
	PinCode       string   `bson:"pin_code" json:"pin_code"`
	Mobile        string   `bson:"mobile" json:"mobile"`
	Latitude      *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude     *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

type Attachment struct {
	ID       primitive.ObjectID `bson:"id" json:"id"`
	ImageURL string             `bson:"image_url" json:"image_url"`
}

type Issue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	IssueType   IssueType          `bson:"issue_type" json:"issue_type"`
	Status      IssueStatus        `bson:"status" json:"status"`

	CitizenID   primitive.ObjectID `bson:"citizen_id" json:"citizen_id"`
	Address     Address            `bson:"address" json:"address"`
	Attachments []Attachment       `bson:"attachments" json:"attachments"`

	AssignedTechnicianIDs []primitive.ObjectID `bson:"assigned_technician_ids" json:"assigned_technician_ids"`

	ReportedAt time.Time  `bson:"reported_at" json:"reported_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
	ResolvedAt *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

func (i *Issue) GetID() primitive.ObjectID   { return i.ID }
func (i *Issue) SetID(id primitive.ObjectID) { i.ID = id }

// IsAssigned reports whether technicianID is in the current assignment set.
func (i *Issue) IsAssigned(technicianID primitive.ObjectID) bool {
	for _, id := range i.AssignedTechnicianIDs {
		if id == technicianID {
			return true
		}
	}
	return false
}
