// Package models defines the command-center entities: panic alerts,
// geofence events, officer locations, the activity feed, and the bus event
// envelope.
package models

import (
	"time"

	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// Event types carried on the realtime bus. Subscribers may also register
// for EventAny to observe everything.
const (
	EventPanicAlert     = "panic_alert"
	EventGeofenceBreach = "geofence_breach"
	EventLocationUpdate = "location_update"
	EventActivity       = "activity"
	EventAny            = "*"
)

// PanicAlertStatus tracks the alert lifecycle: active, acknowledged,
// resolved. Each mutation moves exactly one step; callers own the ordering.
type PanicAlertStatus string

const (
	PanicActive       PanicAlertStatus = "active"
	PanicAcknowledged PanicAlertStatus = "acknowledged"
	PanicResolved     PanicAlertStatus = "resolved"
)

// Location is a GPS fix.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PanicAlert is an officer-initiated distress signal.
type PanicAlert struct {
	ID             id.AlertID       `json:"id"`
	OfficerID      id.OfficerID     `json:"officer_id"`
	Location       Location         `json:"location"`
	Timestamp      time.Time        `json:"timestamp"`
	Status         PanicAlertStatus `json:"status"`
	AcknowledgedBy id.ActorID       `json:"acknowledged_by,omitzero"`
	AcknowledgedAt *time.Time       `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// GeofenceEventType distinguishes perimeter entries from exits. The
// command center surfaces unacknowledged exits.
type GeofenceEventType string

const (
	GeofenceEnter GeofenceEventType = "enter"
	GeofenceExit  GeofenceEventType = "exit"
)

// GeofenceEvent records an officer crossing a site perimeter.
// Acknowledgement is one-way; there is no un-acknowledge.
type GeofenceEvent struct {
	ID           id.EventID        `json:"id"`
	OfficerID    id.OfficerID      `json:"officer_id"`
	SiteID       id.SiteID         `json:"site_id"`
	EventType    GeofenceEventType `json:"event_type"`
	Acknowledged bool              `json:"acknowledged"`
	Timestamp    time.Time         `json:"timestamp"`
}

// Validate enforces the geofence event invariants.
func (e GeofenceEvent) Validate() error {
	if e.OfficerID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "officer_id is required")
	}
	if e.SiteID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "site_id is required")
	}
	if e.EventType != GeofenceEnter && e.EventType != GeofenceExit {
		return dErrors.New(dErrors.CodeInvalidInput, "event_type must be enter or exit")
	}
	return nil
}

// OfficerLocation is the latest known position of an officer. One entry
// per officer; updates replace.
type OfficerLocation struct {
	OfficerID id.OfficerID `json:"officer_id"`
	Lat       float64      `json:"lat"`
	Lng       float64      `json:"lng"`
	Accuracy  float64      `json:"accuracy,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ActivityEntry is one line of the command-center activity feed.
type ActivityEntry struct {
	ID        id.EventID   `json:"id"`
	Type      string       `json:"type"`
	Message   string       `json:"message"`
	OfficerID id.OfficerID `json:"officer_id,omitzero"`
	SiteID    id.SiteID    `json:"site_id,omitzero"`
	Timestamp time.Time    `json:"timestamp"`
}

// RealtimeEvent is the envelope published on the bus and streamed to
// WebSocket clients. Payload holds the triggering entity.
type RealtimeEvent struct {
	ID        id.EventID   `json:"id"`
	Type      string       `json:"type"`
	Payload   any          `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
	OfficerID id.OfficerID `json:"officer_id,omitzero"`
	SiteID    id.SiteID    `json:"site_id,omitzero"`
}

// CommandCenterSummary aggregates the live state for the overview screen.
type CommandCenterSummary struct {
	ActivePanicAlerts  []PanicAlert      `json:"active_panic_alerts"`
	UnackedGeofence    []GeofenceEvent   `json:"unacknowledged_geofence_exits"`
	OfficerLocations   []OfficerLocation `json:"officer_locations"`
	CriticalAlertCount int               `json:"critical_alert_count"`
	GeneratedAt        time.Time         `json:"generated_at"`
}
