// Package domain defines typed identifiers shared across the service.
//
// Each entity gets its own UUID-backed type so the compiler rejects
// cross-entity assignment (an OfficerID can never be passed where a
// ShiftID is expected). Construct via the Parse helpers at trust
// boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "guardhq/pkg/domain-errors"
)

// Typed identifiers for the scheduling and command-center domains.
type (
	OfficerID uuid.UUID
	SiteID    uuid.UUID
	ShiftID   uuid.UUID
	AlertID   uuid.UUID
	EventID   uuid.UUID
	ActorID   uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseOfficerID validates external input into an OfficerID.
func ParseOfficerID(s string) (OfficerID, error) {
	u, err := parseUUID(s)
	return OfficerID(u), err
}

// ParseSiteID validates external input into a SiteID.
func ParseSiteID(s string) (SiteID, error) {
	u, err := parseUUID(s)
	return SiteID(u), err
}

// ParseShiftID validates external input into a ShiftID.
func ParseShiftID(s string) (ShiftID, error) {
	u, err := parseUUID(s)
	return ShiftID(u), err
}

// ParseAlertID validates external input into an AlertID.
func ParseAlertID(s string) (AlertID, error) {
	u, err := parseUUID(s)
	return AlertID(u), err
}

// ParseEventID validates external input into an EventID.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s)
	return EventID(u), err
}

// ParseActorID validates external input into an ActorID.
func ParseActorID(s string) (ActorID, error) {
	u, err := parseUUID(s)
	return ActorID(u), err
}

// New* helpers generate fresh identifiers for created entities.

func NewOfficerID() OfficerID { return OfficerID(uuid.New()) }
func NewSiteID() SiteID       { return SiteID(uuid.New()) }
func NewShiftID() ShiftID     { return ShiftID(uuid.New()) }
func NewAlertID() AlertID     { return AlertID(uuid.New()) }
func NewEventID() EventID     { return EventID(uuid.New()) }
func NewActorID() ActorID     { return ActorID(uuid.New()) }

func (id OfficerID) String() string { return uuid.UUID(id).String() }
func (id SiteID) String() string    { return uuid.UUID(id).String() }
func (id ShiftID) String() string   { return uuid.UUID(id).String() }
func (id AlertID) String() string   { return uuid.UUID(id).String() }
func (id EventID) String() string   { return uuid.UUID(id).String() }
func (id ActorID) String() string   { return uuid.UUID(id).String() }

func (id OfficerID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SiteID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ShiftID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id AlertID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ActorID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// MarshalText / UnmarshalText keep JSON payloads as plain UUID strings.

func (id OfficerID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id SiteID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id ShiftID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id AlertID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id EventID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id ActorID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

func (id *OfficerID) UnmarshalText(b []byte) error {
	parsed, err := ParseOfficerID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *SiteID) UnmarshalText(b []byte) error {
	parsed, err := ParseSiteID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ShiftID) UnmarshalText(b []byte) error {
	parsed, err := ParseShiftID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *AlertID) UnmarshalText(b []byte) error {
	parsed, err := ParseAlertID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *EventID) UnmarshalText(b []byte) error {
	parsed, err := ParseEventID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ActorID) UnmarshalText(b []byte) error {
	parsed, err := ParseActorID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
