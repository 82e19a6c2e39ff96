// Package models defines the roster entities: officers and the client
// sites they are assigned to.
package models

import (
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// EmploymentStatus of an officer on the roster.
type EmploymentStatus string

const (
	EmploymentActive     EmploymentStatus = "active"
	EmploymentOnLeave    EmploymentStatus = "on_leave"
	EmploymentTerminated EmploymentStatus = "terminated"
)

// IsValid checks if the status is one of the supported enum values.
func (s EmploymentStatus) IsValid() bool {
	switch s {
	case EmploymentActive, EmploymentOnLeave, EmploymentTerminated:
		return true
	}
	return false
}

// Officer is a member of the guard roster. Read-only from the validation
// engine's perspective; mutations go through the roster service.
type Officer struct {
	ID               id.OfficerID     `json:"id"`
	FullName         string           `json:"full_name"`
	Skills           []string         `json:"skills,omitempty"`
	BaseRate         float64          `json:"base_rate"`
	EmploymentStatus EmploymentStatus `json:"employment_status"`
}

// Validate enforces the officer invariants.
func (o Officer) Validate() error {
	if o.FullName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "full_name is required")
	}
	if o.BaseRate < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "base_rate cannot be negative")
	}
	if o.EmploymentStatus != "" && !o.EmploymentStatus.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid employment status")
	}
	return nil
}

// Site is a client location shifts are scheduled at.
type Site struct {
	ID                     id.SiteID `json:"id"`
	Name                   string    `json:"name"`
	Address                string    `json:"address,omitempty"`
	RequiredCertifications []string  `json:"required_certifications,omitempty"`
}

// Validate enforces the site invariants.
func (s Site) Validate() error {
	if s.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	return nil
}
