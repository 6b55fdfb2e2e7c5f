package models

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusPlanning  ProjectStatus = "planning"
	StatusActive    ProjectStatus = "active"
	StatusOnHold    ProjectStatus = "on-hold"
	StatusCompleted ProjectStatus = "completed"
)

// Valid reports whether s is one of the known project statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

// Project is a piece of work for a customer. Its CustomerID must reference a
// customer with the same OrganizationID; the remote store enforces this.
type Project struct {
	ID             string
	OrganizationID string
	CustomerID     string
	Name           string
	Description    string
	Status         ProjectStatus
	StartDate      time.Time
	EndDate        *time.Time
	Budget         *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProjectFields carries the caller-supplied fields for create and update
// calls.
type ProjectFields struct {
	OrganizationID string
	CustomerID     string
	Name           string
	Description    string
	Status         ProjectStatus
	StartDate      time.Time
	EndDate        *time.Time
	Budget         *float64
}

// Fields extracts the mutable business fields for an update call.
func (p Project) Fields() ProjectFields {
	return ProjectFields{
		OrganizationID: p.OrganizationID,
		CustomerID:     p.CustomerID,
		Name:           p.Name,
		Description:    p.Description,
		Status:         p.Status,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Budget:         p.Budget,
	}
}
