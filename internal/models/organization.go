package models

import "time"

// Organization is the tenant root. Every customer, project and calculator
// belongs to exactly one organization, and all scoped reads are filtered by
// the currently selected organization.
type Organization struct {
	ID          string
	Name        string
	Description string
	LogoURL     string
	Address     string
	Phone       string
	Email       string
	Website     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrganizationFields carries the caller-supplied fields for create and
// update calls. The remote store assigns ID and timestamps.
type OrganizationFields struct {
	Name        string
	Description string
	LogoURL     string
	Address     string
	Phone       string
	Email       string
	Website     string
}

// Fields extracts the mutable business fields for an update call.
func (o Organization) Fields() OrganizationFields {
	return OrganizationFields{
		Name:        o.Name,
		Description: o.Description,
		LogoURL:     o.LogoURL,
		Address:     o.Address,
		Phone:       o.Phone,
		Email:       o.Email,
		Website:     o.Website,
	}
}
