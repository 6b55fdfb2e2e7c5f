package models

import "time"

// Customer belongs to exactly one organization.
type Customer struct {
	ID             string
	OrganizationID string
	Name           string
	ContactName    string
	Email          string
	Phone          string
	Address        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CustomerFields carries the caller-supplied fields for create and update
// calls. OrganizationID is required on create and never changes afterwards.
type CustomerFields struct {
	OrganizationID string
	Name           string
	ContactName    string
	Email          string
	Phone          string
	Address        string
}

// Fields extracts the mutable business fields for an update call.
func (c Customer) Fields() CustomerFields {
	return CustomerFields{
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		ContactName:    c.ContactName,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
	}
}
