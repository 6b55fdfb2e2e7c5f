package models

import "time"

// EntryKind tags a calculator line item.
type EntryKind string

const (
	EntryMaterial    EntryKind = "material"
	EntryLabor       EntryKind = "labor"
	EntryEquipment   EntryKind = "equipment"
	EntrySubcontract EntryKind = "subcontract"
	EntryOther       EntryKind = "other"
)

// Entry is one line item in a calculator worksheet. Entries are stored on
// the remote row as a JSON document, so the field names are part of the
// remote schema.
type Entry struct {
	ID          string    `json:"id"`
	Kind        EntryKind `json:"kind"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	UnitCost    float64   `json:"unitCost"`
	MarkupPct   float64   `json:"markupPct"`
}

// Cost is the raw cost of the line: quantity times unit cost.
func (e Entry) Cost() float64 {
	return e.Quantity * e.UnitCost
}

// Price is the line cost with markup applied.
func (e Entry) Price() float64 {
	return e.Cost() * (1 + e.MarkupPct/100)
}

// Summary is the aggregate row derived from a calculator's entries.
type Summary struct {
	TotalCost   float64 `json:"totalCost"`
	TotalMarkup float64 `json:"totalMarkup"`
	TotalPrice  float64 `json:"totalPrice"`
	EntryCount  int     `json:"entryCount"`
}

// CalculateSummary derives the aggregate row from a set of entries.
func CalculateSummary(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		s.TotalCost += e.Cost()
		s.TotalPrice += e.Price()
	}
	s.TotalMarkup = s.TotalPrice - s.TotalCost
	s.EntryCount = len(entries)
	return s
}

// Calculator is a cost/price worksheet attached to a project. Its
// OrganizationID always equals the owning project's OrganizationID.
type Calculator struct {
	ID             string
	OrganizationID string
	ProjectID      string
	Name           string
	Description    string
	Entries        []Entry
	Summary        Summary
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CalculatorFields carries the caller-supplied fields for create and update
// calls.
type CalculatorFields struct {
	OrganizationID string
	ProjectID      string
	Name           string
	Description    string
	Entries        []Entry
	Summary        Summary
}

// Fields extracts the mutable business fields for an update call.
func (c Calculator) Fields() CalculatorFields {
	return CalculatorFields{
		OrganizationID: c.OrganizationID,
		ProjectID:      c.ProjectID,
		Name:           c.Name,
		Description:    c.Description,
		Entries:        c.Entries,
		Summary:        c.Summary,
	}
}

// CloneEntries returns an independent copy of a calculator's entries.
func CloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
