package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nordfjell/anbud/internal/models"
)

// Memory is an in-memory remote store for development and testing. It plays
// the server role: it assigns ids and timestamps and tolerates
// zero-rows-affected updates and deletes, the same contract the real
// backends expose.
type Memory struct {
	mu          sync.RWMutex
	now         func() time.Time
	orgs        []models.Organization
	customers   []models.Customer
	projects    []models.Project
	calculators []models.Calculator
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithMemoryClock overrides the timestamp source, for tests.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates an empty in-memory remote store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Gateway returns the per-entity gateway views over this store.
func (m *Memory) Gateway() Gateway {
	return Gateway{
		Organizations: &memoryOrganizations{m},
		Customers:     &memoryCustomers{m},
		Projects:      &memoryProjects{m},
		Calculators:   &memoryCalculators{m},
	}
}

type memoryOrganizations struct{ m *Memory }

func (g *memoryOrganizations) List(ctx context.Context) ([]models.Organization, error) {
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()

	out := make([]models.Organization, 0, len(g.m.orgs))
	for i := len(g.m.orgs) - 1; i >= 0; i-- {
		out = append(out, g.m.orgs[i])
	}
	return out, nil
}

func (g *memoryOrganizations) Create(ctx context.Context, fields models.OrganizationFields) (models.Organization, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	now := g.m.now()
	org := models.Organization{
		ID:          uuid.NewString(),
		Name:        fields.Name,
		Description: fields.Description,
		LogoURL:     fields.LogoURL,
		Address:     fields.Address,
		Phone:       fields.Phone,
		Email:       fields.Email,
		Website:     fields.Website,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	g.m.orgs = append(g.m.orgs, org)
	return org, nil
}

func (g *memoryOrganizations) Update(ctx context.Context, id string, fields models.OrganizationFields) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	for i, org := range g.m.orgs {
		if org.ID != id {
			continue
		}
		org.Name = fields.Name
		org.Description = fields.Description
		org.LogoURL = fields.LogoURL
		org.Address = fields.Address
		org.Phone = fields.Phone
		org.Email = fields.Email
		org.Website = fields.Website
		org.UpdatedAt = g.m.now()
		g.m.orgs[i] = org
		return nil
	}
	// Zero rows affected is success, same as the SQL backends.
	return nil
}

func (g *memoryOrganizations) Delete(ctx context.Context, id string) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	out := g.m.orgs[:0:0]
	for _, org := range g.m.orgs {
		if org.ID != id {
			out = append(out, org)
		}
	}
	g.m.orgs = out
	return nil
}

type memoryCustomers struct{ m *Memory }

func (g *memoryCustomers) List(ctx context.Context) ([]models.Customer, error) {
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()

	out := make([]models.Customer, 0, len(g.m.customers))
	for i := len(g.m.customers) - 1; i >= 0; i-- {
		out = append(out, g.m.customers[i])
	}
	return out, nil
}

func (g *memoryCustomers) Create(ctx context.Context, fields models.CustomerFields) (models.Customer, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	now := g.m.now()
	c := models.Customer{
		ID:             uuid.NewString(),
		OrganizationID: fields.OrganizationID,
		Name:           fields.Name,
		ContactName:    fields.ContactName,
		Email:          fields.Email,
		Phone:          fields.Phone,
		Address:        fields.Address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	g.m.customers = append(g.m.customers, c)
	return c, nil
}

func (g *memoryCustomers) Update(ctx context.Context, id string, fields models.CustomerFields) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	for i, c := range g.m.customers {
		if c.ID != id {
			continue
		}
		c.OrganizationID = fields.OrganizationID
		c.Name = fields.Name
		c.ContactName = fields.ContactName
		c.Email = fields.Email
		c.Phone = fields.Phone
		c.Address = fields.Address
		c.UpdatedAt = g.m.now()
		g.m.customers[i] = c
		return nil
	}
	return nil
}

func (g *memoryCustomers) Delete(ctx context.Context, id string) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	out := g.m.customers[:0:0]
	for _, c := range g.m.customers {
		if c.ID != id {
			out = append(out, c)
		}
	}
	g.m.customers = out
	return nil
}

type memoryProjects struct{ m *Memory }

// cloneProject detaches the pointer fields so callers and the store never
// share EndDate or Budget memory, the same isolation a real remote row has.
func cloneProject(p models.Project) models.Project {
	if p.EndDate != nil {
		d := *p.EndDate
		p.EndDate = &d
	}
	if p.Budget != nil {
		b := *p.Budget
		p.Budget = &b
	}
	return p
}

func (g *memoryProjects) List(ctx context.Context) ([]models.Project, error) {
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()

	out := make([]models.Project, 0, len(g.m.projects))
	for i := len(g.m.projects) - 1; i >= 0; i-- {
		out = append(out, cloneProject(g.m.projects[i]))
	}
	return out, nil
}

func (g *memoryProjects) Create(ctx context.Context, fields models.ProjectFields) (models.Project, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	now := g.m.now()
	p := cloneProject(models.Project{
		ID:             uuid.NewString(),
		OrganizationID: fields.OrganizationID,
		CustomerID:     fields.CustomerID,
		Name:           fields.Name,
		Description:    fields.Description,
		Status:         fields.Status,
		StartDate:      fields.StartDate,
		EndDate:        fields.EndDate,
		Budget:         fields.Budget,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	g.m.projects = append(g.m.projects, p)
	return cloneProject(p), nil
}

func (g *memoryProjects) Update(ctx context.Context, id string, fields models.ProjectFields) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	for i, p := range g.m.projects {
		if p.ID != id {
			continue
		}
		p.OrganizationID = fields.OrganizationID
		p.CustomerID = fields.CustomerID
		p.Name = fields.Name
		p.Description = fields.Description
		p.Status = fields.Status
		p.StartDate = fields.StartDate
		p.EndDate = fields.EndDate
		p.Budget = fields.Budget
		p.UpdatedAt = g.m.now()
		g.m.projects[i] = cloneProject(p)
		return nil
	}
	return nil
}

func (g *memoryProjects) Delete(ctx context.Context, id string) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	out := g.m.projects[:0:0]
	for _, p := range g.m.projects {
		if p.ID != id {
			out = append(out, p)
		}
	}
	g.m.projects = out
	return nil
}

type memoryCalculators struct{ m *Memory }

func (g *memoryCalculators) List(ctx context.Context) ([]models.Calculator, error) {
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()

	out := make([]models.Calculator, 0, len(g.m.calculators))
	for i := len(g.m.calculators) - 1; i >= 0; i-- {
		c := g.m.calculators[i]
		c.Entries = models.CloneEntries(c.Entries)
		out = append(out, c)
	}
	return out, nil
}

func (g *memoryCalculators) Create(ctx context.Context, fields models.CalculatorFields) (models.Calculator, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	return g.create(fields), nil
}

func (g *memoryCalculators) CreateBatch(ctx context.Context, fields []models.CalculatorFields) ([]models.Calculator, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	out := make([]models.Calculator, 0, len(fields))
	for _, f := range fields {
		out = append(out, g.create(f))
	}
	return out, nil
}

// create assumes the write lock is held.
func (g *memoryCalculators) create(fields models.CalculatorFields) models.Calculator {
	now := g.m.now()
	c := models.Calculator{
		ID:             uuid.NewString(),
		OrganizationID: fields.OrganizationID,
		ProjectID:      fields.ProjectID,
		Name:           fields.Name,
		Description:    fields.Description,
		Entries:        models.CloneEntries(fields.Entries),
		Summary:        fields.Summary,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	g.m.calculators = append(g.m.calculators, c)
	return c
}

func (g *memoryCalculators) Update(ctx context.Context, id string, fields models.CalculatorFields) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	for i, c := range g.m.calculators {
		if c.ID != id {
			continue
		}
		c.OrganizationID = fields.OrganizationID
		c.ProjectID = fields.ProjectID
		c.Name = fields.Name
		c.Description = fields.Description
		c.Entries = models.CloneEntries(fields.Entries)
		c.Summary = fields.Summary
		c.UpdatedAt = g.m.now()
		g.m.calculators[i] = c
		return nil
	}
	return nil
}

func (g *memoryCalculators) Delete(ctx context.Context, id string) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	out := g.m.calculators[:0:0]
	for _, c := range g.m.calculators {
		if c.ID != id {
			out = append(out, c)
		}
	}
	g.m.calculators = out
	return nil
}

func (g *memoryCalculators) Move(ctx context.Context, id string, newProjectID string) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	for i, c := range g.m.calculators {
		if c.ID != id {
			continue
		}
		c.ProjectID = newProjectID
		c.UpdatedAt = g.m.now()
		g.m.calculators[i] = c
		return nil
	}
	return nil
}
