// Package engine implements the organization-scoped synchronization engine:
// it loads the full entity graph for one authenticated session and applies
// every mutation write-through, remote call first, local transition second.
// The local graph only ever reflects rows the remote store has confirmed.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nordfjell/anbud/internal/gateway"
	"github.com/nordfjell/anbud/internal/graph"
	"github.com/nordfjell/anbud/internal/models"
)

// duplicateSuffix is appended to the names of duplicated projects and
// calculators.
const duplicateSuffix = " (Kopi)"

const defaultLoadTimeout = 15 * time.Second

// Engine owns exactly one graph snapshot for one session. Construct one per
// authenticated principal and discard it on logout; there is no shared
// singleton.
type Engine struct {
	gw          gateway.Gateway
	now         func() time.Time
	loadTimeout time.Duration

	mu sync.RWMutex
	g  graph.Graph
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for duplication start dates and
// move timestamps, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLoadTimeout overrides the client-side timeout applied to the initial
// graph load. Mutations carry no engine-enforced timeout.
func WithLoadTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.loadTimeout = d
	}
}

// New creates an engine over the given remote gateway. The graph starts
// empty until Load succeeds.
func New(gw gateway.Gateway, opts ...Option) *Engine {
	e := &Engine{
		gw:          gw,
		now:         time.Now,
		loadTimeout: defaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns the current graph value. Snapshots are stable: later
// mutations produce new values and never touch one already handed out.
func (e *Engine) Snapshot() graph.Graph {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g
}

func (e *Engine) dispatch(ev graph.Event) {
	e.mu.Lock()
	e.g = graph.Apply(e.g, ev)
	e.mu.Unlock()
}

// Load fetches the four entity collections concurrently and replaces the
// graph wholesale. The four list calls run under one fixed client-side
// timeout; any single failure aborts the whole load and leaves the graph at
// its pre-load value.
func (e *Engine) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.loadTimeout)
	defer cancel()

	var (
		orgs        []models.Organization
		customers   []models.Customer
		projects    []models.Project
		calculators []models.Calculator
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		orgs, err = e.gw.Organizations.List(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		customers, err = e.gw.Customers.List(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		projects, err = e.gw.Projects.List(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		calculators, err = e.gw.Calculators.List(ctx)
		return err
	})

	if err := eg.Wait(); err != nil {
		log.Error().Err(err).Msg("Graph load aborted")
		return err
	}

	e.dispatch(graph.LoadGraph{
		Organizations: orgs,
		Customers:     customers,
		Projects:      projects,
		Calculators:   calculators,
	})

	log.Info().
		Int("organizations", len(orgs)).
		Int("customers", len(customers)).
		Int("projects", len(projects)).
		Int("calculators", len(calculators)).
		Msg("Graph loaded")

	return nil
}

// SetCurrentOrganization moves the tenant selection pointer. Selection is
// client state only; no remote call is made and the id is not validated.
func (e *Engine) SetCurrentOrganization(id string) {
	e.dispatch(graph.SetCurrentOrganization{ID: id})
}

// AddOrganization creates an organization remotely, then admits the
// server-returned row into the graph.
func (e *Engine) AddOrganization(ctx context.Context, fields models.OrganizationFields) error {
	org, err := e.gw.Organizations.Create(ctx, fields)
	if err != nil {
		return err
	}
	e.dispatch(graph.AddOrganization{Organization: org})
	return nil
}

// UpdateOrganization rewrites the mutable fields remotely, then replaces the
// cached row with the caller-supplied value. The server is not re-read, so
// server-refreshed fields such as UpdatedAt can lag in the cache until the
// next load.
func (e *Engine) UpdateOrganization(ctx context.Context, org models.Organization) error {
	if err := e.gw.Organizations.Update(ctx, org.ID, org.Fields()); err != nil {
		return err
	}
	e.dispatch(graph.UpdateOrganization{Organization: org})
	return nil
}

// DeleteOrganization deletes remotely, then applies the local cascade. The
// local delete is dispatched even when the remote delete affected zero rows;
// the transition tolerates unknown ids.
func (e *Engine) DeleteOrganization(ctx context.Context, id string) error {
	if err := e.gw.Organizations.Delete(ctx, id); err != nil {
		return err
	}
	e.dispatch(graph.DeleteOrganization{ID: id})
	return nil
}

// AddCustomer creates a customer remotely, then admits the server row.
func (e *Engine) AddCustomer(ctx context.Context, fields models.CustomerFields) error {
	c, err := e.gw.Customers.Create(ctx, fields)
	if err != nil {
		return err
	}
	e.dispatch(graph.AddCustomer{Customer: c})
	return nil
}

// UpdateCustomer rewrites the mutable fields remotely, then replaces the
// cached row with the caller-supplied value.
func (e *Engine) UpdateCustomer(ctx context.Context, c models.Customer) error {
	if err := e.gw.Customers.Update(ctx, c.ID, c.Fields()); err != nil {
		return err
	}
	e.dispatch(graph.UpdateCustomer{Customer: c})
	return nil
}

// DeleteCustomer deletes remotely, then removes the customer and its
// projects locally. Calculators of those projects are not cascaded here;
// that matches the remote store's per-table delete behavior.
func (e *Engine) DeleteCustomer(ctx context.Context, id string) error {
	if err := e.gw.Customers.Delete(ctx, id); err != nil {
		return err
	}
	e.dispatch(graph.DeleteCustomer{ID: id})
	return nil
}

// AddProject creates a project remotely, then admits the server row.
func (e *Engine) AddProject(ctx context.Context, fields models.ProjectFields) error {
	p, err := e.gw.Projects.Create(ctx, fields)
	if err != nil {
		return err
	}
	e.dispatch(graph.AddProject{Project: p})
	return nil
}

// UpdateProject rewrites the mutable fields remotely, then replaces the
// cached row with the caller-supplied value.
func (e *Engine) UpdateProject(ctx context.Context, p models.Project) error {
	if err := e.gw.Projects.Update(ctx, p.ID, p.Fields()); err != nil {
		return err
	}
	e.dispatch(graph.UpdateProject{Project: p})
	return nil
}

// DeleteProject deletes remotely, then removes the project and its
// calculators locally.
func (e *Engine) DeleteProject(ctx context.Context, id string) error {
	if err := e.gw.Projects.Delete(ctx, id); err != nil {
		return err
	}
	e.dispatch(graph.DeleteProject{ID: id})
	return nil
}

// AddCalculator creates a calculator remotely, then admits the server row.
func (e *Engine) AddCalculator(ctx context.Context, fields models.CalculatorFields) error {
	c, err := e.gw.Calculators.Create(ctx, fields)
	if err != nil {
		return err
	}
	e.dispatch(graph.AddCalculator{Calculator: c})
	return nil
}

// UpdateCalculator rewrites the mutable fields remotely, then replaces the
// cached row with the caller-supplied value.
func (e *Engine) UpdateCalculator(ctx context.Context, c models.Calculator) error {
	if err := e.gw.Calculators.Update(ctx, c.ID, c.Fields()); err != nil {
		return err
	}
	e.dispatch(graph.UpdateCalculator{Calculator: c})
	return nil
}

// DeleteCalculator deletes remotely, then removes the row locally.
func (e *Engine) DeleteCalculator(ctx context.Context, id string) error {
	if err := e.gw.Calculators.Delete(ctx, id); err != nil {
		return err
	}
	e.dispatch(graph.DeleteCalculator{ID: id})
	return nil
}

// DuplicateProject clones a project and all its calculators. The source is
// read from the local graph, so a missing id fails with NotFoundError before
// any network call. The clone's name gets the duplicate suffix, its status
// resets to planning, its start date resets to today and its end date is
// cleared; the budget is copied.
//
// The project insert and the calculator batch insert are sequential, not
// transactional. When the batch insert fails after the project insert
// succeeded, the new project stays persisted and cached while the operation
// reports the failure; there is no rollback.
//
// Returns the new project's id.
func (e *Engine) DuplicateProject(ctx context.Context, projectID string) (string, error) {
	snap := e.Snapshot()

	src, ok := snap.ProjectByID(projectID)
	if !ok {
		return "", &NotFoundError{Kind: "project", ID: projectID}
	}
	srcCalcs := snap.CalculatorsByProject(projectID)

	var budget *float64
	if src.Budget != nil {
		b := *src.Budget
		budget = &b
	}

	newProject, err := e.gw.Projects.Create(ctx, models.ProjectFields{
		OrganizationID: src.OrganizationID,
		CustomerID:     src.CustomerID,
		Name:           src.Name + duplicateSuffix,
		Description:    src.Description,
		Status:         models.StatusPlanning,
		StartDate:      startOfDay(e.now()),
		Budget:         budget,
	})
	if err != nil {
		return "", err
	}

	if len(srcCalcs) == 0 {
		e.dispatch(graph.DuplicateProject{Project: newProject})
		return newProject.ID, nil
	}

	batch := make([]models.CalculatorFields, 0, len(srcCalcs))
	for _, c := range srcCalcs {
		batch = append(batch, models.CalculatorFields{
			OrganizationID: c.OrganizationID,
			ProjectID:      newProject.ID,
			Name:           c.Name + duplicateSuffix,
			Description:    c.Description,
			Entries:        models.CloneEntries(c.Entries),
			Summary:        c.Summary,
		})
	}

	newCalcs, err := e.gw.Calculators.CreateBatch(ctx, batch)
	if err != nil {
		// The project row is already persisted; keep it visible locally and
		// surface the partial failure to the caller.
		e.dispatch(graph.AddProject{Project: newProject})
		log.Warn().
			Err(err).
			Str("project_id", newProject.ID).
			Msg("Project duplicated without its calculators")
		return "", err
	}

	e.dispatch(graph.DuplicateProject{Project: newProject, Calculators: newCalcs})
	return newProject.ID, nil
}

// DuplicateCalculator clones one calculator, optionally into another
// project. The clone's organization is always inherited from the source,
// even when the target project belongs elsewhere. Returns the new
// calculator's id.
func (e *Engine) DuplicateCalculator(ctx context.Context, calculatorID string, targetProjectID string) (string, error) {
	snap := e.Snapshot()

	src, ok := snap.CalculatorByID(calculatorID)
	if !ok {
		return "", &NotFoundError{Kind: "calculator", ID: calculatorID}
	}

	projectID := src.ProjectID
	if targetProjectID != "" {
		projectID = targetProjectID
	}

	clone, err := e.gw.Calculators.Create(ctx, models.CalculatorFields{
		OrganizationID: src.OrganizationID,
		ProjectID:      projectID,
		Name:           src.Name + duplicateSuffix,
		Description:    src.Description,
		Entries:        models.CloneEntries(src.Entries),
		Summary:        src.Summary,
	})
	if err != nil {
		return "", err
	}

	e.dispatch(graph.DuplicateCalculator{Calculator: clone})
	return clone.ID, nil
}

// MoveCalculator reattaches a calculator to another project. Only the
// project reference travels to the remote store; the target's organization
// is not revalidated against the calculator's.
func (e *Engine) MoveCalculator(ctx context.Context, calculatorID string, newProjectID string) error {
	if err := e.gw.Calculators.Move(ctx, calculatorID, newProjectID); err != nil {
		return err
	}
	e.dispatch(graph.MoveCalculator{ID: calculatorID, NewProjectID: newProjectID, MovedAt: e.now()})
	return nil
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
