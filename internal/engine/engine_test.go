package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nordfjell/anbud/internal/gateway"
	"github.com/nordfjell/anbud/internal/models"
)

// newTestEngine builds an engine over a fresh in-memory remote store seeded
// with one organization, one customer and one project carrying two
// calculators.
func newTestEngine(t *testing.T) (*Engine, *gateway.Memory) {
	t.Helper()

	mem := gateway.NewMemory()
	e := New(mem.Gateway())
	seed(t, e)
	return e, mem
}

func TestLoadReplacesGraphAndSelectsFirstOrganization(t *testing.T) {
	ctx := context.Background()
	seeded, mem := newTestEngine(t)
	seededSnap := seeded.Snapshot()

	// A second engine over the same remote store starts empty and sees the
	// full graph after one load.
	e := New(mem.Gateway())
	require.Empty(t, e.Snapshot().Organizations)

	require.NoError(t, e.Load(ctx))
	snap := e.Snapshot()
	require.Len(t, snap.Organizations, len(seededSnap.Organizations))
	require.Len(t, snap.Customers, 1)
	require.Len(t, snap.Projects, 1)
	require.Len(t, snap.Calculators, 2)
	require.Equal(t, snap.Organizations[0].ID, snap.CurrentOrganizationID)
}

func TestLoadWithEmptyStoreLeavesNoSelection(t *testing.T) {
	e := New(gateway.NewMemory().Gateway())
	require.NoError(t, e.Load(context.Background()))
	require.Empty(t, e.Snapshot().CurrentOrganizationID)
}

type failingCustomers struct {
	gateway.Customers
	listErr error
}

func (f failingCustomers) List(ctx context.Context) ([]models.Customer, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Customers.List(ctx)
}

func TestLoadAbortsWhollyOnSingleListFailure(t *testing.T) {
	_, mem := newTestEngine(t)

	boom := gateway.Remote(gateway.ReasonTransport, errors.New("connection reset"))
	gw := mem.Gateway()
	gw.Customers = failingCustomers{Customers: gw.Customers, listErr: boom}

	e := New(gw)
	err := e.Load(context.Background())
	require.Error(t, err)
	require.True(t, gateway.IsRemote(err))

	// The graph stays at its pre-load empty value; no partial collections.
	snap := e.Snapshot()
	require.Empty(t, snap.Organizations)
	require.Empty(t, snap.Customers)
	require.Empty(t, snap.Projects)
	require.Empty(t, snap.Calculators)
	require.Empty(t, snap.CurrentOrganizationID)
}

type failingOrganizations struct {
	gateway.Organizations
	createErr error
	deleteErr error
}

func (f failingOrganizations) Create(ctx context.Context, fields models.OrganizationFields) (models.Organization, error) {
	if f.createErr != nil {
		return models.Organization{}, f.createErr
	}
	return f.Organizations.Create(ctx, fields)
}

func (f failingOrganizations) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Organizations.Delete(ctx, id)
}

func TestMutationFailureLeavesGraphUnchanged(t *testing.T) {
	ctx := context.Background()
	e, mem := newTestEngine(t)
	before := e.Snapshot()

	boom := gateway.Remote(gateway.ReasonConstraint, errors.New("duplicate name"))
	gw := mem.Gateway()
	gw.Organizations = failingOrganizations{Organizations: gw.Organizations, createErr: boom, deleteErr: boom}

	failing := New(gw)
	require.NoError(t, failing.Load(ctx))

	err := failing.AddOrganization(ctx, models.OrganizationFields{Name: "Nope"})
	require.Error(t, err)
	err = failing.DeleteOrganization(ctx, before.Organizations[0].ID)
	require.Error(t, err)

	snap := failing.Snapshot()
	require.Len(t, snap.Organizations, len(before.Organizations))
	require.Len(t, snap.Customers, len(before.Customers))
}

func TestAddAdmitsOnlyServerAssignedRows(t *testing.T) {
	e, _ := newTestEngine(t)

	snap := e.Snapshot()
	org := snap.Organizations[0]
	require.NotEmpty(t, org.ID)
	require.False(t, org.CreatedAt.IsZero())

	for _, c := range snap.Calculators {
		require.NotEmpty(t, c.ID)
		require.Equal(t, org.ID, c.OrganizationID)
	}
}

func TestUpdateDispatchesCallerSuppliedEntity(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	cust := e.Snapshot().Customers[0]
	cust.Name = "Berg og Dal"
	require.NoError(t, e.UpdateCustomer(ctx, cust))

	got, ok := e.Snapshot().CustomerByID(cust.ID)
	require.True(t, ok)
	require.Equal(t, "Berg og Dal", got.Name)
	// Caller-held timestamps are trusted as-is; the cache shows the value
	// the caller sent, not a server-refreshed one.
	require.Equal(t, cust.UpdatedAt, got.UpdatedAt)
}

func TestDeleteDispatchesUnconditionally(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	// Deleting an id the remote store never had affects zero rows remotely
	// and is a local no-op; both sides tolerate it.
	before := e.Snapshot()
	require.NoError(t, e.DeleteCustomer(ctx, "never-existed"))
	require.Equal(t, before, e.Snapshot())
}

func TestDuplicateProjectClonesProjectAndCalculators(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

	mem := gateway.NewMemory()
	e := New(mem.Gateway(), WithClock(func() time.Time { return now }))
	seed(t, e)

	snap := e.Snapshot()
	src := snap.Projects[0]
	srcCalcs := snap.CalculatorsByProject(src.ID)
	require.Len(t, srcCalcs, 2)

	newID, err := e.DuplicateProject(ctx, src.ID)
	require.NoError(t, err)
	require.NotEmpty(t, newID)
	require.NotEqual(t, src.ID, newID)

	next := e.Snapshot()
	require.Len(t, next.Projects, len(snap.Projects)+1)
	require.Len(t, next.Calculators, len(snap.Calculators)+2)

	clone, ok := next.ProjectByID(newID)
	require.True(t, ok)
	require.Equal(t, src.Name+" (Kopi)", clone.Name)
	require.Equal(t, models.StatusPlanning, clone.Status)
	require.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), clone.StartDate)
	require.Nil(t, clone.EndDate)
	require.Equal(t, src.CustomerID, clone.CustomerID)
	require.Equal(t, src.OrganizationID, clone.OrganizationID)

	cloneCalcs := next.CalculatorsByProject(newID)
	require.Len(t, cloneCalcs, 2)
	require.Equal(t, srcCalcs[0].Name+" (Kopi)", cloneCalcs[0].Name)
	require.Equal(t, srcCalcs[1].Name+" (Kopi)", cloneCalcs[1].Name)
	require.Equal(t, srcCalcs[0].Entries, cloneCalcs[0].Entries)
	require.Equal(t, srcCalcs[0].Summary, cloneCalcs[0].Summary)
}

func TestDuplicateProjectCopiesBudgetByValue(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	src := e.Snapshot().Projects[0]
	budget := 250000.0
	src.Budget = &budget
	require.NoError(t, e.UpdateProject(ctx, src))

	newID, err := e.DuplicateProject(ctx, src.ID)
	require.NoError(t, err)

	clone, ok := e.Snapshot().ProjectByID(newID)
	require.True(t, ok)
	require.NotNil(t, clone.Budget)
	require.Equal(t, 250000.0, *clone.Budget)
	require.NotSame(t, src.Budget, clone.Budget)
}

func TestDuplicateProjectWithoutCalculatorsSkipsBatchCall(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	snap := e.Snapshot()
	org := snap.Organizations[0]
	cust := snap.Customers[0]

	require.NoError(t, e.AddProject(ctx, models.ProjectFields{
		OrganizationID: org.ID,
		CustomerID:     cust.ID,
		Name:           "Tomt",
		Status:         models.StatusPlanning,
	}))
	var bare models.Project
	for _, p := range e.Snapshot().Projects {
		if p.Name == "Tomt" {
			bare = p
		}
	}
	require.NotEmpty(t, bare.ID)

	before := e.Snapshot()
	newID, err := e.DuplicateProject(ctx, bare.ID)
	require.NoError(t, err)

	next := e.Snapshot()
	require.Len(t, next.Projects, len(before.Projects)+1)
	require.Len(t, next.Calculators, len(before.Calculators))
	require.Empty(t, next.CalculatorsByProject(newID))
}

type failingCalculators struct {
	gateway.Calculators
	batchErr  error
	createErr error
}

func (f failingCalculators) CreateBatch(ctx context.Context, fields []models.CalculatorFields) ([]models.Calculator, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	return f.Calculators.CreateBatch(ctx, fields)
}

func (f failingCalculators) Create(ctx context.Context, fields models.CalculatorFields) (models.Calculator, error) {
	if f.createErr != nil {
		return models.Calculator{}, f.createErr
	}
	return f.Calculators.Create(ctx, fields)
}

func TestDuplicateProjectPartialFailureKeepsProject(t *testing.T) {
	ctx := context.Background()
	_, mem := newTestEngine(t)

	boom := gateway.Remote(gateway.ReasonTransport, errors.New("batch insert failed"))
	gw := mem.Gateway()
	gw.Calculators = failingCalculators{Calculators: gw.Calculators, batchErr: boom}

	e := New(gw)
	require.NoError(t, e.Load(ctx))

	before := e.Snapshot()
	src := before.Projects[0]

	_, err := e.DuplicateProject(ctx, src.ID)
	require.Error(t, err)
	require.True(t, gateway.IsRemote(err))

	// The project made it through its own remote call and stays visible;
	// the calculators never got persisted, so graph size grew by exactly 1.
	next := e.Snapshot()
	require.Len(t, next.Projects, len(before.Projects)+1)
	require.Len(t, next.Calculators, len(before.Calculators))
}

func TestDuplicateOfMissingSourceFailsLocally(t *testing.T) {
	ctx := context.Background()
	_, mem := newTestEngine(t)

	// Any remote call would blow up; proving the precheck issues none.
	boom := gateway.Remote(gateway.ReasonTransport, errors.New("must not be called"))
	gw := mem.Gateway()
	gw.Calculators = failingCalculators{Calculators: gw.Calculators, batchErr: boom, createErr: boom}
	gw.Organizations = failingOrganizations{Organizations: gw.Organizations, createErr: boom, deleteErr: boom}

	e := New(gw)
	require.NoError(t, e.Load(ctx))
	before := e.Snapshot()

	_, err := e.DuplicateProject(ctx, "no-such-project")
	require.Error(t, err)
	require.True(t, IsNotFound(err))
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "project", nf.Kind)

	_, err = e.DuplicateCalculator(ctx, "no-such-calculator", "")
	require.Error(t, err)
	require.True(t, IsNotFound(err))

	require.Equal(t, before, e.Snapshot())
}

func TestDuplicateCalculatorIntoTargetProjectKeepsSourceOrganization(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	snap := e.Snapshot()
	src := snap.Calculators[0]

	// A second organization with its own project as the move target.
	require.NoError(t, e.AddOrganization(ctx, models.OrganizationFields{Name: "Kystbygg"}))
	var other models.Organization
	for _, o := range e.Snapshot().Organizations {
		if o.Name == "Kystbygg" {
			other = o
		}
	}
	require.NoError(t, e.AddCustomer(ctx, models.CustomerFields{OrganizationID: other.ID, Name: "Vik"}))
	var otherCust models.Customer
	for _, c := range e.Snapshot().Customers {
		if c.OrganizationID == other.ID {
			otherCust = c
		}
	}
	require.NoError(t, e.AddProject(ctx, models.ProjectFields{
		OrganizationID: other.ID,
		CustomerID:     otherCust.ID,
		Name:           "Naust",
		Status:         models.StatusPlanning,
	}))
	var target models.Project
	for _, p := range e.Snapshot().Projects {
		if p.OrganizationID == other.ID {
			target = p
		}
	}

	newID, err := e.DuplicateCalculator(ctx, src.ID, target.ID)
	require.NoError(t, err)

	clone, ok := e.Snapshot().CalculatorByID(newID)
	require.True(t, ok)
	require.Equal(t, src.Name+" (Kopi)", clone.Name)
	require.Equal(t, target.ID, clone.ProjectID)
	// The organization is inherited from the source, never re-derived from
	// the target project.
	require.Equal(t, src.OrganizationID, clone.OrganizationID)
	require.Equal(t, src.Entries, clone.Entries)
}

func TestDuplicateCalculatorWithoutTargetStaysInPlace(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	src := e.Snapshot().Calculators[0]
	newID, err := e.DuplicateCalculator(ctx, src.ID, "")
	require.NoError(t, err)

	clone, ok := e.Snapshot().CalculatorByID(newID)
	require.True(t, ok)
	require.Equal(t, src.ProjectID, clone.ProjectID)
}

func TestMoveCalculator(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	mem := gateway.NewMemory()
	e := New(mem.Gateway(), WithClock(func() time.Time { return now }))
	seed(t, e)

	snap := e.Snapshot()
	src := snap.Calculators[0]
	org := snap.Organizations[0]
	cust := snap.Customers[0]

	require.NoError(t, e.AddProject(ctx, models.ProjectFields{
		OrganizationID: org.ID,
		CustomerID:     cust.ID,
		Name:           "Anneks",
		Status:         models.StatusPlanning,
	}))
	var target models.Project
	for _, p := range e.Snapshot().Projects {
		if p.Name == "Anneks" {
			target = p
		}
	}

	require.NoError(t, e.MoveCalculator(ctx, src.ID, target.ID))

	moved, ok := e.Snapshot().CalculatorByID(src.ID)
	require.True(t, ok)
	require.Equal(t, target.ID, moved.ProjectID)
	require.Equal(t, now, moved.UpdatedAt)

	// Everything else field-identical.
	moved.ProjectID = src.ProjectID
	moved.UpdatedAt = src.UpdatedAt
	require.Equal(t, src, moved)
}

func TestSetCurrentOrganizationScopesQueries(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	require.NoError(t, e.AddOrganization(ctx, models.OrganizationFields{Name: "Kystbygg"}))
	var other models.Organization
	for _, o := range e.Snapshot().Organizations {
		if o.Name == "Kystbygg" {
			other = o
		}
	}

	require.NotEmpty(t, e.Snapshot().CustomersForCurrentOrg())

	e.SetCurrentOrganization(other.ID)
	snap := e.Snapshot()
	require.Equal(t, other.ID, snap.CurrentOrganizationID)
	require.Empty(t, snap.CustomersForCurrentOrg())
	require.Empty(t, snap.ProjectsForCurrentOrg())
}

func TestSnapshotsAreStableAcrossMutations(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	before := e.Snapshot()
	orgCount := len(before.Organizations)

	require.NoError(t, e.AddOrganization(ctx, models.OrganizationFields{Name: "Ny"}))
	require.NoError(t, e.DeleteProject(ctx, before.Projects[0].ID))

	// The earlier snapshot still shows the old world.
	require.Len(t, before.Organizations, orgCount)
	require.Len(t, before.Projects, 1)
	require.Len(t, before.Calculators, 2)
}

// seed pushes the standard fixture through the orchestrator: one
// organization, one customer, one project with two calculators.
func seed(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, e.AddOrganization(ctx, models.OrganizationFields{Name: "Fjellbygg"}))
	org := e.Snapshot().Organizations[0]
	require.NoError(t, e.AddCustomer(ctx, models.CustomerFields{OrganizationID: org.ID, Name: "Berg"}))
	cust := e.Snapshot().Customers[0]
	require.NoError(t, e.AddProject(ctx, models.ProjectFields{
		OrganizationID: org.ID,
		CustomerID:     cust.ID,
		Name:           "Garasje",
		Status:         models.StatusActive,
		StartDate:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}))
	proj := e.Snapshot().Projects[0]

	entries := []models.Entry{
		{ID: "e1", Kind: models.EntryMaterial, Description: "betong", Quantity: 12, UnitCost: 1800, MarkupPct: 15},
	}
	require.NoError(t, e.AddCalculator(ctx, models.CalculatorFields{
		OrganizationID: org.ID,
		ProjectID:      proj.ID,
		Name:           "Grunnarbeid",
		Entries:        entries,
		Summary:        models.CalculateSummary(entries),
	}))
	require.NoError(t, e.AddCalculator(ctx, models.CalculatorFields{
		OrganizationID: org.ID,
		ProjectID:      proj.ID,
		Name:           "Tak",
	}))
}
