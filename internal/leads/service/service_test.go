package service

import (
	"context"
	"testing"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads        map[uuid.UUID]repository.Lead
	interactions map[uuid.UUID][]repository.Interaction

	lastUpdate    repository.UpdateLeadParams
	updateCalled  bool
	setScoreCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:        make(map[uuid.UUID]repository.Lead),
		interactions: make(map[uuid.UUID][]repository.Interaction),
	}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	now := time.Now()
	lead := repository.Lead{
		ID:               uuid.New(),
		FirstName:        params.FirstName,
		LastName:         params.LastName,
		Email:            params.Email,
		Phone:            params.Phone,
		Company:          params.Company,
		JobTitle:         params.JobTitle,
		Notes:            params.Notes,
		Source:           params.Source,
		Status:           params.Status,
		ValueCents:       params.ValueCents,
		LeadScore:        params.LeadScore,
		PurchaseProducts: []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error) {
	f.lastUpdate = params
	f.updateCalled = true

	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.FirstName != nil {
		lead.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		lead.LastName = *params.LastName
	}
	if params.Email != nil {
		lead.Email = *params.Email
	}
	if params.PhoneSet {
		lead.Phone = params.Phone
	}
	if params.CompanySet {
		lead.Company = params.Company
	}
	if params.JobTitleSet {
		lead.JobTitle = params.JobTitle
	}
	if params.NotesSet {
		lead.Notes = params.Notes
	}
	if params.Source != nil {
		lead.Source = *params.Source
	}
	if params.Status != nil {
		lead.Status = *params.Status
	}
	if params.ValueCents != nil {
		lead.ValueCents = *params.ValueCents
	}
	if params.PurchaseSet {
		if params.PurchaseTotalCents != nil {
			lead.PurchaseTotalCents = *params.PurchaseTotalCents
		}
		lead.PurchaseProducts = params.PurchaseProducts
	}
	if params.LeadScore != nil {
		lead.LeadScore = *params.LeadScore
	}
	lead.UpdatedAt = time.Now()
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Status = status
	lead.UpdatedAt = time.Now()
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Lead, int, error) {
	items := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		items = append(items, lead)
	}
	return items, len(items), nil
}

func (f *fakeRepo) AddInteraction(_ context.Context, params repository.AddInteractionParams) (repository.Interaction, repository.Lead, error) {
	lead, ok := f.leads[params.LeadID]
	if !ok {
		return repository.Interaction{}, repository.Lead{}, repository.ErrNotFound
	}
	interaction := repository.Interaction{
		ID:         uuid.New(),
		LeadID:     params.LeadID,
		Kind:       params.Kind,
		Note:       params.Note,
		OccurredAt: params.OccurredAt,
		CreatedAt:  time.Now(),
	}
	f.interactions[params.LeadID] = append(f.interactions[params.LeadID], interaction)
	lead.InteractionCount++
	f.leads[params.LeadID] = lead
	return interaction, lead, nil
}

func (f *fakeRepo) SetScore(_ context.Context, id uuid.UUID, score int) (repository.Lead, error) {
	f.setScoreCalls++
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.LeadScore = score
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) ListInteractions(_ context.Context, leadID uuid.UUID) ([]repository.Interaction, error) {
	return f.interactions[leadID], nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService(repo *fakeRepo, bus *recordingBus) *Service {
	return New(repo, bus, logger.New("test"))
}

func TestCreateComputesInitialScore(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Jordan",
		LastName:  "Smith",
		Email:     "jordan@acme.test",
		Phone:     "+14155552671",
		Company:   "Acme Corp",
		JobTitle:  "VP Engineering",
		Source:    domain.SourceReferral,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// company 10 + title 5 + email 10 + phone 10 + referral 20
	if lead.LeadScore != 55 {
		t.Errorf("LeadScore = %d, want 55", lead.LeadScore)
	}
	if lead.Status != domain.StatusNew {
		t.Errorf("Status = %q, want %q", lead.Status, domain.StatusNew)
	}
	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	created, ok := bus.published[0].(events.LeadCreated)
	if !ok {
		t.Fatalf("published event is %T, want LeadCreated", bus.published[0])
	}
	if created.Score != 55 {
		t.Errorf("event score = %d, want 55", created.Score)
	}
}

func TestCreateMinimalLeadHasEmailAndSourcePoints(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "A",
		LastName:  "B",
		Email:     "a@b.test",
		Source:    domain.SourceOther,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lead.LeadScore != 10 {
		t.Errorf("LeadScore = %d, want 10 (email only)", lead.LeadScore)
	}
}

func TestUpdateScoringFieldTriggersRecalculation(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "A", LastName: "B", Email: "a@b.test", Source: domain.SourceWebsite,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	company := "Globex"
	updated, err := svc.Update(context.Background(), created.ID, transport.UpdateLeadRequest{
		Company: &company,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if repo.lastUpdate.LeadScore == nil {
		t.Fatal("expected score recalculation on company change")
	}
	if updated.LeadScore != created.LeadScore+10 {
		t.Errorf("LeadScore = %d, want %d", updated.LeadScore, created.LeadScore+10)
	}
}

func TestUpdateNonScoringFieldSkipsRecalculation(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "A", LastName: "B", Email: "a@b.test", Source: domain.SourceWebsite,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	notes := "spoke on the phone"
	value := int64(5_000_00)
	if _, err := svc.Update(context.Background(), created.ID, transport.UpdateLeadRequest{
		Notes:      &notes,
		ValueCents: &value,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if repo.lastUpdate.LeadScore != nil {
		t.Error("notes/value update must not recompute the score")
	}
}

func TestUpdateWithNoFieldsIsRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	_, err := svc.Update(context.Background(), uuid.New(), transport.UpdateLeadRequest{})
	if err == nil {
		t.Fatal("expected error for empty update")
	}
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("kind = %v, want validation", apperr.GetKind(err))
	}
	if repo.updateCalled {
		t.Error("repository must not be hit for an empty update")
	}
}

func TestUpdateStatusPublishesEventAndKeepsScore(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "A", LastName: "B", Email: "a@b.test", Source: domain.SourceWebsite,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	bus.published = nil

	updated, err := svc.UpdateStatus(context.Background(), created.ID, domain.StatusQualified)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.StatusQualified {
		t.Errorf("Status = %q, want qualified", updated.Status)
	}
	if updated.LeadScore != created.LeadScore {
		t.Errorf("status change altered score: %d -> %d", created.LeadScore, updated.LeadScore)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	changed, ok := bus.published[0].(events.LeadStatusChanged)
	if !ok {
		t.Fatalf("published event is %T, want LeadStatusChanged", bus.published[0])
	}
	if changed.OldStatus != string(domain.StatusNew) || changed.NewStatus != string(domain.StatusQualified) {
		t.Errorf("transition = %s -> %s, want new -> qualified", changed.OldStatus, changed.NewStatus)
	}
}

func TestUpdateStatusSameStatusBumpsUpdatedAtWithoutEvent(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "A", LastName: "B", Email: "a@b.test", Source: domain.SourceWebsite,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	bus.published = nil

	// Backdate the lead well past the recency windows, then re-assert the
	// current status. The write must still land so updatedAt recovers.
	stale := repo.leads[created.ID]
	stale.UpdatedAt = time.Now().Add(-30 * 24 * time.Hour)
	repo.leads[created.ID] = stale

	resp, err := svc.UpdateStatus(context.Background(), created.ID, domain.StatusNew)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if !resp.UpdatedAt.After(stale.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want later than %v", resp.UpdatedAt, stale.UpdatedAt)
	}
	if got := repo.leads[created.ID].UpdatedAt; !got.After(stale.UpdatedAt) {
		t.Errorf("stored UpdatedAt = %v, want later than %v", got, stale.UpdatedAt)
	}
	if len(bus.published) != 0 {
		t.Errorf("no event expected for unchanged status, got %d", len(bus.published))
	}
}

func TestUpdateStatusAllowsReopeningClosedLead(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "A", LastName: "B", Email: "a@b.test", Source: domain.SourceWebsite,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), created.ID, domain.StatusClosedLost); err != nil {
		t.Fatalf("close: %v", err)
	}
	reopened, err := svc.UpdateStatus(context.Background(), created.ID, domain.StatusContacted)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != domain.StatusContacted {
		t.Errorf("Status = %q, want contacted", reopened.Status)
	}
}

func TestAddInteractionBumpsCountAndRescores(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "A", LastName: "B", Email: "a@b.test", Source: domain.SourceWebsite,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, lead, err := svc.AddInteraction(context.Background(), created.ID, transport.AddInteractionRequest{
		Kind: "call",
	})
	if err != nil {
		t.Fatalf("AddInteraction: %v", err)
	}

	if lead.InteractionCount != 1 {
		t.Errorf("InteractionCount = %d, want 1", lead.InteractionCount)
	}
	if lead.LeadScore != created.LeadScore+5 {
		t.Errorf("LeadScore = %d, want %d", lead.LeadScore, created.LeadScore+5)
	}
	if repo.setScoreCalls != 1 {
		t.Errorf("SetScore called %d times, want 1", repo.setScoreCalls)
	}
}

func TestGetUnknownLeadReturnsNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &recordingBus{})

	_, err := svc.Get(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("kind = %v, want not found", apperr.GetKind(err))
	}
}

func TestDeleteRemovesLead(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "A", LastName: "B", Email: "a@b.test", Source: domain.SourceWebsite,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestResponseCarriesTemperature(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "A", LastName: "B", Email: "a@b.test",
		Source:     domain.SourceWebsite,
		ValueCents: 120_000_00,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// value >= $100k gives 3 points, recent update gives 2: hot.
	if created.Temperature != domain.TemperatureHot {
		t.Errorf("Temperature = %q, want hot", created.Temperature)
	}
}
