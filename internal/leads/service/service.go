// Package service implements the lead lifecycle: create, partial update,
// status moves, interactions and the score recalculation that follows them.
package service

import (
	"context"
	"errors"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/scoring"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	repo repository.LeadsRepository
	bus  events.Bus
	log  *logger.Logger
	now  func() time.Time
}

func New(repo repository.LeadsRepository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log,
		now:  time.Now,
	}
}

// Create persists a new lead in status "new" with its score computed
// up front, so a lead is never observable without a score.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	const op = "leads.Create"

	normalizedPhone := phone.NormalizeE164(req.Phone)

	score := scoring.Score(scoring.Input{
		Company:  req.Company,
		JobTitle: req.JobTitle,
		Email:    req.Email,
		Phone:    normalizedPhone,
		Source:   req.Source,
	})

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      optionalString(normalizedPhone),
		Company:    optionalString(req.Company),
		JobTitle:   optionalString(req.JobTitle),
		Notes:      optionalString(req.Notes),
		Source:     string(req.Source),
		Status:     string(domain.StatusNew),
		ValueCents: req.ValueCents,
		LeadScore:  score,
	})
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create lead", err).WithOp(op)
	}

	s.log.LeadScored(lead.ID.String(), score, "create")
	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Score:     score,
	})

	return s.toResponse(lead), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	const op = "leads.Get"

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err, op)
	}
	return s.toResponse(lead), nil
}

// Update applies a partial update. The score is recomputed only when at
// least one of the updated attributes feeds the scoring model; a
// recalculation which changes nothing still counts as performed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	const op = "leads.Update"

	touched := req.TouchedFields()
	if len(touched) == 0 {
		return transport.LeadResponse{}, apperr.Validation("no fields to update").WithOp(op)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err, op)
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		req.Phone = &normalized
	}

	params := repository.UpdateLeadParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if req.Phone != nil {
		params.PhoneSet = true
		params.Phone = optionalString(*req.Phone)
	}
	if req.Company != nil {
		params.CompanySet = true
		params.Company = optionalString(*req.Company)
	}
	if req.JobTitle != nil {
		params.JobTitleSet = true
		params.JobTitle = optionalString(*req.JobTitle)
	}
	if req.Notes != nil {
		params.NotesSet = true
		params.Notes = optionalString(*req.Notes)
	}
	if req.Source != nil {
		source := string(*req.Source)
		params.Source = &source
	}
	if req.Status != nil {
		status := string(*req.Status)
		params.Status = &status
	}
	params.ValueCents = req.ValueCents
	if req.PurchaseHistory != nil {
		params.PurchaseSet = true
		total := req.PurchaseHistory.TotalValueCents
		params.PurchaseTotalCents = &total
		params.PurchaseProducts = req.PurchaseHistory.Products
		if params.PurchaseProducts == nil {
			params.PurchaseProducts = []string{}
		}
	}

	if scoring.RequiresRecalculation(touched) {
		score := scoring.Score(mergedScoringInput(current, req))
		params.LeadScore = &score
		s.log.LeadScored(id.String(), score, "update")
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err, op)
	}

	if req.Status != nil && updated.Status != current.Status {
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     updated.ID,
			OldStatus:  current.Status,
			NewStatus:  updated.Status,
			ValueCents: updated.ValueCents,
		})
	}

	return s.toResponse(updated), nil
}

// UpdateStatus moves a lead to another pipeline status. Any transition
// is allowed, including reopening closed leads. The score is untouched.
// The write always lands, so updatedAt is refreshed even when the status
// stays the same; a status_changed event fires only on an actual change.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (transport.LeadResponse, error) {
	const op = "leads.UpdateStatus"

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err, op)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, string(status))
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err, op)
	}

	if current.Status != updated.Status {
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     updated.ID,
			OldStatus:  current.Status,
			NewStatus:  updated.Status,
			ValueCents: updated.ValueCents,
		})
	}

	return s.toResponse(updated), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "leads.Delete"

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, op)
	}
	return nil
}

func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	const op = "leads.List"

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	leads, total, err := s.repo.List(ctx, repository.ListParams{
		Statuses:  req.Status,
		Source:    req.Source,
		Search:    req.Search,
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return transport.LeadListResponse{}, apperr.Wrap(apperr.KindInternal, "failed to list leads", err).WithOp(op)
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, s.toResponse(lead))
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// AddInteraction records an interaction and rescores the lead,
// interaction count being a scoring attribute.
func (s *Service) AddInteraction(ctx context.Context, leadID uuid.UUID, req transport.AddInteractionRequest) (transport.InteractionResponse, transport.LeadResponse, error) {
	const op = "leads.AddInteraction"

	occurredAt := s.now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	interaction, lead, err := s.repo.AddInteraction(ctx, repository.AddInteractionParams{
		LeadID:     leadID,
		Kind:       req.Kind,
		Note:       optionalString(req.Note),
		OccurredAt: occurredAt,
	})
	if err != nil {
		return transport.InteractionResponse{}, transport.LeadResponse{}, mapRepoError(err, op)
	}

	score := scoring.Score(scoringInputFromLead(lead))
	if score != lead.LeadScore {
		lead, err = s.repo.SetScore(ctx, leadID, score)
		if err != nil {
			return transport.InteractionResponse{}, transport.LeadResponse{}, mapRepoError(err, op)
		}
		s.log.LeadScored(leadID.String(), score, "interaction")
	}

	return toInteractionResponse(interaction), s.toResponse(lead), nil
}

func (s *Service) ListInteractions(ctx context.Context, leadID uuid.UUID) ([]transport.InteractionResponse, error) {
	const op = "leads.ListInteractions"

	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		return nil, mapRepoError(err, op)
	}

	interactions, err := s.repo.ListInteractions(ctx, leadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list interactions", err).WithOp(op)
	}

	items := make([]transport.InteractionResponse, 0, len(interactions))
	for _, interaction := range interactions {
		items = append(items, toInteractionResponse(interaction))
	}
	return items, nil
}

// scoringInputFromLead builds the scoring input from a stored lead.
func scoringInputFromLead(lead repository.Lead) scoring.Input {
	return scoring.Input{
		Company:            deref(lead.Company),
		JobTitle:           deref(lead.JobTitle),
		Email:              lead.Email,
		Phone:              deref(lead.Phone),
		Source:             domain.Source(lead.Source),
		InteractionCount:   lead.InteractionCount,
		PurchaseTotalCents: lead.PurchaseTotalCents,
		PurchaseProducts:   lead.PurchaseProducts,
	}
}

// mergedScoringInput overlays the partial update on the stored lead to
// produce the snapshot the score is computed from.
func mergedScoringInput(current repository.Lead, req transport.UpdateLeadRequest) scoring.Input {
	in := scoringInputFromLead(current)
	if req.Company != nil {
		in.Company = *req.Company
	}
	if req.JobTitle != nil {
		in.JobTitle = *req.JobTitle
	}
	if req.Email != nil {
		in.Email = *req.Email
	}
	if req.Phone != nil {
		in.Phone = *req.Phone
	}
	if req.Source != nil {
		in.Source = *req.Source
	}
	if req.PurchaseHistory != nil {
		in.PurchaseTotalCents = req.PurchaseHistory.TotalValueCents
		in.PurchaseProducts = req.PurchaseHistory.Products
	}
	return in
}

func (s *Service) toResponse(lead repository.Lead) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:               lead.ID,
		FirstName:        lead.FirstName,
		LastName:         lead.LastName,
		Email:            lead.Email,
		Phone:            lead.Phone,
		Company:          lead.Company,
		JobTitle:         lead.JobTitle,
		Notes:            lead.Notes,
		Source:           domain.Source(lead.Source),
		Status:           domain.Status(lead.Status),
		ValueCents:       lead.ValueCents,
		LeadScore:        lead.LeadScore,
		Temperature:      scoring.Temperature(lead.ValueCents, domain.Status(lead.Status), lead.UpdatedAt, s.now()),
		InteractionCount: lead.InteractionCount,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
	if lead.PurchaseTotalCents > 0 || len(lead.PurchaseProducts) > 0 {
		resp.PurchaseHistory = &transport.PurchaseHistoryResponse{
			TotalValueCents: lead.PurchaseTotalCents,
			Products:        lead.PurchaseProducts,
		}
	}
	return resp
}

func toInteractionResponse(interaction repository.Interaction) transport.InteractionResponse {
	return transport.InteractionResponse{
		ID:         interaction.ID,
		LeadID:     interaction.LeadID,
		Kind:       interaction.Kind,
		Note:       interaction.Note,
		OccurredAt: interaction.OccurredAt,
		CreatedAt:  interaction.CreatedAt,
	}
}

func mapRepoError(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found").WithOp(op)
	}
	return apperr.Wrap(apperr.KindInternal, "lead storage failure", err).WithOp(op)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
