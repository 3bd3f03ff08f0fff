package transport

import (
	"time"

	"crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Request DTOs

type PurchaseHistoryPayload struct {
	TotalValueCents int64    `json:"totalValueCents" validate:"min=0"`
	Products        []string `json:"products" validate:"dive,min=1,max=100"`
}

type CreateLeadRequest struct {
	FirstName  string        `json:"firstName" validate:"required,min=1,max=100"`
	LastName   string        `json:"lastName" validate:"required,min=1,max=100"`
	Email      string        `json:"email" validate:"required,email"`
	Phone      string        `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Company    string        `json:"company,omitempty" validate:"max=200"`
	JobTitle   string        `json:"jobTitle,omitempty" validate:"max=100"`
	Notes      string        `json:"notes,omitempty" validate:"max=5000"`
	Source     domain.Source `json:"source" validate:"required,oneof=website email phone social_media referral linkedin trade_show other"`
	ValueCents int64         `json:"valueCents" validate:"min=0"`
}

// Required attributes use omitnil so an explicit empty string is rejected
// instead of silently clearing the stored value. Optional attributes stay
// clearable by sending "".
type UpdateLeadRequest struct {
	FirstName       *string                 `json:"firstName,omitempty" validate:"omitnil,min=1,max=100"`
	LastName        *string                 `json:"lastName,omitempty" validate:"omitnil,min=1,max=100"`
	Email           *string                 `json:"email,omitempty" validate:"omitnil,email"`
	Phone           *string                 `json:"phone,omitempty" validate:"omitnil,max=20"`
	Company         *string                 `json:"company,omitempty" validate:"omitnil,max=200"`
	JobTitle        *string                 `json:"jobTitle,omitempty" validate:"omitnil,max=100"`
	Notes           *string                 `json:"notes,omitempty" validate:"omitnil,max=5000"`
	Source          *domain.Source          `json:"source,omitempty" validate:"omitnil,oneof=website email phone social_media referral linkedin trade_show other"`
	Status          *domain.Status          `json:"status,omitempty" validate:"omitnil,oneof=new contacted qualified proposal negotiation closed_won closed_lost"`
	ValueCents      *int64                  `json:"valueCents,omitempty" validate:"omitnil,min=0"`
	PurchaseHistory *PurchaseHistoryPayload `json:"purchaseHistory,omitempty"`
}

// TouchedFields returns the JSON names of the attributes present in the
// partial update, in the vocabulary the recalculation policy expects.
func (r UpdateLeadRequest) TouchedFields() []string {
	fields := make([]string, 0, 11)
	if r.FirstName != nil {
		fields = append(fields, "firstName")
	}
	if r.LastName != nil {
		fields = append(fields, "lastName")
	}
	if r.Email != nil {
		fields = append(fields, "email")
	}
	if r.Phone != nil {
		fields = append(fields, "phone")
	}
	if r.Company != nil {
		fields = append(fields, "company")
	}
	if r.JobTitle != nil {
		fields = append(fields, "jobTitle")
	}
	if r.Notes != nil {
		fields = append(fields, "notes")
	}
	if r.Source != nil {
		fields = append(fields, "source")
	}
	if r.Status != nil {
		fields = append(fields, "status")
	}
	if r.ValueCents != nil {
		fields = append(fields, "value")
	}
	if r.PurchaseHistory != nil {
		fields = append(fields, "purchaseHistory")
	}
	return fields
}

type UpdateLeadStatusRequest struct {
	Status domain.Status `json:"status" validate:"required,oneof=new contacted qualified proposal negotiation closed_won closed_lost"`
}

type AddInteractionRequest struct {
	Kind       string     `json:"kind" validate:"required,oneof=call email meeting demo note"`
	Note       string     `json:"note,omitempty" validate:"max=2000"`
	OccurredAt *time.Time `json:"occurredAt,omitempty"`
}

type ListLeadsRequest struct {
	Status    []string `form:"status" validate:"omitempty,dive,oneof=new contacted qualified proposal negotiation closed_won closed_lost"`
	Source    *string  `form:"source" validate:"omitempty,oneof=website email phone social_media referral linkedin trade_show other"`
	Search    string   `form:"search" validate:"max=100"`
	Page      int      `form:"page" validate:"min=0"`
	PageSize  int      `form:"pageSize" validate:"min=0,max=100"`
	SortBy    string   `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt firstName lastName value score"`
	SortOrder string   `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// Response DTOs

type PurchaseHistoryResponse struct {
	TotalValueCents int64    `json:"totalValueCents"`
	Products        []string `json:"products"`
}

type LeadResponse struct {
	ID               uuid.UUID                `json:"id"`
	FirstName        string                   `json:"firstName"`
	LastName         string                   `json:"lastName"`
	Email            string                   `json:"email"`
	Phone            *string                  `json:"phone,omitempty"`
	Company          *string                  `json:"company,omitempty"`
	JobTitle         *string                  `json:"jobTitle,omitempty"`
	Notes            *string                  `json:"notes,omitempty"`
	Source           domain.Source            `json:"source"`
	Status           domain.Status            `json:"status"`
	ValueCents       int64                    `json:"valueCents"`
	LeadScore        int                      `json:"leadScore"`
	Temperature      domain.Temperature       `json:"temperature"`
	InteractionCount int                      `json:"interactionCount"`
	PurchaseHistory  *PurchaseHistoryResponse `json:"purchaseHistory,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type InteractionResponse struct {
	ID         uuid.UUID `json:"id"`
	LeadID     uuid.UUID `json:"leadId"`
	Kind       string    `json:"kind"`
	Note       *string   `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	CreatedAt  time.Time `json:"createdAt"`
}
