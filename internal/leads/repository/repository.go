package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

const leadColumns = `id, first_name, last_name, email, phone, company, job_title, notes,
	source, status, value_cents, lead_score, interaction_count,
	purchase_total_cents, purchase_products, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                 uuid.UUID
	FirstName          string
	LastName           string
	Email              string
	Phone              *string
	Company            *string
	JobTitle           *string
	Notes              *string
	Source             string
	Status             string
	ValueCents         int64
	LeadScore          int
	InteractionCount   int
	PurchaseTotalCents int64
	PurchaseProducts   []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.FirstName, &lead.LastName, &lead.Email, &lead.Phone,
		&lead.Company, &lead.JobTitle, &lead.Notes,
		&lead.Source, &lead.Status, &lead.ValueCents, &lead.LeadScore, &lead.InteractionCount,
		&lead.PurchaseTotalCents, &lead.PurchaseProducts,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type CreateLeadParams struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      *string
	Company    *string
	JobTitle   *string
	Notes      *string
	Source     string
	Status     string
	ValueCents int64
	LeadScore  int
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			first_name, last_name, email, phone, company, job_title, notes,
			source, status, value_cents, lead_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+leadColumns+`
	`,
		params.FirstName, params.LastName, params.Email, params.Phone,
		params.Company, params.JobTitle, params.Notes,
		params.Source, params.Status, params.ValueCents, params.LeadScore,
	)

	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE id = $1
	`, id)
	return scanLead(row)
}

type UpdateLeadParams struct {
	FirstName          *string
	LastName           *string
	Email              *string
	Phone              *string
	PhoneSet           bool
	Company            *string
	CompanySet         bool
	JobTitle           *string
	JobTitleSet        bool
	Notes              *string
	NotesSet           bool
	Source             *string
	Status             *string
	ValueCents         *int64
	PurchaseTotalCents *int64
	PurchaseProducts   []string
	PurchaseSet        bool
	LeadScore          *int
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.FirstName != nil, "first_name", derefString(params.FirstName)},
		{params.LastName != nil, "last_name", derefString(params.LastName)},
		{params.Email != nil, "email", derefString(params.Email)},
		{params.PhoneSet, "phone", params.Phone},
		{params.CompanySet, "company", params.Company},
		{params.JobTitleSet, "job_title", params.JobTitle},
		{params.NotesSet, "notes", params.Notes},
		{params.Source != nil, "source", derefString(params.Source)},
		{params.Status != nil, "status", derefString(params.Status)},
		{params.ValueCents != nil, "value_cents", params.ValueCents},
		{params.PurchaseTotalCents != nil, "purchase_total_cents", params.PurchaseTotalCents},
		{params.PurchaseSet, "purchase_products", params.PurchaseProducts},
		{params.LeadScore != nil, "lead_score", params.LeadScore},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d
		RETURNING `+leadColumns+`
	`, strings.Join(setClauses, ", "), argIdx)

	return scanLead(r.pool.QueryRow(ctx, query, args...))
}

// UpdateStatus sets the pipeline status unconditionally. Transition
// legality is not checked; any status may follow any other.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, status)
	return scanLead(row)
}

// Delete removes the lead permanently.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type ListParams struct {
	Statuses      []string
	Source        *string
	Search        string
	CreatedAtFrom *time.Time
	CreatedAtTo   *time.Time
	Offset        int
	Limit         int
	SortBy        string
	SortOrder     string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	countQuery := "SELECT COUNT(*) FROM leads WHERE " + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := mapLeadSortColumn(params.SortBy)
	sortOrder := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT `+leadColumns+`
		FROM leads
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

func buildLeadListWhere(params ListParams) (string, []interface{}, int) {
	clauses := []string{"true"}
	args := []interface{}{}
	argIdx := 1

	if len(params.Statuses) > 0 {
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", argIdx))
		args = append(args, params.Statuses)
		argIdx++
	}
	if params.Source != nil {
		clauses = append(clauses, fmt.Sprintf("source = $%d", argIdx))
		args = append(args, *params.Source)
		argIdx++
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		clauses = append(clauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+search+"%")
		argIdx++
	}
	if params.CreatedAtFrom != nil {
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.CreatedAtFrom)
		argIdx++
	}
	if params.CreatedAtTo != nil {
		clauses = append(clauses, fmt.Sprintf("created_at < $%d", argIdx))
		args = append(args, *params.CreatedAtTo)
		argIdx++
	}

	return strings.Join(clauses, " AND "), args, argIdx
}

func mapLeadSortColumn(sortBy string) string {
	switch sortBy {
	case "firstName":
		return "first_name"
	case "lastName":
		return "last_name"
	case "value":
		return "value_cents"
	case "score":
		return "lead_score"
	case "updatedAt":
		return "updated_at"
	default:
		return "created_at"
	}
}
