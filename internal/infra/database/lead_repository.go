package database

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert com telefone chaveia pelo telefone; upsert sem telefone grava
// phone NULL e chaveia pelo email (índice parcial único em email WHERE
// phone IS NULL). Assim dois contactos só com email nunca se fundem
// num lead só.
const leadUpsertByPhone = `
	INSERT INTO leads (
		id, name, phone, email, interest_type, budget_range, status,
		source, manager_name, manager_phone, manager_email, notes,
		is_active, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	ON CONFLICT (phone)
	DO UPDATE SET
		name = COALESCE(NULLIF(EXCLUDED.name, ''), leads.name),
		email = COALESCE(NULLIF(EXCLUDED.email, ''), leads.email),
		interest_type = COALESCE(NULLIF(EXCLUDED.interest_type, ''), leads.interest_type),
		budget_range = COALESCE(NULLIF(EXCLUDED.budget_range, ''), leads.budget_range),
		notes = COALESCE(NULLIF(EXCLUDED.notes, ''), leads.notes),
		updated_at = NOW()
	RETURNING id, status, is_converted, created_at, updated_at
`

const leadUpsertByEmail = `
	INSERT INTO leads (
		id, name, phone, email, interest_type, budget_range, status,
		source, manager_name, manager_phone, manager_email, notes,
		is_active, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	ON CONFLICT (email) WHERE phone IS NULL
	DO UPDATE SET
		name = COALESCE(NULLIF(EXCLUDED.name, ''), leads.name),
		interest_type = COALESCE(NULLIF(EXCLUDED.interest_type, ''), leads.interest_type),
		budget_range = COALESCE(NULLIF(EXCLUDED.budget_range, ''), leads.budget_range),
		notes = COALESCE(NULLIF(EXCLUDED.notes, ''), leads.notes),
		updated_at = NOW()
	RETURNING id, status, is_converted, created_at, updated_at
`

func leadUpsertQuery(lead *entity.Lead) string {
	if strings.TrimSpace(lead.Phone) == "" {
		return leadUpsertByEmail
	}
	return leadUpsertByPhone
}

func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	lead.Phone = strings.TrimSpace(lead.Phone)

	err := r.DB.QueryRowContext(
		ctx,
		leadUpsertQuery(lead),
		lead.ID,
		lead.Name,
		nullString(lead.Phone),
		nullString(lead.Email),
		nullString(lead.InterestType),
		nullString(lead.BudgetRange),
		lead.Status,
		nullString(lead.Source),
		nullString(lead.ManagerName),
		nullString(lead.ManagerPhone),
		nullString(lead.ManagerEmail),
		nullString(lead.Notes),
		lead.IsActive,
	).Scan(
		&lead.ID,
		&lead.Status,
		&lead.IsConverted,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)

	return err
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(interest_type, ''),
		       COALESCE(budget_range, ''), status, COALESCE(source, ''),
		       is_converted, COALESCE(converted_to_client_id, ''),
		       COALESCE(converted_to_opportunity_id, ''),
		       COALESCE(manager_name, ''), COALESCE(manager_phone, ''),
		       COALESCE(manager_email, ''), COALESCE(notes, ''),
		       is_active, last_contact_at, created_at, updated_at
		FROM leads
		WHERE id = $1
	`

	lead := &entity.Lead{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.InterestType,
		&lead.BudgetRange,
		&lead.Status,
		&lead.Source,
		&lead.IsConverted,
		&lead.ConvertedToClientID,
		&lead.ConvertedToOpportunityID,
		&lead.ManagerName,
		&lead.ManagerPhone,
		&lead.ManagerEmail,
		&lead.Notes,
		&lead.IsActive,
		&lead.LastContactAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		log.Printf("Erro crítico no banco (leads): %v", err)
		return nil, err
	}

	return lead, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus, lastContactAt *time.Time) error {
	query := `
		UPDATE leads
		SET status = $2,
		    last_contact_at = COALESCE($3, last_contact_at),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.DB.ExecContext(ctx, query, id, status, lastContactAt)
	if err != nil {
		log.Printf("Erro crítico no banco (update_status): %v", err)
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrLeadNotFound
	}

	return nil
}

func (r *LeadRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// MarkConverted é a barreira da conversão: UPDATE condicional que só
// afeta leads ainda não terminais. Zero linhas = outro commit ganhou.
func (r *LeadRepository) MarkConverted(ctx context.Context, id string, link entity.ConversionLink) error {
	query := `
		UPDATE leads
		SET
			status = 'convertido',
			is_converted = TRUE,
			converted_to_client_id = $2,
			converted_to_opportunity_id = $3,
			conversion_quality_score = $4,
			converted_by = $5,
			converted_at = $6,
			updated_at = NOW()
		WHERE id = $1
		  AND status <> 'convertido'
		  AND NOT is_converted
	`

	result, err := r.DB.ExecContext(ctx, query,
		id,
		link.ClientID,
		link.OpportunityID,
		link.QualityScore,
		link.ConvertedBy,
		link.ConvertedAt,
	)
	if err != nil {
		log.Printf("Erro crítico no banco (mark_converted): %v", err)
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Ou o lead não existe, ou já está convertido. O pipeline já
		// confirmou a existência, então trata como corrida perdida.
		return entity.ErrLeadAlreadyConverted
	}

	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
