package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/lib/pq"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (
			id, name, phone, email, client_type, interest_type, budget_range,
			property_status, property_reference, nif, profession, birth_date,
			marital_status, manager_name, manager_phone, manager_email,
			original_lead_id, converted_from_lead, has_opportunities,
			notes, is_active, created_by, structure_version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Phone,
		nullString(c.Email),
		nullString(c.ClientType),
		nullString(c.InterestType),
		nullString(c.BudgetRange),
		nullString(c.PropertyStatus),
		nullString(c.PropertyReference),
		nullString(c.NIF),
		nullString(c.Profession),
		nullString(c.BirthDate),
		nullString(c.MaritalStatus),
		nullString(c.ManagerName),
		nullString(c.ManagerPhone),
		nullString(c.ManagerEmail),
		nullString(c.OriginalLeadID),
		c.ConvertedFromLead,
		c.HasOpportunities,
		nullString(c.Notes),
		c.IsActive,
		nullString(c.CreatedBy),
		c.StructureVersion,
		c.CreatedAt,
		c.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// unique_violation no original_lead_id: o mesmo lead já
			// gerou um cliente num commit concorrente.
			return entity.ErrLeadAlreadyConverted
		}

		log.Printf("Erro crítico no banco (clients): %v", err)
		return err
	}

	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	query := `
		SELECT id, name, phone, COALESCE(email, ''), COALESCE(client_type, ''),
		       COALESCE(interest_type, ''), COALESCE(budget_range, ''),
		       COALESCE(property_status, ''), COALESCE(property_reference, ''),
		       COALESCE(nif, ''), COALESCE(profession, ''), COALESCE(birth_date, ''),
		       COALESCE(marital_status, ''), COALESCE(manager_name, ''),
		       COALESCE(manager_phone, ''), COALESCE(manager_email, ''),
		       COALESCE(original_lead_id, ''), converted_from_lead,
		       has_opportunities, COALESCE(last_opportunity_id, ''),
		       COALESCE(notes, ''), is_active, COALESCE(created_by, ''),
		       structure_version, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	c := &entity.Client{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.ClientType,
		&c.InterestType, &c.BudgetRange,
		&c.PropertyStatus, &c.PropertyReference,
		&c.NIF, &c.Profession, &c.BirthDate,
		&c.MaritalStatus, &c.ManagerName,
		&c.ManagerPhone, &c.ManagerEmail,
		&c.OriginalLeadID, &c.ConvertedFromLead,
		&c.HasOpportunities, &c.LastOpportunityID,
		&c.Notes, &c.IsActive, &c.CreatedBy,
		&c.StructureVersion, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrClientNotFound
	}
	if err != nil {
		log.Printf("Erro crítico no banco (clients): %v", err)
		return nil, err
	}

	return c, nil
}

func (r *ClientRepository) SetLastOpportunity(ctx context.Context, clientID, opportunityID string) error {
	query := `
		UPDATE clients
		SET has_opportunities = TRUE,
		    last_opportunity_id = $2,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.DB.ExecContext(ctx, query, clientID, opportunityID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrClientNotFound
	}

	return nil
}

// Delete é usado apenas como compensação de saga; clientes "vivos"
// nunca são removidos, só desativados.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}
