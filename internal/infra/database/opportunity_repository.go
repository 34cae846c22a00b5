package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

type OpportunityRepository struct {
	DB *sql.DB
}

func NewOpportunityRepository(db *sql.DB) *OpportunityRepository {
	return &OpportunityRepository{DB: db}
}

func (r *OpportunityRepository) Create(ctx context.Context, opp *entity.Opportunity) error {
	activities, err := json.Marshal(opp.Activities)
	if err != nil {
		return err
	}
	nextActions, err := json.Marshal(opp.NextActions)
	if err != nil {
		return err
	}

	var managerInfo []byte
	if opp.ManagerInfo != nil {
		managerInfo, err = json.Marshal(opp.ManagerInfo)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO opportunities (
			id, title, client_id, lead_id, opportunity_type, status,
			value, probability, estimated_close_date, property_details,
			manager_info, activities, next_actions, created_by,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = r.DB.ExecContext(ctx, query,
		opp.ID,
		opp.Title,
		opp.ClientID,
		nullString(opp.LeadID),
		opp.Type,
		opp.Status,
		opp.Value,
		opp.Probability,
		opp.EstimatedCloseDate,
		nullString(opp.PropertyDetails),
		nullBytes(managerInfo),
		activities,
		nextActions,
		nullString(opp.CreatedBy),
		opp.CreatedAt,
		opp.UpdatedAt,
	)

	if err != nil {
		log.Printf("Erro crítico no banco (opportunities): %v", err)
		return err
	}

	return nil
}

func (r *OpportunityRepository) FindByID(ctx context.Context, id string) (*entity.Opportunity, error) {
	query := `
		SELECT id, title, client_id, COALESCE(lead_id, ''), opportunity_type,
		       status, value, probability, estimated_close_date,
		       COALESCE(property_details, ''), manager_info, activities,
		       next_actions, COALESCE(created_by, ''), created_at, updated_at
		FROM opportunities
		WHERE id = $1
	`

	opp := &entity.Opportunity{}
	var managerInfo, activities, nextActions []byte

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&opp.ID, &opp.Title, &opp.ClientID, &opp.LeadID, &opp.Type,
		&opp.Status, &opp.Value, &opp.Probability, &opp.EstimatedCloseDate,
		&opp.PropertyDetails, &managerInfo, &activities,
		&nextActions, &opp.CreatedBy, &opp.CreatedAt, &opp.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrOpportunityNotFound
	}
	if err != nil {
		log.Printf("Erro crítico no banco (opportunities): %v", err)
		return nil, err
	}

	if len(managerInfo) > 0 {
		opp.ManagerInfo = &entity.ManagerInfo{}
		if err := json.Unmarshal(managerInfo, opp.ManagerInfo); err != nil {
			return nil, err
		}
	}
	if err := json.Unmarshal(activities, &opp.Activities); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(nextActions, &opp.NextActions); err != nil {
		return nil, err
	}

	return opp, nil
}

// Delete existe só para a compensação de saga da conversão.
func (r *OpportunityRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
	return err
}

func nullBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
