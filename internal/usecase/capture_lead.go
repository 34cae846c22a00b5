package usecase

import (
	"context"
	"strings"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

type CaptureLeadInput struct {
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	InterestType string `json:"interest_type,omitempty"`
	BudgetRange  string `json:"budget_range,omitempty"`
	Source       string `json:"source,omitempty"`
	ManagerName  string `json:"manager_name,omitempty"`
	ManagerPhone string `json:"manager_phone,omitempty"`
	ManagerEmail string `json:"manager_email,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type CaptureLeadOutput struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	QualityScore int    `json:"quality_score"`
}

// CaptureLeadUseCase regista um contacto inbound. Upsert por telefone:
// o mesmo contacto a preencher dois formulários não duplica lead.
type CaptureLeadUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Scorer   LeadScorer
}

func NewCaptureLeadUseCase(leadRepo entity.LeadRepositoryInterface, scorer LeadScorer) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{LeadRepo: leadRepo, Scorer: scorer}
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	if strings.TrimSpace(input.Phone) == "" && strings.TrimSpace(input.Email) == "" {
		return nil, &DomainError{
			Code:    CodeValidationError,
			Message: "telefone ou email é obrigatório para captar um lead",
		}
	}

	lead := entity.NewLead(input.Name, input.Phone, input.Email, input.Source)
	lead.InterestType = input.InterestType
	lead.BudgetRange = input.BudgetRange
	lead.ManagerName = input.ManagerName
	lead.ManagerPhone = input.ManagerPhone
	lead.ManagerEmail = input.ManagerEmail
	lead.Notes = input.Notes

	if err := uc.LeadRepo.Upsert(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabaseError,
			Message: "falha ao gravar lead: " + err.Error(),
		}
	}

	score := 0
	if uc.Scorer != nil {
		score = uc.Scorer.ScoreLead(lead)
	}

	return &CaptureLeadOutput{
		ID:           lead.ID,
		Status:       string(lead.Status),
		QualityScore: score,
	}, nil
}
