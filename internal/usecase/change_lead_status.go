package usecase

import (
	"context"
	"time"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

type ChangeLeadStatusInput struct {
	LeadID string            `json:"lead_id"`
	Status entity.LeadStatus `json:"status"`
}

// ChangeLeadStatusUseCase aplica a tabela de transições do lead.
// "convertido" é rejeitado aqui sempre: esse status só existe como
// saída do pipeline de conversão.
type ChangeLeadStatusUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Cache    LeadCacheInterface
}

func NewChangeLeadStatusUseCase(leadRepo entity.LeadRepositoryInterface, cache LeadCacheInterface) *ChangeLeadStatusUseCase {
	return &ChangeLeadStatusUseCase{LeadRepo: leadRepo, Cache: cache}
}

func (uc *ChangeLeadStatusUseCase) Execute(ctx context.Context, input ChangeLeadStatusInput) (*entity.Lead, error) {
	if _, ok := ActorFromContext(ctx); !ok {
		return nil, &DomainError{Code: CodeNotAuthenticated, Message: "sessão expirada, faça login novamente"}
	}

	if !input.Status.IsValid() {
		return nil, &DomainError{Code: CodeValidationError, Message: "status desconhecido: " + string(input.Status)}
	}
	if input.Status == entity.LeadStatusConvertido {
		return nil, &DomainError{
			Code:    CodeValidationError,
			Message: "status convertido só pode ser atribuído pela conversão",
		}
	}

	lead, err := uc.LeadRepo.FindByID(ctx, input.LeadID)
	if err != nil {
		if err == entity.ErrLeadNotFound {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead não encontrado"}
		}
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "falha ao buscar lead: " + err.Error()}
	}

	if !entity.CanTransition(lead.Status, input.Status) {
		return nil, &DomainError{
			Code:    CodeValidationError,
			Message: "transição inválida: " + string(lead.Status) + " → " + string(input.Status),
		}
	}

	now := time.Now()
	var lastContact *time.Time
	if input.Status == entity.LeadStatusContactado {
		lastContact = &now
	}

	if err := uc.LeadRepo.UpdateStatus(ctx, lead.ID, input.Status, lastContact); err != nil {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "falha ao atualizar status: " + err.Error()}
	}

	lead.Status = input.Status
	if lastContact != nil {
		lead.LastContactAt = lastContact
	}
	lead.UpdatedAt = now

	if uc.Cache != nil {
		if err := uc.Cache.Patch(ctx, lead); err != nil {
			uc.Cache.Invalidate(ctx, lead.ID)
		}
	}

	return lead, nil
}
