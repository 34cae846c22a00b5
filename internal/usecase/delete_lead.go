package usecase

import (
	"context"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

// DeleteLeadUseCase desativa um lead. Nunca é hard delete: o registo
// fica com is_active = false e sai das listagens.
type DeleteLeadUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Cache    LeadCacheInterface
}

func NewDeleteLeadUseCase(leadRepo entity.LeadRepositoryInterface, cache LeadCacheInterface) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{LeadRepo: leadRepo, Cache: cache}
}

func (uc *DeleteLeadUseCase) Execute(ctx context.Context, leadID string) error {
	if _, ok := ActorFromContext(ctx); !ok {
		return &DomainError{Code: CodeNotAuthenticated, Message: "sessão expirada, faça login novamente"}
	}

	if err := uc.LeadRepo.SoftDelete(ctx, leadID); err != nil {
		if err == entity.ErrLeadNotFound {
			return &DomainError{Code: CodeLeadNotFound, Message: "lead não encontrado"}
		}
		return &TechnicalError{Code: CodeDatabaseError, Message: "falha ao desativar lead: " + err.Error()}
	}

	if uc.Cache != nil {
		uc.Cache.Invalidate(ctx, leadID)
	}

	return nil
}
