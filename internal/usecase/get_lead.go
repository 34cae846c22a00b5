package usecase

import (
	"context"
	"log"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

// GetLeadUseCase lê um lead pelo espelho em cache. Cache hit evita o
// banco; miss busca no Postgres e repovoa a entrada. Erros de cache
// nunca bloqueiam a leitura: degradam para o banco.
type GetLeadUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Cache    LeadCacheInterface
}

func NewGetLeadUseCase(leadRepo entity.LeadRepositoryInterface, cache LeadCacheInterface) *GetLeadUseCase {
	return &GetLeadUseCase{LeadRepo: leadRepo, Cache: cache}
}

func (uc *GetLeadUseCase) Execute(ctx context.Context, leadID string) (*entity.Lead, error) {
	if _, ok := ActorFromContext(ctx); !ok {
		return nil, &DomainError{Code: CodeNotAuthenticated, Message: "sessão expirada, faça login novamente"}
	}

	if uc.Cache != nil {
		cached, err := uc.Cache.Get(ctx, leadID)
		if err != nil {
			log.Printf("⚠️ Cache: leitura falhou para lead %s, indo ao banco: %v", leadID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	lead, err := uc.LeadRepo.FindByID(ctx, leadID)
	if err != nil {
		if err == entity.ErrLeadNotFound {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead não encontrado"}
		}
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "falha ao buscar lead: " + err.Error()}
	}

	if uc.Cache != nil {
		if err := uc.Cache.Patch(ctx, lead); err != nil {
			log.Printf("⚠️ Cache: patch pós-leitura falhou para lead %s: %v", leadID, err)
		}
	}

	return lead, nil
}
