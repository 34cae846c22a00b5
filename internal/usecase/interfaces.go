package usecase

import (
	"context"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/queue"
)

// Actor é o utilizador autenticado que assina as escritas
// (created_by/modified_by). A ausência de actor é falha dura.
type Actor struct {
	UID   string
	Email string
}

type actorKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || actor.UID == "" {
		return Actor{}, false
	}
	return actor, true
}

// LeadCache espelha a lista de leads com contrato explícito: ou o
// patch aplica, ou a entrada é invalidada. Nunca fica estado velho.
// Get devolve (nil, nil) em cache miss.
type LeadCacheInterface interface {
	Get(ctx context.Context, leadID string) (*entity.Lead, error)
	Patch(ctx context.Context, lead *entity.Lead) error
	Invalidate(ctx context.Context, leadID string) error
}

type EventProducerInterface interface {
	PublishLeadConverted(ctx context.Context, payload queue.LeadConvertedPayload) error
}

type EmailService interface {
	SendClientWelcome(to, name, managerName string) error
}

type WhatsAppService interface {
	SendConversionFollowUp(phone, name, templateID string) error
}

type LeadScorer interface {
	ScoreLead(lead *entity.Lead) int
}
