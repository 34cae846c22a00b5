package usecase

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/queue"
)

// ConvertLeadUseCase é o pipeline lead → cliente → oportunidade.
// Duas operações explícitas: RequestConversion (sondagem, zero
// escritas) e CommitConversion (saga de 4 escritas).
type ConvertLeadUseCase struct {
	LeadRepo        entity.LeadRepositoryInterface
	ClientRepo      entity.ClientRepositoryInterface
	OpportunityRepo entity.OpportunityRepositoryInterface
	Cache           LeadCacheInterface
	Queue           EventProducerInterface
	EmailService    EmailService
	WhatsAppService WhatsAppService
}

func NewConvertLeadUseCase(
	leadRepo entity.LeadRepositoryInterface,
	clientRepo entity.ClientRepositoryInterface,
	opportunityRepo entity.OpportunityRepositoryInterface,
	cache LeadCacheInterface,
	queue EventProducerInterface,
	emailService EmailService,
	whatsappService WhatsAppService,
) *ConvertLeadUseCase {
	return &ConvertLeadUseCase{
		LeadRepo:        leadRepo,
		ClientRepo:      clientRepo,
		OpportunityRepo: opportunityRepo,
		Cache:           cache,
		Queue:           queue,
		EmailService:    emailService,
		WhatsAppService: whatsappService,
	}
}

// RequestConversionOutput devolve o snapshot do lead e um rascunho de
// cliente pré-preenchido para o passo de confirmação.
type RequestConversionOutput struct {
	Lead        *entity.Lead `json:"lead"`
	ClientDraft ClientData   `json:"client_draft"`
}

// RequestConversion verifica elegibilidade sem mutar nada.
func (uc *ConvertLeadUseCase) RequestConversion(ctx context.Context, leadID string) (*RequestConversionOutput, error) {
	if _, ok := ActorFromContext(ctx); !ok {
		return nil, &DomainError{Code: CodeNotAuthenticated, Message: "sessão expirada, faça login novamente"}
	}

	lead, err := uc.findLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	return &RequestConversionOutput{
		Lead: lead,
		ClientDraft: ClientData{
			Name:  lead.Name,
			Phone: lead.Phone,
			Email: lead.Email,
		},
	}, nil
}

type CommitConversionInput struct {
	LeadID     string     `json:"lead_id"`
	ClientData ClientData `json:"client_data"`

	// PropertyReference opcional: imóvel já identificado na triagem.
	PropertyReference string `json:"property_reference,omitempty"`
}

type ConversionResult struct {
	Success       bool                `json:"success"`
	ClientID      string              `json:"client_id"`
	OpportunityID string              `json:"opportunity_id"`
	Client        *entity.Client      `json:"client"`
	Opportunity   *entity.Opportunity `json:"opportunity"`
	QualityScore  int                 `json:"quality_score"`
	Message       string              `json:"message"`
}

// CommitConversion executa a transição terminal. Ordem fixa: cliente,
// oportunidade, link no cliente, UPDATE condicional no lead. A última
// escrita é a que torna a conversão visível; se ela reporta que outro
// commit ganhou a corrida, as compensações apagam cliente e
// oportunidade órfãos.
func (uc *ConvertLeadUseCase) CommitConversion(ctx context.Context, input CommitConversionInput) (*ConversionResult, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil, &DomainError{Code: CodeNotAuthenticated, Message: "sessão expirada, faça login novamente"}
	}

	lead, err := uc.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	validation := ValidateConversion(input.ClientData, ValidateOptions{AllowIncomplete: true})
	if !validation.IsValid {
		return nil, &DomainError{
			Code:       CodeValidationError,
			Message:    validation.Summary(),
			Validation: &validation,
		}
	}

	now := time.Now()
	client := buildClient(lead, input.ClientData, validation, actor, now)
	client.PropertyReference = input.PropertyReference

	opportunity := entity.NewOpportunityFromLead(lead, client.ID, actor.UID)

	txn := NewTransaction()

	txn.AddOperation("create_client", func(ctx context.Context) error {
		return uc.ClientRepo.Create(ctx, client)
	})
	txn.AddCompensation("delete_client", func(ctx context.Context) error {
		return uc.ClientRepo.Delete(ctx, client.ID)
	})

	txn.AddOperation("create_opportunity", func(ctx context.Context) error {
		return uc.OpportunityRepo.Create(ctx, opportunity)
	})
	txn.AddCompensation("delete_opportunity", func(ctx context.Context) error {
		return uc.OpportunityRepo.Delete(ctx, opportunity.ID)
	})

	// Sem compensações daqui para baixo: link_client é reversível pelo
	// delete_client e mark_lead_converted é a própria barreira de
	// corrida.
	txn.AddOperation("link_client", func(ctx context.Context) error {
		return uc.ClientRepo.SetLastOpportunity(ctx, client.ID, opportunity.ID)
	})

	txn.AddOperation("mark_lead_converted", func(ctx context.Context) error {
		return uc.LeadRepo.MarkConverted(ctx, lead.ID, entity.ConversionLink{
			ClientID:      client.ID,
			OpportunityID: opportunity.ID,
			QualityScore:  validation.QualityScore,
			ConvertedBy:   actor.UID,
			ConvertedAt:   now,
		})
	})

	if err := txn.Execute(ctx); err != nil {
		// Corrida perdida: outro commit converteu o lead primeiro.
		// Cliente e oportunidade já foram compensados.
		if errors.Is(err, entity.ErrLeadAlreadyConverted) {
			return nil, &DomainError{Code: CodeAlreadyConverted, Message: "este lead já foi convertido"}
		}
		return nil, &TechnicalError{
			Code:    CodeDatabaseError,
			Message: "falha ao persistir conversão: " + err.Error(),
		}
	}

	uc.syncLeadState(ctx, lead, client.ID, opportunity.ID, now)

	if uc.Queue != nil {
		payload := queue.LeadConvertedPayload{
			LeadID:        lead.ID,
			ClientID:      client.ID,
			OpportunityID: opportunity.ID,
			ClientName:    client.Name,
			ClientPhone:   client.Phone,
			ClientEmail:   client.Email,
			ManagerName:   client.ManagerName,
			QualityScore:  validation.QualityScore,
			ConvertedBy:   actor.UID,
		}
		if err := uc.Queue.PublishLeadConverted(ctx, payload); err != nil {
			// Conversão já é durável; automação fica para trás mas o
			// resultado não muda.
			log.Printf("⚠️ CRITICAL: Lead convertido, mas falha na fila: %v", err)
		}
	} else {
		// Sem fila configurada, as boas-vindas saem inline. Best-effort:
		// o resultado da conversão não depende delas.
		go func() {
			if uc.EmailService != nil && client.Email != "" {
				uc.EmailService.SendClientWelcome(client.Email, client.Name, client.ManagerName)
			}

			if uc.WhatsAppService != nil && client.Phone != "" {
				templateID := os.Getenv("WHATSAPP_TEMPLATE_ID")
				uc.WhatsAppService.SendConversionFollowUp(client.Phone, client.Name, templateID)
			}
		}()
	}

	return &ConversionResult{
		Success:       true,
		ClientID:      client.ID,
		OpportunityID: opportunity.ID,
		Client:        client,
		Opportunity:   opportunity,
		QualityScore:  validation.QualityScore,
		Message:       "Lead convertido com sucesso!",
	}, nil
}

func (uc *ConvertLeadUseCase) findLead(ctx context.Context, leadID string) (*entity.Lead, error) {
	if strings.TrimSpace(leadID) == "" {
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead id em falta"}
	}

	lead, err := uc.LeadRepo.FindByID(ctx, leadID)
	if err != nil {
		if err == entity.ErrLeadNotFound {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead não encontrado"}
		}
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "falha ao buscar lead: " + err.Error()}
	}

	if !lead.CanConvert() {
		return nil, &DomainError{Code: CodeAlreadyConverted, Message: "este lead já foi convertido"}
	}

	return lead, nil
}

// buildClient funde: base do lead ← overrides confirmados ← campos de
// sistema, e anexa o bloco de auditoria da validação às notas.
func buildClient(lead *entity.Lead, data ClientData, validation ConversionValidation, actor Actor, now time.Time) *entity.Client {
	client := &entity.Client{
		Name:  firstNonEmpty(data.Name, lead.Name),
		Phone: firstNonEmpty(data.Phone, lead.Phone),
		Email: firstNonEmpty(data.Email, lead.Email),

		ClientType:   firstNonEmpty(data.ClientType, "comprador"),
		InterestType: lead.InterestType,
		BudgetRange:  lead.BudgetRange,

		PropertyStatus: "a_procura",

		NIF:           data.NIF,
		Profession:    data.Profession,
		BirthDate:     data.BirthDate,
		MaritalStatus: data.MaritalStatus,

		ManagerName:  lead.ManagerName,
		ManagerPhone: lead.ManagerPhone,
		ManagerEmail: lead.ManagerEmail,

		OriginalLeadID:    lead.ID,
		ConvertedFromLead: true,

		IsActive:         true,
		CreatedBy:        actor.UID,
		StructureVersion: entity.ClientStructureVersion,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	client.ID = uuid.New().String()

	notes := strings.TrimSpace(strings.Join([]string{lead.Notes, data.Observations}, "\n"))
	audit := validation.AuditBlock(now)
	if notes != "" {
		client.Notes = notes + "\n\n" + audit
	} else {
		client.Notes = audit
	}

	return client
}

// syncLeadState atualiza o espelho em cache com o estado terminal.
// Falha no patch degrada para invalidate: leitura seguinte vai ao
// banco.
func (uc *ConvertLeadUseCase) syncLeadState(ctx context.Context, lead *entity.Lead, clientID, opportunityID string, now time.Time) {
	lead.Status = entity.LeadStatusConvertido
	lead.IsConverted = true
	lead.ConvertedToClientID = clientID
	lead.ConvertedToOpportunityID = opportunityID
	lead.UpdatedAt = now

	if uc.Cache == nil {
		return
	}
	if err := uc.Cache.Patch(ctx, lead); err != nil {
		log.Printf("⚠️ Cache: patch falhou para lead %s, invalidando: %v", lead.ID, err)
		if err := uc.Cache.Invalidate(ctx, lead.ID); err != nil {
			log.Printf("⚠️ Cache: invalidate também falhou para lead %s: %v", lead.ID, err)
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
