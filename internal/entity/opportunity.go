package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrOpportunityNotFound = errors.New("oportunidade não encontrada")

type OpportunityType string

const (
	OpportunityCompra       OpportunityType = "compra"
	OpportunityVenda        OpportunityType = "venda"
	OpportunityArrendamento OpportunityType = "arrendamento"
	OpportunityAluguer      OpportunityType = "aluguer"
)

type OpportunityStatus string

const (
	OpportunityStatusQualificacao OpportunityStatus = "qualificacao"
	OpportunityStatusProposta     OpportunityStatus = "proposta"
	OpportunityStatusNegociacao   OpportunityStatus = "negociacao"
	OpportunityStatusFechada      OpportunityStatus = "fechada"
	OpportunityStatusPerdida      OpportunityStatus = "perdida"
)

// Probabilidade inicial de fecho atribuída a toda oportunidade criada
// por conversão.
const InitialProbability = 25

// Ponto médio (em euros) de cada bucket de orçamento. Valores herdados
// do sistema anterior; mantidos por compatibilidade de relatórios.
var budgetValues = map[string]int{
	"ate_50k":      35000,
	"50k_100k":     75000,
	"100k_200k":    150000,
	"de_200k_300k": 250000,
	"300k_500k":    400000,
	"500k_750k":    625000,
	"750k_1m":      875000,
	"acima_1m":     1250000,
}

const defaultBudgetValue = 200000

// ValueFromBudgetRange devolve o ponto médio do bucket, ou o default
// quando o bucket é desconhecido ou vazio.
func ValueFromBudgetRange(budgetRange string) int {
	if v, ok := budgetValues[budgetRange]; ok {
		return v
	}
	return defaultBudgetValue
}

// TypeFromInterest deriva o tipo de oportunidade por substring do tipo
// de interesse do lead. "venda" antes de "arrendamento"/"aluguer" antes
// de "compra"; sem correspondência cai em compra.
func TypeFromInterest(interestType string) OpportunityType {
	it := strings.ToLower(interestType)
	switch {
	case strings.Contains(it, "venda"):
		return OpportunityVenda
	case strings.Contains(it, "arrendamento"):
		return OpportunityArrendamento
	case strings.Contains(it, "aluguer"):
		return OpportunityAluguer
	default:
		return OpportunityCompra
	}
}

// Activity é uma entrada do log append-only da oportunidade.
type Activity struct {
	Type        string    `json:"type"` // conversao, contacto, visita, proposta
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ManagerInfo struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Opportunity struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	ClientID string          `json:"client_id"`
	LeadID   string          `json:"lead_id,omitempty"`
	Type     OpportunityType `json:"opportunity_type"`

	Status      OpportunityStatus `json:"status"`
	Value       int               `json:"value"` // euros
	Probability int               `json:"probability"`

	EstimatedCloseDate time.Time `json:"estimated_close_date"`

	PropertyDetails string       `json:"property_details,omitempty"`
	ManagerInfo     *ManagerInfo `json:"manager_info,omitempty"`

	Activities  []Activity `json:"activities"`
	NextActions []string   `json:"next_actions"`

	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Checklist sugerida para toda oportunidade recém-convertida.
func DefaultNextActions() []string {
	return []string{
		"Contactar cliente",
		"Agendar visita",
		"Apresentar opções de imóveis",
		"Qualificar orçamento",
	}
}

// NewOpportunityFromLead deriva a oportunidade inicial a partir do lead
// convertido e do cliente acabado de criar.
func NewOpportunityFromLead(lead *Lead, clientID, createdBy string) *Opportunity {
	now := time.Now()

	opp := &Opportunity{
		ID:       uuid.New().String(),
		Title:    "Oportunidade - " + lead.Name,
		ClientID: clientID,
		LeadID:   lead.ID,
		Type:     TypeFromInterest(lead.InterestType),

		Status:      OpportunityStatusQualificacao,
		Value:       ValueFromBudgetRange(lead.BudgetRange),
		Probability: InitialProbability,

		EstimatedCloseDate: now.AddDate(0, 3, 0),

		Activities: []Activity{{
			Type:        "conversao",
			Description: "Oportunidade criada automaticamente na conversão do lead",
			CreatedBy:   createdBy,
			CreatedAt:   now,
		}},
		NextActions: DefaultNextActions(),

		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if lead.ManagerName != "" || lead.ManagerPhone != "" || lead.ManagerEmail != "" {
		opp.ManagerInfo = &ManagerInfo{
			Name:  lead.ManagerName,
			Phone: lead.ManagerPhone,
			Email: lead.ManagerEmail,
		}
	}

	return opp
}

type OpportunityRepositoryInterface interface {
	Create(ctx context.Context, opp *Opportunity) error
	FindByID(ctx context.Context, id string) (*Opportunity, error)
	Delete(ctx context.Context, id string) error
}
