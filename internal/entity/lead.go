package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrLeadNotFound = errors.New("lead não encontrado")
var ErrLeadAlreadyConverted = errors.New("lead já foi convertido")

type LeadStatus string

const (
	LeadStatusNovo        LeadStatus = "novo"
	LeadStatusContactado  LeadStatus = "contactado"
	LeadStatusQualificado LeadStatus = "qualificado"
	LeadStatusConvertido  LeadStatus = "convertido"
	LeadStatusPerdido     LeadStatus = "perdido"
	LeadStatusInativo     LeadStatus = "inativo"
)

// Transições permitidas. "convertido" nunca aparece como destino aqui:
// só o pipeline de conversão pode gravar esse status.
var leadTransitions = map[LeadStatus]map[LeadStatus]bool{
	LeadStatusNovo:        {LeadStatusContactado: true, LeadStatusQualificado: true, LeadStatusPerdido: true, LeadStatusInativo: true},
	LeadStatusContactado:  {LeadStatusQualificado: true, LeadStatusPerdido: true, LeadStatusInativo: true},
	LeadStatusQualificado: {LeadStatusContactado: true, LeadStatusPerdido: true, LeadStatusInativo: true},
	LeadStatusInativo:     {LeadStatusContactado: true, LeadStatusPerdido: true},
	LeadStatusPerdido:     {},
	LeadStatusConvertido:  {},
}

func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNovo, LeadStatusContactado, LeadStatusQualificado,
		LeadStatusConvertido, LeadStatusPerdido, LeadStatusInativo:
		return true
	}
	return false
}

// IsTerminal: convertido e perdido encerram o ciclo do lead.
func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusConvertido || s == LeadStatusPerdido
}

func CanTransition(from, to LeadStatus) bool {
	nexts, ok := leadTransitions[from]
	if !ok {
		return false
	}
	return nexts[to]
}

type Lead struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email,omitempty"`
	InterestType string     `json:"interest_type,omitempty"` // ex: compra_apartamento
	BudgetRange  string     `json:"budget_range,omitempty"`  // ex: de_200k_300k
	Status       LeadStatus `json:"status"`
	Source       string     `json:"source,omitempty"` // website, whatsapp, referencia...

	IsConverted              bool   `json:"is_converted"`
	ConvertedToClientID      string `json:"converted_to_client_id,omitempty"`
	ConvertedToOpportunityID string `json:"converted_to_opportunity_id,omitempty"`

	ManagerName  string `json:"manager_name,omitempty"`
	ManagerPhone string `json:"manager_phone,omitempty"`
	ManagerEmail string `json:"manager_email,omitempty"`

	Notes    string `json:"notes,omitempty"`
	IsActive bool   `json:"is_active"`

	LastContactAt *time.Time `json:"last_contact_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func NewLead(name, phone, email, source string) *Lead {
	return &Lead{
		ID:       uuid.New().String(),
		Name:     name,
		Phone:    phone,
		Email:    email,
		Source:   source,
		Status:   LeadStatusNovo,
		IsActive: true,

		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CanConvert é a guarda de elegibilidade: um lead terminal nunca volta.
func (l *Lead) CanConvert() bool {
	return !l.IsConverted && l.Status != LeadStatusConvertido
}

// ConversionLink são os ids gravados no lead quando a conversão fecha.
type ConversionLink struct {
	ClientID      string
	OpportunityID string
	QualityScore  int
	ConvertedBy   string
	ConvertedAt   time.Time
}

type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus, lastContactAt *time.Time) error

	// MarkConverted grava o estado terminal com UPDATE condicional
	// (status <> 'convertido' AND NOT is_converted). Retorna
	// ErrLeadAlreadyConverted quando nenhuma linha é afetada.
	MarkConverted(ctx context.Context, id string, link ConversionLink) error

	SoftDelete(ctx context.Context, id string) error
}
