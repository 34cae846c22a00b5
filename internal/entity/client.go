package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrClientNotFound = errors.New("cliente não encontrado")

// Versão atual da estrutura do documento de cliente. Clientes antigos
// migrados de versões anteriores carregam valores menores.
const ClientStructureVersion = 3

// Entidade: Client — um contacto qualificado, normalmente produzido
// pela conversão de um lead.
type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`

	ClientType   string `json:"client_type,omitempty"` // comprador, vendedor, investidor
	InterestType string `json:"interest_type,omitempty"`
	BudgetRange  string `json:"budget_range,omitempty"`

	PropertyStatus    string `json:"property_status,omitempty"` // a_procura, visitas_agendadas...
	PropertyReference string `json:"property_reference,omitempty"`

	NIF           string `json:"nif,omitempty"`
	Profession    string `json:"profession,omitempty"`
	BirthDate     string `json:"birth_date,omitempty"` // YYYY-MM-DD
	MaritalStatus string `json:"marital_status,omitempty"`

	ManagerName  string `json:"manager_name,omitempty"`
	ManagerPhone string `json:"manager_phone,omitempty"`
	ManagerEmail string `json:"manager_email,omitempty"`

	OriginalLeadID    string `json:"original_lead_id,omitempty"`
	ConvertedFromLead bool   `json:"converted_from_lead"`
	HasOpportunities  bool   `json:"has_opportunities"`
	LastOpportunityID string `json:"last_opportunity_id,omitempty"`

	Notes            string    `json:"notes,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedBy        string    `json:"created_by,omitempty"`
	StructureVersion int       `json:"structure_version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Factory
func NewClient(name, phone, email string) (*Client, error) {
	client := &Client{
		ID:    uuid.New().String(),
		Name:  name,
		Phone: phone,
		Email: email,

		IsActive:         true,
		StructureVersion: ClientStructureVersion,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *Client) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Phone == "" {
		return errors.New("phone is required")
	}
	return nil
}

type ClientRepositoryInterface interface {
	Create(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)

	// SetLastOpportunity marca has_opportunities e grava o id da
	// oportunidade mais recente.
	SetLastOpportunity(ctx context.Context, clientID, opportunityID string) error

	Delete(ctx context.Context, id string) error
}
