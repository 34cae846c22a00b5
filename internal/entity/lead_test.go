package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadCanConvert(t *testing.T) {
	lead := NewLead("Ana Silva", "912345678", "", "website")
	assert.True(t, lead.CanConvert())

	lead.IsConverted = true
	assert.False(t, lead.CanConvert())

	lead.IsConverted = false
	lead.Status = LeadStatusConvertido
	assert.False(t, lead.CanConvert())
}

func TestLeadStatusTransitions(t *testing.T) {
	assert.True(t, CanTransition(LeadStatusNovo, LeadStatusContactado))
	assert.True(t, CanTransition(LeadStatusContactado, LeadStatusQualificado))
	assert.True(t, CanTransition(LeadStatusInativo, LeadStatusContactado))

	// Estados terminais não saem
	assert.False(t, CanTransition(LeadStatusConvertido, LeadStatusNovo))
	assert.False(t, CanTransition(LeadStatusPerdido, LeadStatusContactado))

	// convertido nunca é destino de transição manual
	for _, from := range []LeadStatus{LeadStatusNovo, LeadStatusContactado, LeadStatusQualificado, LeadStatusInativo} {
		assert.False(t, CanTransition(from, LeadStatusConvertido), "from=%s", from)
	}
}

func TestLeadStatusIsTerminal(t *testing.T) {
	assert.True(t, LeadStatusConvertido.IsTerminal())
	assert.True(t, LeadStatusPerdido.IsTerminal())
	assert.False(t, LeadStatusNovo.IsTerminal())
	assert.False(t, LeadStatusInativo.IsTerminal())
}

func TestLeadStatusIsValid(t *testing.T) {
	assert.True(t, LeadStatusNovo.IsValid())
	assert.False(t, LeadStatus("fechado").IsValid())
}
