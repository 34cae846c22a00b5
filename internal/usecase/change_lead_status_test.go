package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

func TestChangeLeadStatusValidTransition(t *testing.T) {
	ctx := authCtx()
	lead := anaSilvaLead()

	mockLeadRepo := new(MockLeadRepository)
	mockLeadRepo.On("FindByID", ctx, "lead-1").Return(lead, nil)
	mockLeadRepo.On("UpdateStatus", ctx, "lead-1", entity.LeadStatusContactado, mock.Anything).Return(nil)

	uc := NewChangeLeadStatusUseCase(mockLeadRepo, nil)

	updated, err := uc.Execute(ctx, ChangeLeadStatusInput{
		LeadID: "lead-1",
		Status: entity.LeadStatusContactado,
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.LeadStatusContactado, updated.Status)
	// contactado regista o momento do contacto
	assert.NotNil(t, updated.LastContactAt)
}

func TestChangeLeadStatusRejectsConvertido(t *testing.T) {
	uc := NewChangeLeadStatusUseCase(new(MockLeadRepository), nil)

	_, err := uc.Execute(authCtx(), ChangeLeadStatusInput{
		LeadID: "lead-1",
		Status: entity.LeadStatusConvertido,
	})

	assert.Equal(t, CodeValidationError, DomainCode(err))
}

func TestChangeLeadStatusInvalidTransition(t *testing.T) {
	ctx := authCtx()
	lead := anaSilvaLead()
	lead.Status = entity.LeadStatusPerdido

	mockLeadRepo := new(MockLeadRepository)
	mockLeadRepo.On("FindByID", ctx, "lead-1").Return(lead, nil)

	uc := NewChangeLeadStatusUseCase(mockLeadRepo, nil)

	_, err := uc.Execute(ctx, ChangeLeadStatusInput{
		LeadID: "lead-1",
		Status: entity.LeadStatusContactado,
	})

	assert.Equal(t, CodeValidationError, DomainCode(err))
	mockLeadRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeLeadStatusUnknownStatus(t *testing.T) {
	uc := NewChangeLeadStatusUseCase(new(MockLeadRepository), nil)

	_, err := uc.Execute(authCtx(), ChangeLeadStatusInput{
		LeadID: "lead-1",
		Status: entity.LeadStatus("fechado"),
	})

	assert.Equal(t, CodeValidationError, DomainCode(err))
}

func TestChangeLeadStatusRequiresActor(t *testing.T) {
	uc := NewChangeLeadStatusUseCase(new(MockLeadRepository), nil)

	_, err := uc.Execute(context.Background(), ChangeLeadStatusInput{
		LeadID: "lead-1",
		Status: entity.LeadStatusContactado,
	})

	assert.Equal(t, CodeNotAuthenticated, DomainCode(err))
}
