package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

type fakeScorer struct{ score int }

func (f fakeScorer) ScoreLead(lead *entity.Lead) int { return f.score }

func TestCaptureLeadSuccess(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockLeadRepo.On("Upsert", ctx, mock.Anything).Return(nil)

	uc := NewCaptureLeadUseCase(mockLeadRepo, fakeScorer{score: 72})

	output, err := uc.Execute(ctx, CaptureLeadInput{
		Name:   "Ana Silva",
		Phone:  "912345678",
		Source: "website",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, output.ID)
	assert.Equal(t, string(entity.LeadStatusNovo), output.Status)
	assert.Equal(t, 72, output.QualityScore)
	mockLeadRepo.AssertExpectations(t)
}

func TestCaptureLeadRequiresPhoneOrEmail(t *testing.T) {
	uc := NewCaptureLeadUseCase(new(MockLeadRepository), nil)

	output, err := uc.Execute(context.Background(), CaptureLeadInput{Name: "Ana Silva"})

	assert.Nil(t, output)
	assert.Equal(t, CodeValidationError, DomainCode(err))
}

func TestCaptureLeadEmailOnlyIsAccepted(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockLeadRepo.On("Upsert", ctx, mock.Anything).Return(nil)

	uc := NewCaptureLeadUseCase(mockLeadRepo, nil)

	output, err := uc.Execute(ctx, CaptureLeadInput{Email: "ana@example.com"})

	assert.NoError(t, err)
	assert.NotEmpty(t, output.ID)
}

// Dois contactos só com email nunca se fundem: cada captação sem
// telefone gera o seu próprio lead, com telefone vazio a caminho do
// repositório (que grava NULL e chaveia pelo email).
func TestCaptureLeadEmailOnlyContactsStayDistinct(t *testing.T) {
	ctx := context.Background()

	var captured []*entity.Lead
	mockLeadRepo := new(MockLeadRepository)
	mockLeadRepo.On("Upsert", ctx, mock.Anything).Run(func(args mock.Arguments) {
		captured = append(captured, args.Get(1).(*entity.Lead))
	}).Return(nil)

	uc := NewCaptureLeadUseCase(mockLeadRepo, nil)

	first, err := uc.Execute(ctx, CaptureLeadInput{Name: "Ana Silva", Email: "ana@example.com"})
	assert.NoError(t, err)

	second, err := uc.Execute(ctx, CaptureLeadInput{Name: "Bruno Costa", Email: "bruno@example.com"})
	assert.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, captured, 2)
	assert.Empty(t, captured[0].Phone)
	assert.Empty(t, captured[1].Phone)
}

func TestCaptureLeadRepositoryFailure(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockLeadRepo.On("Upsert", ctx, mock.Anything).Return(errors.New("down"))

	uc := NewCaptureLeadUseCase(mockLeadRepo, nil)

	output, err := uc.Execute(ctx, CaptureLeadInput{Phone: "912345678"})

	assert.Nil(t, output)
	assert.True(t, IsTechnicalError(err))
}
