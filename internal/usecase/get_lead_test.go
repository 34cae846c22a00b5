package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

// Cache hit: devolve o espelho sem tocar no banco.
func TestGetLeadCacheHit(t *testing.T) {
	ctx := authCtx()
	lead := anaSilvaLead()

	mockLeadRepo := new(MockLeadRepository)
	mockCache := new(MockLeadCache)

	mockCache.On("Get", ctx, "lead-1").Return(lead, nil)

	uc := NewGetLeadUseCase(mockLeadRepo, mockCache)

	got, err := uc.Execute(ctx, "lead-1")
	assert.NoError(t, err)
	assert.Equal(t, lead, got)

	mockLeadRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	mockCache.AssertExpectations(t)
}

// Cache miss: vai ao banco e repovoa a entrada.
func TestGetLeadCacheMissRepopulates(t *testing.T) {
	ctx := authCtx()
	lead := anaSilvaLead()

	mockLeadRepo := new(MockLeadRepository)
	mockCache := new(MockLeadCache)

	mockCache.On("Get", ctx, "lead-1").Return(nil, nil)
	mockLeadRepo.On("FindByID", ctx, "lead-1").Return(lead, nil)
	mockCache.On("Patch", ctx, lead).Return(nil)

	uc := NewGetLeadUseCase(mockLeadRepo, mockCache)

	got, err := uc.Execute(ctx, "lead-1")
	assert.NoError(t, err)
	assert.Equal(t, lead, got)

	mockLeadRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

// Redis fora do ar não bloqueia a leitura: degrada para o banco.
func TestGetLeadCacheErrorFallsBackToDB(t *testing.T) {
	ctx := authCtx()
	lead := anaSilvaLead()

	mockLeadRepo := new(MockLeadRepository)
	mockCache := new(MockLeadCache)

	mockCache.On("Get", ctx, "lead-1").Return(nil, errors.New("connection refused"))
	mockLeadRepo.On("FindByID", ctx, "lead-1").Return(lead, nil)
	mockCache.On("Patch", ctx, lead).Return(nil)

	uc := NewGetLeadUseCase(mockLeadRepo, mockCache)

	got, err := uc.Execute(ctx, "lead-1")
	assert.NoError(t, err)
	assert.Equal(t, lead, got)
}

func TestGetLeadNotFound(t *testing.T) {
	ctx := authCtx()

	mockLeadRepo := new(MockLeadRepository)
	mockCache := new(MockLeadCache)

	mockCache.On("Get", ctx, "lead-x").Return(nil, nil)
	mockLeadRepo.On("FindByID", ctx, "lead-x").Return(nil, entity.ErrLeadNotFound)

	uc := NewGetLeadUseCase(mockLeadRepo, mockCache)

	got, err := uc.Execute(ctx, "lead-x")
	assert.Nil(t, got)

	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeLeadNotFound, de.Code)
}

func TestGetLeadRequiresActor(t *testing.T) {
	uc := NewGetLeadUseCase(new(MockLeadRepository), nil)

	got, err := uc.Execute(context.Background(), "lead-1")
	assert.Nil(t, got)

	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeNotAuthenticated, de.Code)
}
