package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestCreateProspectDefaultsToInitialStage(t *testing.T) {
	repo := new(MockProspectStore)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Prospect) bool {
		return p.Stage == entity.StageIncoming && p.BusinessName == "Café Luna"
	})).Return(nil).Once()

	uc := NewCreateProspectUseCase(repo, entity.DefaultStageRegistry())

	p, err := uc.Execute(context.Background(), CreateProspectInput{
		BusinessName:  "  Café Luna ",
		ContactPerson: "Marta",
		AgentID:       "u1",
		Phone:         "5512345678",
		Email:         "marta@cafeluna.mx",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StageIncoming, p.Stage)
	repo.AssertExpectations(t)
}

func TestCreateProspectValidation(t *testing.T) {
	repo := new(MockProspectStore)
	uc := NewCreateProspectUseCase(repo, entity.DefaultStageRegistry())

	_, err := uc.Execute(context.Background(), CreateProspectInput{
		BusinessName: "X",
		Email:        "not-an-email",
		Stage:        "archived",
	})

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "contactPerson", verr.Field)
	assert.Contains(t, verr.Message, "email is invalid")
	assert.Contains(t, verr.Message, "state is not a recognized stage")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProspectStoreFailure(t *testing.T) {
	repo := new(MockProspectStore)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	uc := NewCreateProspectUseCase(repo, entity.DefaultStageRegistry())

	_, err := uc.Execute(context.Background(), CreateProspectInput{
		BusinessName: "X", ContactPerson: "Y", AgentID: "u1", Stage: entity.StageWon,
	})

	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestDeleteProspectRequiresID(t *testing.T) {
	repo := new(MockProspectStore)
	uc := NewCreateProspectUseCase(repo, entity.DefaultStageRegistry())

	assert.True(t, IsValidationError(uc.Delete(context.Background(), " ")))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
