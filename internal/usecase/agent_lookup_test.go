package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestAgentLookupResolvesName(t *testing.T) {
	users := new(MockUserFinder)
	users.On("FindByID", mock.Anything, "u1").
		Return(&entity.User{ID: "u1", Nombre: "Lucía", Apellido: "Gómez", Role: entity.RoleAgent}, nil)

	lookup := NewAgentLookup(users)

	assert.Equal(t, "Lucía Gómez", lookup.Name(context.Background(), "u1"))
}

func TestAgentLookupFallsBackToPlaceholder(t *testing.T) {
	users := new(MockUserFinder)
	users.On("FindByID", mock.Anything, "deleted").Return(nil, entity.ErrUserNotFound)
	users.On("FindByID", mock.Anything, "blank").Return(&entity.User{ID: "blank"}, nil)

	lookup := NewAgentLookup(users)
	ctx := context.Background()

	assert.Equal(t, AgentPlaceholder, lookup.Name(ctx, "deleted"))
	assert.Equal(t, AgentPlaceholder, lookup.Name(ctx, "blank"))
	assert.Equal(t, AgentPlaceholder, lookup.Name(ctx, ""))
	users.AssertNotCalled(t, "FindByID", mock.Anything, "")
}

func TestAgentLookupNamesDeduplicates(t *testing.T) {
	users := new(MockUserFinder)
	users.On("FindByID", mock.Anything, "u1").Return(&entity.User{Nombre: "Ana"}, nil).Once()
	users.On("FindByID", mock.Anything, "u2").Return(nil, entity.ErrUserNotFound).Once()

	names := NewAgentLookup(users).Names(context.Background(), []string{"u1", "u2", "u1"})

	assert.Equal(t, map[string]string{"u1": "Ana", "u2": "N/A"}, names)
	users.AssertExpectations(t)
}
