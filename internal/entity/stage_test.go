package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStageRegistryOrder(t *testing.T) {
	r := DefaultStageRegistry()

	assert.Equal(t, []Stage{StageIncoming, StageQualified, StageAwaitingVisit, StageLost, StageWon}, r.Stages())
	assert.Equal(t, StageIncoming, r.Initial())
	assert.Equal(t, "Awaiting visit", r.Label(StageAwaitingVisit))
}

func TestStageRegistryIsValid(t *testing.T) {
	r := DefaultStageRegistry()

	assert.True(t, r.IsValid(StageWon))
	assert.False(t, r.IsValid("archived"))
	assert.False(t, r.IsValid(""))
	assert.Equal(t, "archived", r.Label("archived"))
}

func TestNewStageRegistryFromConfig(t *testing.T) {
	r, err := NewStageRegistry(
		StageDefinition{ID: "lead"},
		StageDefinition{ID: " demo ", Label: "Demo agendada"},
	)
	require.NoError(t, err)

	assert.Equal(t, []Stage{"lead", "demo"}, r.Stages())
	assert.Equal(t, "lead", r.Label("lead"))

	pos, ok := r.Position("demo")
	assert.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestNewStageRegistryRejectsBadInput(t *testing.T) {
	_, err := NewStageRegistry()
	assert.ErrorIs(t, err, ErrEmptyStageRegistry)

	_, err = NewStageRegistry(StageDefinition{ID: "a"}, StageDefinition{ID: "a"})
	assert.Error(t, err)

	_, err = NewStageRegistry(StageDefinition{ID: "  "})
	assert.Error(t, err)
}

func TestStagesReturnsCopy(t *testing.T) {
	r := DefaultStageRegistry()
	stages := r.Stages()
	stages[0] = "mutated"

	assert.Equal(t, StageIncoming, r.Initial())
}

func TestUserDisplayName(t *testing.T) {
	u := User{Nombre: "Ana", Apellido: "Pérez"}
	assert.Equal(t, "Ana Pérez", u.DisplayName())

	u = User{Nombre: "Ana"}
	assert.Equal(t, "Ana", u.DisplayName())
}
