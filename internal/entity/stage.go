package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Stage é o identificador de uma etapa do funil (valor do campo "state").
type Stage string

const (
	StageIncoming      Stage = "incoming"
	StageQualified     Stage = "qualified"
	StageAwaitingVisit Stage = "awaiting-visit"
	StageLost          Stage = "lost"
	StageWon           Stage = "won"
)

var ErrEmptyStageRegistry = errors.New("stage registry needs at least one stage")

// StageDefinition is one configured stage. Label is only used for display.
type StageDefinition struct {
	ID    Stage  `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// StageRegistry holds the fixed, ordered set of pipeline stages.
// The first stage is the initial one for new prospects.
type StageRegistry struct {
	order []StageDefinition
	index map[Stage]int
}

func NewStageRegistry(defs ...StageDefinition) (*StageRegistry, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyStageRegistry
	}

	r := &StageRegistry{
		order: make([]StageDefinition, 0, len(defs)),
		index: make(map[Stage]int, len(defs)),
	}

	for _, def := range defs {
		id := Stage(strings.TrimSpace(string(def.ID)))
		if id == "" {
			return nil, errors.New("stage id is required")
		}
		if _, dup := r.index[id]; dup {
			return nil, fmt.Errorf("duplicate stage %q", id)
		}
		if def.Label == "" {
			def.Label = string(id)
		}
		def.ID = id
		r.index[id] = len(r.order)
		r.order = append(r.order, def)
	}

	return r, nil
}

// DefaultStageRegistry returns incoming → qualified → awaiting-visit → lost | won.
func DefaultStageRegistry() *StageRegistry {
	r, _ := NewStageRegistry(
		StageDefinition{ID: StageIncoming, Label: "Incoming"},
		StageDefinition{ID: StageQualified, Label: "Qualified"},
		StageDefinition{ID: StageAwaitingVisit, Label: "Awaiting visit"},
		StageDefinition{ID: StageLost, Label: "Lost"},
		StageDefinition{ID: StageWon, Label: "Won"},
	)
	return r
}

func (r *StageRegistry) IsValid(s Stage) bool {
	_, ok := r.index[s]
	return ok
}

// Stages returns every recognized stage, initial stage first.
func (r *StageRegistry) Stages() []Stage {
	out := make([]Stage, len(r.order))
	for i, def := range r.order {
		out[i] = def.ID
	}
	return out
}

func (r *StageRegistry) Definitions() []StageDefinition {
	out := make([]StageDefinition, len(r.order))
	copy(out, r.order)
	return out
}

func (r *StageRegistry) Initial() Stage {
	return r.order[0].ID
}

func (r *StageRegistry) Label(s Stage) string {
	if i, ok := r.index[s]; ok {
		return r.order[i].Label
	}
	return string(s)
}

func (r *StageRegistry) Position(s Stage) (int, bool) {
	i, ok := r.index[s]
	return i, ok
}
