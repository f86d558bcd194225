package usecase

import "github.com/xavierca1/ligue-crm/internal/entity"

// Board maps each recognized stage to its ordered prospects.
// Ordering is in-memory only; the store never sees it.
type Board struct {
	registry *entity.StageRegistry
	columns  map[entity.Stage][]entity.Prospect
}

type Column struct {
	Stage     entity.Stage      `json:"stage"`
	Label     string            `json:"label"`
	Prospects []entity.Prospect `json:"prospects"`
}

func NewBoard(reg *entity.StageRegistry) *Board {
	b := &Board{
		registry: reg,
		columns:  make(map[entity.Stage][]entity.Prospect, len(reg.Stages())),
	}
	for _, s := range reg.Stages() {
		b.columns[s] = []entity.Prospect{}
	}
	return b
}

func (b *Board) Clone() *Board {
	out := &Board{
		registry: b.registry,
		columns:  make(map[entity.Stage][]entity.Prospect, len(b.columns)),
	}
	for s, col := range b.columns {
		cp := make([]entity.Prospect, len(col))
		copy(cp, col)
		out.columns[s] = cp
	}
	return out
}

// Column returns a copy of the stage's list; unknown stages yield nil.
func (b *Board) Column(s entity.Stage) []entity.Prospect {
	col, ok := b.columns[s]
	if !ok {
		return nil
	}
	cp := make([]entity.Prospect, len(col))
	copy(cp, col)
	return cp
}

func (b *Board) Len(s entity.Stage) int {
	return len(b.columns[s])
}

// Locate finds a prospect's current stage and index.
func (b *Board) Locate(id string) (entity.Stage, int, bool) {
	for _, s := range b.registry.Stages() {
		for i, p := range b.columns[s] {
			if p.ID == id {
				return s, i, true
			}
		}
	}
	return "", 0, false
}

// Columns lists stages in registry order.
func (b *Board) Columns() []Column {
	out := make([]Column, 0, len(b.columns))
	for _, s := range b.registry.Stages() {
		out = append(out, Column{
			Stage:     s,
			Label:     b.registry.Label(s),
			Prospects: b.Column(s),
		})
	}
	return out
}

func (b *Board) Total() int {
	n := 0
	for _, col := range b.columns {
		n += len(col)
	}
	return n
}

// move splices without validating; callers check bounds first.
func (b *Board) move(srcStage entity.Stage, srcIdx int, destStage entity.Stage, destIdx int) entity.Prospect {
	src := b.columns[srcStage]
	moved := src[srcIdx]

	rest := make([]entity.Prospect, 0, len(src)-1)
	rest = append(rest, src[:srcIdx]...)
	rest = append(rest, src[srcIdx+1:]...)
	b.columns[srcStage] = rest

	moved.Stage = destStage

	dest := b.columns[destStage]
	out := make([]entity.Prospect, 0, len(dest)+1)
	out = append(out, dest[:destIdx]...)
	out = append(out, moved)
	out = append(out, dest[destIdx:]...)
	b.columns[destStage] = out

	return moved
}
