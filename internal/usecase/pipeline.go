package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// BoardWatcher is called after every board change. All watchers of one change
// share the same read-only copy, detached from the pipeline's state.
// It runs on the caller's goroutine and must not block.
type BoardWatcher func(board *Board)

// Pipeline é a máquina de estados do funil: valida movimentos, aplica
// otimisticamente no board local e persiste só o campo de etapa.
//
// Every stage is reachable from every other stage; there is no funnel
// monotonicity.
type Pipeline struct {
	registry  *entity.StageRegistry
	store     entity.ProspectStore
	publisher StageEventPublisher
	now       func() time.Time

	mu       sync.Mutex
	board    *Board
	snapshot []entity.Prospect
	watchers map[int]BoardWatcher
	nextID   int
}

func NewPipeline(reg *entity.StageRegistry, store entity.ProspectStore, publisher StageEventPublisher) *Pipeline {
	return &Pipeline{
		registry:  reg,
		store:     store,
		publisher: publisher,
		now:       time.Now,
		board:     NewBoard(reg),
		watchers:  make(map[int]BoardWatcher),
	}
}

// Start opens the live query. The returned subscription is owned by the caller
// and must be cancelled on teardown.
func (p *Pipeline) Start(ctx context.Context) (entity.Subscription, error) {
	return p.store.Subscribe(ctx, p.ApplySnapshot)
}

// ApplySnapshot replaces the confirmed state with a full snapshot from the store.
func (p *Pipeline) ApplySnapshot(snapshot []entity.Prospect) {
	cp := make([]entity.Prospect, len(snapshot))
	copy(cp, snapshot)

	p.mu.Lock()
	p.snapshot = cp
	p.board = Project(p.registry, cp, p.board)
	board, watchers := p.board.Clone(), p.watcherList()
	p.mu.Unlock()

	notifyWatchers(watchers, board)
}

func (p *Pipeline) Registry() *entity.StageRegistry {
	return p.registry
}

func (p *Pipeline) Board() *Board {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board.Clone()
}

func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Aggregate(p.registry, p.snapshot)
}

func (p *Pipeline) Snapshot() []entity.Prospect {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]entity.Prospect, len(p.snapshot))
	copy(cp, p.snapshot)
	return cp
}

// Prospect looks the id up in the last confirmed snapshot.
func (p *Pipeline) Prospect(id string) (entity.Prospect, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pr := range p.snapshot {
		if pr.ID == id {
			return pr, true
		}
	}
	return entity.Prospect{}, false
}

func (p *Pipeline) Watch(fn BoardWatcher) (cancel func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.watchers[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.watchers, id)
			p.mu.Unlock()
		})
	}
}

// ApplyMove moves a prospect from (SourceStage, SourceIndex) to
// (DestStage, DestIndex). The local board changes before the write is
// acknowledged; a failed write restores the last confirmed snapshot.
func (p *Pipeline) ApplyMove(ctx context.Context, input MoveInput) (*Board, error) {
	if errs := ValidateStages(p.registry, input); len(errs) > 0 {
		return nil, joinValidation(errs)
	}

	if input.SourceStage == input.DestStage && input.SourceIndex == input.DestIndex {
		p.mu.Lock()
		defer p.mu.Unlock()
		if err := p.checkPosition(input); err != nil {
			return nil, err
		}
		return p.board.Clone(), nil
	}

	var (
		previous *Board
		moved    entity.Prospect
		writeErr error
	)

	txn := NewTransaction()

	txn.AddOperation("apply_optimistic", func(ctx context.Context) error {
		p.mu.Lock()
		if err := p.checkPosition(input); err != nil {
			p.mu.Unlock()
			return err
		}
		previous = p.board.Clone()
		moved = p.board.move(input.SourceStage, input.SourceIndex, input.DestStage, input.DestIndex)
		board, watchers := p.board.Clone(), p.watcherList()
		p.mu.Unlock()

		notifyWatchers(watchers, board)
		return nil
	})

	txn.AddCompensation("restore_confirmed", func(ctx context.Context) error {
		p.mu.Lock()
		p.board = Project(p.registry, p.snapshot, previous)
		board, watchers := p.board.Clone(), p.watcherList()
		p.mu.Unlock()

		notifyWatchers(watchers, board)
		return nil
	})

	txn.AddOperation("write_stage", func(ctx context.Context) error {
		writeErr = p.store.WriteStage(ctx, moved.ID, input.DestStage)
		return writeErr
	})

	if err := txn.Execute(ctx); err != nil {
		var verr ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		log.Printf("❌ Stage write failed for %s, board rolled back: %v", input.ProspectID, writeErr)
		return p.Board(), &StoreWriteError{ProspectID: input.ProspectID, Stage: input.DestStage, Err: writeErr}
	}

	if input.SourceStage != input.DestStage {
		p.publishStageChanged(ctx, moved, input.SourceStage)
	}

	return p.Board(), nil
}

// MoveToStage is the stage-menu action: the prospect goes to the end of dest.
func (p *Pipeline) MoveToStage(ctx context.Context, prospectID string, dest entity.Stage) (*Board, error) {
	if !p.registry.IsValid(dest) {
		return nil, ValidationError{"stage", "is not a recognized stage"}
	}

	p.mu.Lock()
	src, idx, ok := p.board.Locate(prospectID)
	destIdx := p.board.Len(dest)
	p.mu.Unlock()

	if !ok {
		return nil, ValidationError{"prospect_id", "is not on the board"}
	}
	if src == dest {
		destIdx = idx
	}

	return p.ApplyMove(ctx, MoveInput{
		ProspectID:  prospectID,
		SourceStage: src,
		SourceIndex: idx,
		DestStage:   dest,
		DestIndex:   destIdx,
	})
}

// checkPosition must be called with p.mu held.
func (p *Pipeline) checkPosition(input MoveInput) error {
	srcLen := p.board.Len(input.SourceStage)
	if errs := validateIndexes(input, srcLen, p.board.Len(input.DestStage)); len(errs) > 0 {
		return joinValidation(errs)
	}
	if p.board.columns[input.SourceStage][input.SourceIndex].ID != input.ProspectID {
		return ValidationError{"prospect_id", "is not at source_index"}
	}
	return nil
}

func (p *Pipeline) publishStageChanged(ctx context.Context, moved entity.Prospect, from entity.Stage) {
	if p.publisher == nil {
		return
	}

	event := entity.StageChangedEvent{
		ProspectID:   moved.ID,
		BusinessName: moved.BusinessName,
		AgentID:      moved.AgentID,
		From:         from,
		To:           moved.Stage,
		MovedAt:      p.now(),
	}

	if err := p.publisher.PublishStageChanged(ctx, event); err != nil {
		log.Printf("⚠️ CRITICAL: stage saved but event not published for %s: %v", moved.ID, err)
	}
}

func (p *Pipeline) watcherList() []BoardWatcher {
	out := make([]BoardWatcher, 0, len(p.watchers))
	for _, w := range p.watchers {
		out = append(out, w)
	}
	return out
}

func notifyWatchers(watchers []BoardWatcher, board *Board) {
	for _, w := range watchers {
		w(board)
	}
}
