package database

import (
	"context"
	"log"
	"sync"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type snapshotLoader func(ctx context.Context) ([]entity.Prospect, error)

// liveQuery entrega o conjunto completo de prospects a cada mudança.
// Notificações que chegam durante um reload são coalescidas em um único reload.
type liveQuery struct {
	load     snapshotLoader
	onChange entity.SnapshotHandler
	cleanup  func()

	pending chan struct{}
	ctx     context.Context
	stop    context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

func newLiveQuery(ctx context.Context, load snapshotLoader, onChange entity.SnapshotHandler) *liveQuery {
	qctx, stop := context.WithCancel(ctx)
	return &liveQuery{
		load:     load,
		onChange: onChange,
		pending:  make(chan struct{}, 1),
		ctx:      qctx,
		stop:     stop,
		done:     make(chan struct{}),
	}
}

// start delivers the initial snapshot synchronously, then reloads on every notify.
// The change source must already be registered so no write falls in the gap.
func (q *liveQuery) start() error {
	snapshot, err := q.load(q.ctx)
	if err != nil {
		close(q.done)
		q.Cancel()
		return err
	}
	q.onChange(snapshot)

	go q.run()
	return nil
}

func (q *liveQuery) run() {
	defer close(q.done)

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-q.pending:
			snapshot, err := q.load(q.ctx)
			if err != nil {
				if q.ctx.Err() != nil {
					return
				}
				log.Printf("⚠️ live query reload failed: %v", err)
				continue
			}
			if q.ctx.Err() != nil {
				return
			}
			q.onChange(snapshot)
		}
	}
}

func (q *liveQuery) notify() {
	select {
	case q.pending <- struct{}{}:
	default:
	}
}

// Cancel é idempotente e espera a goroutine de entrega terminar.
// Não chamar de dentro do onChange.
func (q *liveQuery) Cancel() {
	q.once.Do(func() {
		q.stop()
		<-q.done
		if q.cleanup != nil {
			q.cleanup()
		}
	})
}
