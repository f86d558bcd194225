package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const listenerPingInterval = 90 * time.Second

// ProspectRepository é o store em Postgres. O live query usa LISTEN/NOTIFY
// numa conexão dedicada (pq.Listener), alimentada pelo trigger de prospects.
type ProspectRepository struct {
	DB         *sql.DB
	ConnString string
}

func NewProspectRepository(db *sql.DB, connString string) *ProspectRepository {
	return &ProspectRepository{DB: db, ConnString: connString}
}

func (r *ProspectRepository) Subscribe(ctx context.Context, onChange entity.SnapshotHandler) (entity.Subscription, error) {
	listener := pq.NewListener(r.ConnString, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("⚠️ prospects listener: %v", err)
		}
	})
	if err := listener.Listen(ChangeChannel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", ChangeChannel, err)
	}

	q := newLiveQuery(ctx, r.List, onChange)
	q.cleanup = func() { listener.Close() }

	go func() {
		ticker := time.NewTicker(listenerPingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-q.ctx.Done():
				return
			case <-listener.Notify:
				// nil = conexão refeita; notificações podem ter se perdido, recarrega igual
				q.notify()
			case <-ticker.C:
				go listener.Ping()
			}
		}
	}()

	if err := q.start(); err != nil {
		return nil, fmt.Errorf("failed to load initial snapshot: %w", err)
	}
	return q, nil
}

func (r *ProspectRepository) WriteStage(ctx context.Context, id string, stage entity.Stage) error {
	query := `UPDATE prospects SET state = $1, updated_at = NOW() WHERE id = $2`

	res, err := r.DB.ExecContext(ctx, query, string(stage), id)
	if err != nil {
		return err
	}
	return expectOneRow(res, entity.ErrProspectNotFound)
}

func (r *ProspectRepository) Create(ctx context.Context, p *entity.Prospect) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
		INSERT INTO prospects (` + prospectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.BusinessName,
		p.ContactPerson,
		p.AgentID,
		nullString(p.Phone),
		nullString(p.Email),
		string(p.Stage),
		nullString(p.LogoURL),
	)
	if err != nil {
		log.Printf("Erro crítico no banco: %v", err)
		return err
	}
	return nil
}

func (r *ProspectRepository) FindByID(ctx context.Context, id string) (*entity.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects WHERE id = $1`

	p, err := scanProspect(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrProspectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProspectRepository) List(ctx context.Context) ([]entity.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanProspects(rows)
}

func (r *ProspectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM prospects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, entity.ErrProspectNotFound)
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
