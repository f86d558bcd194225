package database

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// SQLiteProspectRepository serve um único processo: cada escrita confirmada
// dispara todos os live queries abertos.
type SQLiteProspectRepository struct {
	DB *sql.DB

	mu      sync.Mutex
	queries map[*liveQuery]struct{}
}

func NewSQLiteProspectRepository(db *sql.DB) *SQLiteProspectRepository {
	return &SQLiteProspectRepository{
		DB:      db,
		queries: make(map[*liveQuery]struct{}),
	}
}

func (r *SQLiteProspectRepository) Subscribe(ctx context.Context, onChange entity.SnapshotHandler) (entity.Subscription, error) {
	q := newLiveQuery(ctx, r.List, onChange)
	q.cleanup = func() {
		r.mu.Lock()
		delete(r.queries, q)
		r.mu.Unlock()
	}

	r.mu.Lock()
	r.queries[q] = struct{}{}
	r.mu.Unlock()

	if err := q.start(); err != nil {
		return nil, err
	}
	return q, nil
}

func (r *SQLiteProspectRepository) changed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for q := range r.queries {
		q.notify()
	}
}

func (r *SQLiteProspectRepository) WriteStage(ctx context.Context, id string, stage entity.Stage) error {
	query := `UPDATE prospects SET state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	res, err := r.DB.ExecContext(ctx, query, string(stage), id)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, entity.ErrProspectNotFound); err != nil {
		return err
	}

	r.changed()
	return nil
}

func (r *SQLiteProspectRepository) Create(ctx context.Context, p *entity.Prospect) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `INSERT INTO prospects (` + prospectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

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
		return err
	}

	r.changed()
	return nil
}

func (r *SQLiteProspectRepository) FindByID(ctx context.Context, id string) (*entity.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects WHERE id = ?`

	p, err := scanProspect(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrProspectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteProspectRepository) List(ctx context.Context) ([]entity.Prospect, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+prospectColumns+` FROM prospects ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	return scanProspects(rows)
}

func (r *SQLiteProspectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM prospects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, entity.ErrProspectNotFound); err != nil {
		return err
	}

	r.changed()
	return nil
}
