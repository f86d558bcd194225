package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// fakeStore é um store em memória; writeErr força falha no WriteStage.
type fakeStore struct {
	mu        sync.Mutex
	prospects []entity.Prospect
	writes    []string
	writeErr  error
	onChange  entity.SnapshotHandler
}

type noopSubscription struct{}

func (noopSubscription) Cancel() {}

func (s *fakeStore) Subscribe(ctx context.Context, onChange entity.SnapshotHandler) (entity.Subscription, error) {
	s.mu.Lock()
	s.onChange = onChange
	snapshot := append([]entity.Prospect(nil), s.prospects...)
	s.mu.Unlock()

	onChange(snapshot)
	return noopSubscription{}, nil
}

func (s *fakeStore) WriteStage(ctx context.Context, id string, stage entity.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes = append(s.writes, id+"->"+string(stage))
	for i := range s.prospects {
		if s.prospects[i].ID == id {
			s.prospects[i].Stage = stage
		}
	}
	return nil
}

func (s *fakeStore) Create(ctx context.Context, p *entity.Prospect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = "new-1"
	}
	s.prospects = append(s.prospects, *p)
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.prospects {
		if s.prospects[i].ID == id {
			s.prospects = append(s.prospects[:i], s.prospects[i+1:]...)
			return nil
		}
	}
	return entity.ErrProspectNotFound
}

type fakeUsers map[string]*entity.User

// countingUsers conta os FindByID por id.
type countingUsers struct {
	fakeUsers
	mu    sync.Mutex
	calls map[string]int
}

func (u *countingUsers) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u.mu.Lock()
	if u.calls == nil {
		u.calls = make(map[string]int)
	}
	u.calls[id]++
	u.mu.Unlock()
	return u.fakeUsers.FindByID(ctx, id)
}

func (u *countingUsers) total() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, c := range u.calls {
		n += c
	}
	return n
}

func (u fakeUsers) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, entity.ErrUserNotFound
}

type fakeRelay struct {
	mu    sync.Mutex
	calls []entity.OutboundMessage
	err   error
}

func (r *fakeRelay) SendText(ctx context.Context, msg entity.OutboundMessage) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, msg)
	if r.err != nil {
		return "", r.err
	}
	return "SM1", nil
}

type fixture struct {
	store    *fakeStore
	pipeline *usecase.Pipeline
	agents   *usecase.AgentLookup
	relay    *fakeRelay
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := &fakeStore{prospects: []entity.Prospect{
		{ID: "p1", BusinessName: "Café Luna", ContactPerson: "Marta", AgentID: "u1", Phone: "+52 55 1111 2222", Stage: entity.StageIncoming},
		{ID: "p2", BusinessName: "Tacos Beto", ContactPerson: "Beto", AgentID: "u1", Phone: "+52 55 3333 4444", Stage: entity.StageIncoming},
		{ID: "p3", BusinessName: "Panadería Sol", ContactPerson: "Sol", AgentID: "gone", Stage: entity.StageWon},
	}}
	users := fakeUsers{"u1": {ID: "u1", Nombre: "Lucía", Apellido: "Gómez", Role: entity.RoleAgent}}

	pipeline := usecase.NewPipeline(entity.DefaultStageRegistry(), store, nil)
	_, err := pipeline.Start(context.Background())
	require.NoError(t, err)

	return &fixture{
		store:    store,
		pipeline: pipeline,
		agents:   usecase.NewAgentLookup(users),
		relay:    &fakeRelay{},
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParam simula o roteamento do chi
func withURLParam(req *http.Request, key, value string) *http.Request {
	chiCtx := chi.NewRouteContext()
	chiCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func columnIDs(resp *BoardResponse, stage entity.Stage) []string {
	for _, col := range resp.Columns {
		if col.Stage == stage {
			ids := make([]string, len(col.Prospects))
			for i, p := range col.Prospects {
				ids[i] = p.ID
			}
			return ids
		}
	}
	return nil
}

func outbound(to, body string) entity.OutboundMessage {
	return entity.OutboundMessage{To: to, Body: body}
}
