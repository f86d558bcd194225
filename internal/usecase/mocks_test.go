package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

// MockProspectStore
type MockProspectStore struct {
	mock.Mock
}

func (m *MockProspectStore) Subscribe(ctx context.Context, onChange entity.SnapshotHandler) (entity.Subscription, error) {
	args := m.Called(ctx, onChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Subscription), args.Error(1)
}

func (m *MockProspectStore) WriteStage(ctx context.Context, id string, stage entity.Stage) error {
	args := m.Called(ctx, id, stage)
	return args.Error(0)
}

func (m *MockProspectStore) Create(ctx context.Context, p *entity.Prospect) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProspectStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishStageChanged(ctx context.Context, event entity.StageChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockRelay
type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) SendText(ctx context.Context, msg entity.OutboundMessage) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

// MockUserFinder
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type stubSubscription struct {
	cancelled int
}

func (s *stubSubscription) Cancel() {
	s.cancelled++
}

func prospect(id string, stage entity.Stage) entity.Prospect {
	return entity.Prospect{
		ID:            id,
		BusinessName:  "Negocio " + id,
		ContactPerson: "Contacto " + id,
		AgentID:       "agent-1",
		Phone:         "+52 (55) 1234-5678",
		Stage:         stage,
	}
}

func ids(prospects []entity.Prospect) []string {
	out := make([]string, len(prospects))
	for i, p := range prospects {
		out[i] = p.ID
	}
	return out
}
