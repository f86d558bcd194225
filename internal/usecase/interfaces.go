package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type StageEventPublisher interface {
	PublishStageChanged(ctx context.Context, event entity.StageChangedEvent) error
}

// Relay forwards a text to a phone number and returns the relay's delivery id.
type Relay interface {
	SendText(ctx context.Context, msg entity.OutboundMessage) (string, error)
}

// ProspectFinder reads from the last confirmed snapshot, not from the store.
type ProspectFinder interface {
	Prospect(id string) (entity.Prospect, bool)
}

type ProspectCreator interface {
	Create(ctx context.Context, p *entity.Prospect) error
	Delete(ctx context.Context, id string) error
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}
