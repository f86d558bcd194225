package entity

import (
	"context"
	"errors"
)

var ErrProspectNotFound = errors.New("prospect not found")

// Prospect é um lead de vendas acompanhado pelo funil.
type Prospect struct {
	ID            string `json:"id"`
	BusinessName  string `json:"businessName"`
	ContactPerson string `json:"contactPerson"`
	AgentID       string `json:"agent"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Stage         Stage  `json:"state"`
	LogoURL       string `json:"logoURL,omitempty"`
}

// Subscription is an open live query. Cancel must be called to release it.
type Subscription interface {
	Cancel()
}

// SnapshotHandler receives the full prospect set, never a diff.
type SnapshotHandler func(snapshot []Prospect)

type ProspectStore interface {
	Subscribe(ctx context.Context, onChange SnapshotHandler) (Subscription, error)
	WriteStage(ctx context.Context, id string, stage Stage) error
}

type ProspectRepositoryInterface interface {
	ProspectStore
	Create(ctx context.Context, p *Prospect) error
	FindByID(ctx context.Context, id string) (*Prospect, error)
	List(ctx context.Context) ([]Prospect, error)
	Delete(ctx context.Context, id string) error
}
