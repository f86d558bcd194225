package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const AgentPlaceholder = "N/A"

// AgentLookup resolve nomes de agentes para exibição. Referências quebradas
// viram "N/A" em vez de derrubar o render.
type AgentLookup struct {
	Users UserFinder
}

func NewAgentLookup(users UserFinder) *AgentLookup {
	return &AgentLookup{Users: users}
}

// Name never fails; LookupErrors are logged and replaced by the placeholder.
func (l *AgentLookup) Name(ctx context.Context, agentID string) string {
	name, err := l.resolve(ctx, agentID)
	if err != nil {
		log.Printf("⚠️ %v", err)
		return AgentPlaceholder
	}
	return name
}

// Names resolves each distinct id once.
func (l *AgentLookup) Names(ctx context.Context, agentIDs []string) map[string]string {
	out := make(map[string]string, len(agentIDs))
	for _, id := range agentIDs {
		if _, done := out[id]; done {
			continue
		}
		out[id] = l.Name(ctx, id)
	}
	return out
}

func (l *AgentLookup) resolve(ctx context.Context, agentID string) (string, error) {
	if agentID == "" {
		return "", &LookupError{Kind: "agent", ID: agentID, Err: errors.New("empty reference")}
	}

	user, err := l.Users.FindByID(ctx, agentID)
	if err != nil {
		return "", &LookupError{Kind: "agent", ID: agentID, Err: err}
	}
	if user == nil || user.DisplayName() == "" {
		return "", &LookupError{Kind: "agent", ID: agentID, Err: entity.ErrUserNotFound}
	}

	return user.DisplayName(), nil
}
