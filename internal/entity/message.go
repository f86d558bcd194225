package entity

import "time"

// OutboundMessage is consumed once by the dispatcher and never stored.
type OutboundMessage struct {
	To   string // digits only, no channel prefix
	Body string
}

// StageChangedEvent is published after the store confirmed a stage write.
type StageChangedEvent struct {
	ProspectID   string    `json:"prospect_id"`
	BusinessName string    `json:"business_name"`
	AgentID      string    `json:"agent_id"`
	From         Stage     `json:"from"`
	To           Stage     `json:"to"`
	MovedAt      time.Time `json:"moved_at"`
}
