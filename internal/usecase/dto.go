package usecase

import "github.com/xavierca1/ligue-crm/internal/entity"

type MoveInput struct {
	ProspectID  string       `json:"prospectId"`
	SourceStage entity.Stage `json:"sourceStage"`
	SourceIndex int          `json:"sourceIndex"`
	DestStage   entity.Stage `json:"destStage"`
	DestIndex   int          `json:"destIndex"`
}

type SendMessageInput struct {
	ProspectID string `json:"prospectId"`
	Message    string `json:"message"`
}

type SendMessageOutput struct {
	DeliveryID string `json:"deliveryId"`
	To         string `json:"to"`
}

type CreateProspectInput struct {
	BusinessName  string       `json:"businessName"`
	ContactPerson string       `json:"contactPerson"`
	AgentID       string       `json:"agent"`
	Phone         string       `json:"phone"`
	Email         string       `json:"email"`
	Stage         entity.Stage `json:"state"`
	LogoURL       string       `json:"logoURL"`
}
