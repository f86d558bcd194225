package handlers

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type CardResponse struct {
	entity.Prospect
	AgentName string `json:"agentName"`
}

type ColumnResponse struct {
	Stage     entity.Stage   `json:"id"`
	Label     string         `json:"label"`
	Count     int            `json:"count"`
	Prospects []CardResponse `json:"prospects"`
}

type BoardResponse struct {
	Total   int              `json:"total"`
	Columns []ColumnResponse `json:"columns"`
}

type MoveStageRequest struct {
	Stage entity.Stage `json:"state"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

// newBoardResponse resolve os nomes dos agentes; ids quebrados viram "N/A".
// Cada card renderizado com "N/A" conta uma vez no lookup miss.
func newBoardResponse(ctx context.Context, board *usecase.Board, agents *usecase.AgentLookup) *BoardResponse {
	if board == nil {
		return nil
	}

	columns := board.Columns()

	var ids []string
	for _, col := range columns {
		for _, p := range col.Prospects {
			ids = append(ids, p.AgentID)
		}
	}
	names := agents.Names(ctx, ids)

	resp := &BoardResponse{Total: board.Total(), Columns: make([]ColumnResponse, 0, len(columns))}
	for _, col := range columns {
		cards := make([]CardResponse, 0, len(col.Prospects))
		for _, p := range col.Prospects {
			cards = append(cards, CardResponse{Prospect: p, AgentName: names[p.AgentID]})
		}
		resp.Columns = append(resp.Columns, ColumnResponse{
			Stage:     col.Stage,
			Label:     col.Label,
			Count:     len(cards),
			Prospects: cards,
		})
	}

	middleware.RecordLookupMisses(placeholderCards(resp))
	return resp
}

func placeholderCards(resp *BoardResponse) int {
	n := 0
	for _, col := range resp.Columns {
		for _, card := range col.Prospects {
			if card.AgentName == usecase.AgentPlaceholder {
				n++
			}
		}
	}
	return n
}
