package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AgentHandler struct {
	Users entity.UserRepositoryInterface
}

func NewAgentHandler(users entity.UserRepositoryInterface) *AgentHandler {
	return &AgentHandler{Users: users}
}

// HandleList (GET /agents) lista quem pode ser responsável por um prospect.
func (h *AgentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	agents, err := h.Users.ListByRole(r.Context(), entity.RoleAgent)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Erro ao listar agentes")
		return
	}
	writeJSON(w, http.StatusOK, agents)
}
