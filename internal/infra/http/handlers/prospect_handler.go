package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ProspectHandler struct {
	CreateUC *usecase.CreateProspectUseCase
	Pipeline *usecase.Pipeline
	Agents   *usecase.AgentLookup
}

func NewProspectHandler(uc *usecase.CreateProspectUseCase, pipeline *usecase.Pipeline, agents *usecase.AgentLookup) *ProspectHandler {
	return &ProspectHandler{CreateUC: uc, Pipeline: pipeline, Agents: agents}
}

// HandleCreate (POST /prospects). O card aparece no board pelo live query.
func (h *ProspectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateProspectInput
	if !decodeJSON(w, r, &input) {
		return
	}

	prospect, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, prospect)
}

// HandleDelete (DELETE /prospects/{id})
func (h *ProspectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CreateUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUsecaseError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMoveStage (PUT /prospects/{id}/stage) é o menu de etapa do card.
func (h *ProspectHandler) HandleMoveStage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req MoveStageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	from, _, _ := h.Pipeline.Board().Locate(id)

	board, err := h.Pipeline.MoveToStage(r.Context(), id, req.Stage)
	if err != nil {
		if usecase.IsStoreWriteError(err) {
			middleware.RecordMoveRollback()
		}
		writeUsecaseError(w, err, newBoardResponse(r.Context(), board, h.Agents))
		return
	}

	middleware.RecordStageMove(string(from), string(req.Stage))
	writeJSON(w, http.StatusOK, newBoardResponse(r.Context(), board, h.Agents))
}
