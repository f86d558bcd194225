package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newProspectHandler(f *fixture) *ProspectHandler {
	uc := usecase.NewCreateProspectUseCase(f.store, f.pipeline.Registry())
	return NewProspectHandler(uc, f.pipeline, f.agents)
}

func TestHandleCreateProspect(t *testing.T) {
	f := newFixture(t)
	h := newProspectHandler(f)

	w := httptest.NewRecorder()
	h.HandleCreate(w, jsonRequest(t, "POST", "/prospects", usecase.CreateProspectInput{
		BusinessName: "Ferretería Ruiz", ContactPerson: "Ruiz", AgentID: "u1",
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	p := decode[entity.Prospect](t, w)
	assert.Equal(t, "new-1", p.ID)
	assert.Equal(t, entity.StageIncoming, p.Stage)
	assert.Len(t, f.store.prospects, 4)
}

func TestHandleCreateProspectValidation(t *testing.T) {
	f := newFixture(t)
	h := newProspectHandler(f)

	w := httptest.NewRecorder()
	h.HandleCreate(w, jsonRequest(t, "POST", "/prospects", usecase.CreateProspectInput{ContactPerson: "X", AgentID: "u1"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	assert.Equal(t, "businessName", resp.Field)
}

func TestHandleDeleteProspect(t *testing.T) {
	f := newFixture(t)
	h := newProspectHandler(f)

	w := httptest.NewRecorder()
	h.HandleDelete(w, withURLParam(httptest.NewRequest("DELETE", "/prospects/p3", nil), "id", "p3"))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.HandleDelete(w, withURLParam(httptest.NewRequest("DELETE", "/prospects/p3", nil), "id", "p3"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[ErrorResponse](t, w).Error)
}

func TestHandleMoveStage(t *testing.T) {
	f := newFixture(t)
	h := newProspectHandler(f)

	req := withURLParam(jsonRequest(t, "PUT", "/prospects/p1/stage", MoveStageRequest{Stage: entity.StageWon}), "id", "p1")
	w := httptest.NewRecorder()
	h.HandleMoveStage(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[BoardResponse](t, w)
	// menu de etapa: vai para o fim da coluna
	assert.Equal(t, []string{"p3", "p1"}, columnIDs(&resp, entity.StageWon))
	assert.Equal(t, []string{"p1->won"}, f.store.writes)
}

func TestHandleMoveStageUnknownStage(t *testing.T) {
	f := newFixture(t)
	h := newProspectHandler(f)

	req := withURLParam(jsonRequest(t, "PUT", "/prospects/p1/stage", MoveStageRequest{Stage: "archived"}), "id", "p1")
	w := httptest.NewRecorder()
	h.HandleMoveStage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.store.writes)
}
