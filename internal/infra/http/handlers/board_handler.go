package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const eventsHeartbeat = 25 * time.Second

type BoardHandler struct {
	Pipeline *usecase.Pipeline
	Agents   *usecase.AgentLookup
	events   *eventRenderer
}

func NewBoardHandler(pipeline *usecase.Pipeline, agents *usecase.AgentLookup) *BoardHandler {
	return &BoardHandler{Pipeline: pipeline, Agents: agents, events: &eventRenderer{agents: agents}}
}

// eventRenderer serializa cada board uma vez para todos os streams. O pipeline
// entrega o mesmo *usecase.Board a todos os watchers de uma mudança.
type eventRenderer struct {
	agents *usecase.AgentLookup

	mu   sync.Mutex
	last *usecase.Board
	data []byte
}

func (e *eventRenderer) render(ctx context.Context, b *usecase.Board) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b == e.last && e.data != nil {
		return e.data, nil
	}

	// um stream que cai no meio não pode envenenar o cache dos outros
	data, err := json.Marshal(newBoardResponse(context.WithoutCancel(ctx), b, e.agents))
	if err != nil {
		return nil, err
	}
	e.last, e.data = b, data
	return data, nil
}

// HandleStages (GET /stages)
func (h *BoardHandler) HandleStages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Pipeline.Registry().Definitions())
}

// HandleBoard (GET /board)
func (h *BoardHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newBoardResponse(r.Context(), h.Pipeline.Board(), h.Agents))
}

// HandleStats (GET /board/stats)
func (h *BoardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Pipeline.Stats())
}

// HandleMove (POST /board/moves) é o drag-and-drop.
func (h *BoardHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	var input usecase.MoveInput
	if !decodeJSON(w, r, &input) {
		return
	}

	board, err := h.Pipeline.ApplyMove(r.Context(), input)
	if err != nil {
		if usecase.IsStoreWriteError(err) {
			middleware.RecordMoveRollback()
		}
		writeUsecaseError(w, err, newBoardResponse(r.Context(), board, h.Agents))
		return
	}

	middleware.RecordStageMove(string(input.SourceStage), string(input.DestStage))
	writeJSON(w, http.StatusOK, newBoardResponse(r.Context(), board, h.Agents))
}

// HandleEvents (GET /board/events) mantém o board do cliente vivo via SSE.
// Slow clients only ever see the latest board.
func (h *BoardHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErrorResponse(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "streaming não suportado")
		return
	}

	updates := make(chan *usecase.Board, 1)
	stop := h.Pipeline.Watch(func(b *usecase.Board) {
		for {
			select {
			case updates <- b:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	defer stop()

	middleware.BoardSubscriberOpened()
	defer middleware.BoardSubscriberClosed()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	if err := h.writeBoardEvent(w, r, h.Pipeline.Board()); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(eventsHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case b := <-updates:
			if err := h.writeBoardEvent(w, r, b); err != nil {
				log.Printf("⚠️ SSE: cliente desconectado: %v", err)
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *BoardHandler) writeBoardEvent(w http.ResponseWriter, r *http.Request, b *usecase.Board) error {
	data, err := h.events.render(r.Context(), b)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: board\ndata: %s\n\n", data)
	return err
}
