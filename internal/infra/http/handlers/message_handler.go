package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type MessageHandler struct {
	SendUC  *usecase.SendMessageUseCase
	limited http.Handler
}

func NewMessageHandler(uc *usecase.SendMessageUseCase) *MessageHandler {
	h := &MessageHandler{SendUC: uc}
	h.limited = rateLimit(messageLimit, messageWindow)(http.HandlerFunc(h.send)) // 10 req/min por IP
	return h
}

// HandleSend (POST /prospects/{id}/messages)
func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	h.limited.ServeHTTP(w, r)
}

func (h *MessageHandler) send(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.SendUC.Execute(r.Context(), usecase.SendMessageInput{
		ProspectID: chi.URLParam(r, "id"),
		Message:    req.Message,
	})
	if err != nil {
		if usecase.IsDispatchError(err) {
			middleware.RecordDispatch("failed")
		}
		writeUsecaseError(w, err, nil)
		return
	}

	middleware.RecordDispatch("sent")
	writeJSON(w, http.StatusOK, out)
}
