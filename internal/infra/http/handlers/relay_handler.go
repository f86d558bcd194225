package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/infra/integration/relay"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/twilio"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, to, body string) (string, error)
}

// RelayHandler é o servidor do relay (cmd/relay): POST /send-whatsapp.
type RelayHandler struct {
	Sender WhatsAppSender
}

func NewRelayHandler(sender WhatsAppSender) *RelayHandler {
	return &RelayHandler{Sender: sender}
}

func (h *RelayHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req relay.SendRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRelayError(w, http.StatusInternalServerError, "invalid JSON")
		return
	}

	// o contrato do relay só tem 200 ou 500 {success:false}
	to := usecase.NormalizePhone(req.To)
	if to == "" || strings.TrimSpace(req.Message) == "" {
		writeRelayError(w, http.StatusInternalServerError, "to and message are required")
		return
	}

	sid, err := h.Sender.SendWhatsApp(r.Context(), to, req.Message)
	if err != nil {
		log.Printf("❌ Relay: falha ao enviar para %s: %v", to, err)

		var apiErr *twilio.APIError
		if errors.As(err, &apiErr) {
			raw, _ := json.Marshal(apiErr)
			writeJSON(w, http.StatusInternalServerError, relay.SendResponse{Success: false, Error: raw})
			return
		}
		writeRelayError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, relay.SendResponse{Success: true, MessageSid: sid})
}

func writeRelayError(w http.ResponseWriter, status int, msg string) {
	raw, _ := json.Marshal(msg)
	writeJSON(w, status, relay.SendResponse{Success: false, Error: raw})
}
