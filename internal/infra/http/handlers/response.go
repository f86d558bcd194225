package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Board   *BoardResponse `json:"board,omitempty"`
	Draft   string         `json:"draft,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ erro ao escrever resposta: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUsecaseError traduz os erros tipados do pipeline para HTTP.
// board is the rolled back board, only used for STORE_WRITE_FAILED.
func writeUsecaseError(w http.ResponseWriter, err error, board *BoardResponse) {
	var (
		verr     usecase.ValidationError
		storeErr *usecase.StoreWriteError
		dispErr  *usecase.DispatchError
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: verr.Message,
			Field:   verr.Field,
		})
	case errors.As(err, &storeErr):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "STORE_WRITE_FAILED",
			Message: "Não foi possível salvar a mudança de etapa; o board foi restaurado",
			Board:   board,
		})
	case errors.As(err, &dispErr):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "DISPATCH_FAILED",
			Message: "Falha ao enviar a mensagem pelo WhatsApp",
			Draft:   dispErr.Message,
		})
	case errors.Is(err, entity.ErrProspectNotFound):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "prospect not found")
	default:
		log.Printf("❌ erro inesperado: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return false
	}
	return true
}
