package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// BoardStats é o que o health precisa do pipeline.
type BoardStats interface {
	Stats() usecase.Stats
}

type HealthHandler struct {
	DB          *sql.DB
	StoreDriver string
	RabbitMQ    *amqp091.Connection
	RelayURL    string
	Board       BoardStats
	StartTime   time.Time
}

type BoardHealth struct {
	Prospects    int `json:"prospects"`
	Unrecognized int `json:"unrecognized"`
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
	Board        *BoardHealth      `json:"board,omitempty"`
}

func NewHealthHandler(db *sql.DB, storeDriver string, rabbitMQ *amqp091.Connection, relayURL string, board BoardStats) *HealthHandler {
	return &HealthHandler{
		DB:          db,
		StoreDriver: storeDriver,
		RabbitMQ:    rabbitMQ,
		RelayURL:    relayURL,
		Board:       board,
		StartTime:   time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := map[string]string{
		"store":    h.storeStatus(r.Context()),
		"rabbitmq": h.brokerStatus(),
		"relay":    "not configured",
	}
	if h.RelayURL != "" {
		deps["relay"] = "configured"
	}

	status, code := "healthy", http.StatusOK
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	// prospects com etapa fora do registry não aparecem no board; só reportamos
	if h.Board != nil {
		stats := h.Board.Stats()
		response.Board = &BoardHealth{Prospects: stats.Total, Unrecognized: stats.Unrecognized}
	}

	writeJSON(w, code, response)
}

func (h *HealthHandler) storeStatus(ctx context.Context) string {
	if h.DB == nil {
		return "not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		return fmt.Sprintf("unhealthy (%s): %v", h.StoreDriver, err)
	}
	return "healthy"
}

func (h *HealthHandler) brokerStatus() string {
	switch {
	case h.RabbitMQ == nil:
		return "not configured"
	case h.RabbitMQ.IsClosed():
		return "unhealthy: connection closed"
	default:
		return "healthy"
	}
}
