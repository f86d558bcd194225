package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// StageNotifier define o contrato do aviso ao agente (email hoje).
type StageNotifier interface {
	SendStageChanged(to, agentName string, event entity.StageChangedEvent, reg *entity.StageRegistry) error
}

type AgentFinder interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  consumer
	Notifier StageNotifier
	Users    AgentFinder
	Registry *entity.StageRegistry
}

func NewWorker(ch *amqp.Channel, notifier StageNotifier, users AgentFinder, reg *entity.StageRegistry) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Users:    users,
		Registry: reg,
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal de entregas fechado")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event entity.StageChangedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil || event.ProspectID == "" {
		log.Printf("❌ [WORKER] Payload inválido: %v", err)
		// Mensagem podre. Rejeita sem requeue para não travar a fila.
		d.Nack(false, false)
		return
	}

	log.Printf("📥 [WORKER] %s: %s → %s", event.BusinessName, event.From, event.To)

	if err := w.notify(ctx, event); err != nil {
		log.Printf("❌ [WORKER] Falha ao avisar agente %s: %v", event.AgentID, err)
		d.Nack(false, false)
		return
	}

	d.Ack(false)
}

func (w *Worker) notify(ctx context.Context, event entity.StageChangedEvent) error {
	agent, err := w.Users.FindByID(ctx, event.AgentID)
	if errors.Is(err, entity.ErrUserNotFound) || (err == nil && agent == nil) {
		// Agente removido: não há a quem avisar, tira da fila
		log.Printf("⚠️ [WORKER] Agente %q não encontrado, aviso descartado", event.AgentID)
		return nil
	}
	if err != nil {
		return err
	}
	if agent.Email == "" {
		log.Printf("⚠️ [WORKER] Agente %s sem email cadastrado", agent.ID)
		return nil
	}

	if err := w.Notifier.SendStageChanged(agent.Email, agent.DisplayName(), event, w.Registry); err != nil {
		return err
	}

	log.Printf("✅ [WORKER] Aviso enviado para %s", agent.Email)
	return nil
}
