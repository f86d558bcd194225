package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	metrics "github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/relay"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ValidateStore(); err != nil {
		log.Fatal(err)
	}

	registry, err := cfg.Stages()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Store + repositórios
	db, prospects, users, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// 2. RabbitMQ é opcional: sem broker o board funciona, só não há avisos
	var (
		publisher  usecase.StageEventPublisher
		rabbitConn *amqp.Connection
	)
	if cfg.RabbitMQ.Enabled() {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
		if err != nil {
			log.Printf("⚠️ RabbitMQ indisponível, avisos de etapa desativados: %v", err)
		} else {
			defer rabbitMQ.Close()
			rabbitConn = rabbitMQ.Conn
			publisher = queue.NewProducer(rabbitMQ.Ch)
			startWorker(ctx, rabbitMQ, cfg, users, registry)
		}
	}

	// 3. Pipeline (uma instância por processo, compartilhada pelas sessões)
	pipeline := usecase.NewPipeline(registry, prospects, publisher)
	sub, err := pipeline.Start(ctx)
	if err != nil {
		log.Fatalf("❌ Falha ao abrir live query de prospects: %v", err)
	}
	defer sub.Cancel()

	// 4. UseCases
	agents := usecase.NewAgentLookup(users)
	createProspectUC := usecase.NewCreateProspectUseCase(prospects, registry)
	sendMessageUC := usecase.NewSendMessageUseCase(pipeline, relay.NewClient(cfg.RelayURL))

	// 5. Handlers
	boardHandler := handlers.NewBoardHandler(pipeline, agents)
	prospectHandler := handlers.NewProspectHandler(createProspectUC, pipeline, agents)
	messageHandler := handlers.NewMessageHandler(sendMessageUC)
	agentHandler := handlers.NewAgentHandler(users)
	healthHandler := handlers.NewHealthHandler(db, cfg.StoreDriver, rabbitConn, cfg.RelayURL, pipeline)

	// 6. Router
	r := chi.NewRouter()
	if cfg.TrustProxy {
		// só atrás de proxy confiável: RemoteAddr passa a vir do X-Forwarded-For
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(metrics.Metrics)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/stages", boardHandler.HandleStages)
	r.Get("/agents", agentHandler.HandleList)

	r.Route("/board", func(r chi.Router) {
		r.Get("/", boardHandler.HandleBoard)
		r.Get("/stats", boardHandler.HandleStats)
		r.Get("/events", boardHandler.HandleEvents)
		r.Post("/moves", boardHandler.HandleMove)
	})

	r.Route("/prospects", func(r chi.Router) {
		r.Post("/", prospectHandler.HandleCreate)
		r.Delete("/{id}", prospectHandler.HandleDelete)
		r.Put("/{id}/stage", prospectHandler.HandleMoveStage)
		r.Post("/{id}/messages", messageHandler.HandleSend)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// streams SSE terminam junto com o ctx do processo
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Printf("🔥 Server CRM rodando na porta %s (store: %s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Servidor caiu: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Desligando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (*sql.DB, entity.ProspectRepositoryInterface, entity.UserRepositoryInterface, error) {
	if cfg.StoreDriver == config.DriverSQLite {
		db, err := database.NewSQLiteConnection(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, database.NewSQLiteProspectRepository(db), database.NewSQLiteUserRepository(db), nil
	}

	db, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.MigratePostgres(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return db, database.NewProspectRepository(db, cfg.DatabaseURL), database.NewUserRepository(db), nil
}

// startWorker consome os eventos de etapa num canal próprio e avisa os agentes por email.
func startWorker(ctx context.Context, rabbitMQ *queue.RabbitMQ, cfg config.Config, users entity.UserRepositoryInterface, reg *entity.StageRegistry) {
	if cfg.Mail.Host == "" {
		log.Println("⚠️ MAIL_HOST não configurado, worker de avisos desligado")
		return
	}

	ch, err := rabbitMQ.Conn.Channel()
	if err != nil {
		log.Printf("⚠️ Falha ao abrir canal do worker: %v", err)
		return
	}

	mailSender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	worker := queue.NewWorker(ch, mailSender, users, reg)

	go func() {
		defer ch.Close()
		if err := worker.Start(ctx, queue.QueueName); err != nil {
			log.Printf("❌ [WORKER] parou: %v", err)
		}
	}()
}
