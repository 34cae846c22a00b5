package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/cache"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/database"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/http/handlers"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/http/middleware"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/integration/whatsapp"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/mail"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/queue"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/worker"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/scoring"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
		os.Getenv("RABBITMQ_HOST"), os.Getenv("RABBITMQ_PORT"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASS"),
	})
	defer redisClient.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	clientRepo := database.NewClientRepository(db)
	opportunityRepo := database.NewOpportunityRepository(db)

	// 2. Adapters
	leadCache := cache.NewLeadCache(redisClient, 15*time.Minute)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		os.Getenv("MAIL_FROM"),
	)
	whatsappClient := whatsapp.NewClient()
	scorer := scoring.NewEngine(scoring.DefaultWeights())

	// 3. Workers
	automationWorker := queue.NewWorker(rabbitMQ.Ch, whatsappClient, mailSender)
	go automationWorker.Start(queue.QueueName)

	staleLeadWorker := worker.NewStaleLeadWorker(db)
	go staleLeadWorker.Start(context.Background())

	// 4. UseCases
	captureUC := usecase.NewCaptureLeadUseCase(leadRepo, scorer)
	getLeadUC := usecase.NewGetLeadUseCase(leadRepo, leadCache)
	changeStatusUC := usecase.NewChangeLeadStatusUseCase(leadRepo, leadCache)
	deleteLeadUC := usecase.NewDeleteLeadUseCase(leadRepo, leadCache)
	convertUC := usecase.NewConvertLeadUseCase(
		leadRepo, clientRepo, opportunityRepo,
		leadCache, producer, mailSender, whatsappClient,
	)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(captureUC, getLeadUC, changeStatusUC, deleteLeadUC)
	conversionHandler := handlers.NewConversionHandler(convertUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, redisClient)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Captação é pública (formulários do site); o resto exige sessão.
	r.Post("/leads", leadHandler.Capture)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth)
		r.Get("/leads/{id}", leadHandler.Get)
		r.Patch("/leads/{id}/status", leadHandler.ChangeStatus)
		r.Delete("/leads/{id}", leadHandler.Delete)
		r.Post("/leads/{id}/conversion/request", conversionHandler.Request)
		r.Post("/leads/{id}/conversion/commit", conversionHandler.Commit)
	})

	port := ":8080"
	log.Printf("🔥 Server MyImoMate rodando na porta %s", port)
	http.ListenAndServe(port, r)
}
