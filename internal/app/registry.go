package app

import (
	"database/sql"
	"os"
	"strconv"

	"go-leavebot/internal/chat"
	"go-leavebot/internal/middleware"
	"go-leavebot/internal/notify"
	"go-leavebot/internal/request"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	kafkaWriter *kafka.Writer,
) {
	router.Use(middleware.RequestID())

	// --- Repositories ---
	requestRepo := request.NewRepository(gormDB)

	// --- Session store ---
	var sessionStore chat.Store
	if rdb != nil {
		sessionStore = chat.NewRedisStore(rdb)
	} else {
		sessionStore = chat.NewMemoryStore()
	}

	// --- Notification dispatcher ---
	docsDir := os.Getenv("DOCS_DIR")
	if docsDir == "" {
		docsDir = "documents"
	}
	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if smtpPort == 0 {
		smtpPort = 587
	}
	mailer := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     smtpPort,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("MAIL_FROM"),
	})
	dispatcher := notify.NewDispatcher(notify.NewRenderer(docsDir), mailer)

	// --- Lifecycle events ---
	var publisher request.EventPublisher
	if kafkaWriter != nil {
		publisher = request.NewKafkaEventPublisher(kafkaWriter)
	} else {
		publisher = request.NewNoopEventPublisher()
	}

	// --- Services ---
	chatService := chat.NewService(sessionStore, requestRepo, dispatcher, publisher)
	requestService := request.NewService(db, requestRepo, dispatcher, publisher)

	// --- Handlers ---
	chatHandler := chat.NewHandler(chatService)
	requestHandler := request.NewHandler(requestService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		chat.RegisterRoutes(api, chatHandler)
		request.RegisterRoutes(api, requestHandler)
	}
}
