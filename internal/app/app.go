package app

import (
	"os"

	"go-leavebot/internal/request"
	"go-leavebot/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module's routes.
// Redis and Kafka are optional: leaving their addresses empty selects the
// in-memory session store and the noop event publisher.
func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	if err := gormDB.AutoMigrate(&request.LeaveRequest{}); err != nil {
		return err
	}
	db, err := gormDB.DB()
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient, err = connection.ConnectRedisWithRetry(addr, 5)
		if err != nil {
			return err
		}
		logger.Info("redis connection established", zap.String("addr", addr))
	}

	var kafkaWriter *kafka.Writer
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		kafkaWriter = connection.NewKafkaWriter(broker)
		logger.Info("kafka writer configured", zap.String("broker", broker))
	}

	registerModules(router, db, gormDB, redisClient, kafkaWriter)
	return nil
}
