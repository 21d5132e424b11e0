package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"go.uber.org/zap"

	"github.com/example/salestats/internal/config"
	"github.com/example/salestats/internal/infra/mq"
	"github.com/example/salestats/internal/infra/redis"
	"github.com/example/salestats/internal/logger"
	"github.com/example/salestats/internal/repository/mysql"
	"github.com/example/salestats/internal/service"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	l := logger.Init(&cfg.Log)
	defer l.Sync()

	db := mysql.Init(&cfg.MySQL)
	mqConn := mq.Init(&cfg.RabbitMQ)
	redisClient := redis.Init(&cfg.Redis)

	orderRepo := mysql.NewOrderRepository(db)
	ingestSvc := service.NewIngestService(orderRepo, redisClient, zap.L())

	ch, err := mqConn.Channel()
	if err != nil {
		zap.L().Fatal("failed to open channel", zap.Error(err))
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(service.OrderQueue, true, false, false, false, nil); err != nil {
		zap.L().Fatal("failed to declare queue", zap.Error(err))
	}

	// 手动确认模式（auto-ack=false）
	msgs, err := ch.Consume(service.OrderQueue, "", false, false, false, false, nil)
	if err != nil {
		zap.L().Fatal("failed to consume", zap.Error(err))
	}

	zap.L().Info("order worker started, waiting for messages")

	for d := range msgs {
		var m service.OrderMessage
		if err := json.Unmarshal(d.Body, &m); err != nil {
			zap.L().Warn("invalid message body", zap.Error(err))
			service.GetMonitor().RecordIngestFailed()
			// 消息格式错误，拒绝并丢弃
			_ = d.Nack(false, false)
			continue
		}

		if err := ingestSvc.Process(context.Background(), &m); err != nil {
			service.GetMonitor().RecordIngestFailed()
			if errors.Is(err, service.ErrBadMessage) {
				zap.L().Warn("bad order message dropped", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			zap.L().Error("ingest failed, requeue", zap.Error(err))
			// 临时性失败，重新入队
			_ = d.Nack(false, true)
			continue
		}

		if err := d.Ack(false); err != nil {
			zap.L().Warn("failed to ack message", zap.Error(err))
		}
	}
}
