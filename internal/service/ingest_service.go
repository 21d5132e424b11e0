package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"

	"github.com/example/salestats/internal/datamodels/order"
)

const (
	// OrderQueue 订单创建消息队列名
	OrderQueue = "order_created_queue"

	redisIngestDedupKey    = "order:ingest:%s" // messageID
	dedupMarkExpireSeconds = 86400             // 24小时有效期
)

// ErrBadMessage 消息本身不合法,重试也不会成功
var ErrBadMessage = errors.New("bad order message")

// OrderMessage 订单创建消息体
type OrderMessage struct {
	MessageID   string  `json:"messageId"`
	OrderID     string  `json:"orderId"`
	CustomerID  string  `json:"customerId"`
	Products    string  `json:"products"`
	TotalAmount float64 `json:"totalAmount"`
	OrderDate   string  `json:"orderDate"`
	Status      string  `json:"status"`
}

// IngestService 消费订单消息并落库.统计侧只读订单表,
// 写入全部经由这里
type IngestService struct {
	orderRepo order.Repository
	redis     radix.Client
	logger    *zap.Logger
}

// NewIngestService 创建订单入库服务
func NewIngestService(orderRepo order.Repository, redisClient radix.Client, logger *zap.Logger) *IngestService {
	if logger == nil {
		logger = zap.L()
	}
	return &IngestService{
		orderRepo: orderRepo,
		redis:     redisClient,
		logger:    logger,
	}
}

// Process 处理一条订单创建消息.
// 返回 ErrBadMessage 表示消息不合法应当丢弃,其余错误可重试
func (s *IngestService) Process(ctx context.Context, m *OrderMessage) error {
	if m.CustomerID == "" {
		return fmt.Errorf("%w: missing customerId", ErrBadMessage)
	}
	if m.TotalAmount < 0 {
		return fmt.Errorf("%w: negative totalAmount", ErrBadMessage)
	}
	switch m.Status {
	case order.StatusPending, order.StatusCompleted, order.StatusCancelled:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrBadMessage, m.Status)
	}
	orderDate, err := parseDate(m.OrderDate)
	if err != nil {
		return fmt.Errorf("%w: invalid orderDate %q", ErrBadMessage, m.OrderDate)
	}

	// 按消息 ID 去重,防止 MQ 重投导致订单重复入库.
	// Redis 不可用时只记日志,宁可重复也不丢单
	if m.MessageID != "" && s.redis != nil {
		key := fmt.Sprintf(redisIngestDedupKey, m.MessageID)
		var reply string
		err := s.redis.Do(radix.Cmd(&reply, "SET", key, "1", "NX", "EX", fmt.Sprint(dedupMarkExpireSeconds)))
		if err != nil {
			s.logger.Warn("dedup check failed, ingesting anyway",
				zap.String("message_id", m.MessageID), zap.Error(err))
		} else if reply == "" {
			// NX 未生效,说明这条消息已经处理过
			s.logger.Info("duplicate order message skipped",
				zap.String("message_id", m.MessageID))
			return nil
		}
	}

	o := &order.Order{
		ID:          m.OrderID,
		CustomerID:  m.CustomerID,
		Products:    m.Products,
		TotalAmount: m.TotalAmount,
		OrderDate:   orderDate,
		Status:      m.Status,
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	if err := s.orderRepo.Create(ctx, o); err != nil {
		GetMonitor().RecordDBError()
		return fmt.Errorf("create order %s: %w", o.ID, err)
	}

	s.logger.Info("order ingested",
		zap.String("order_id", o.ID),
		zap.String("customer_id", o.CustomerID),
		zap.Float64("total_amount", o.TotalAmount))
	GetMonitor().RecordIngestProcessed()
	return nil
}
