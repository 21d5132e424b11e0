package order

import (
	"context"
	"time"
)

// 订单状态取值.只有 completed 参与统计
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Order 订单模型.Products 为下单时序列化的明细串,结构见 LineItem,
// 解析可能失败,失败的处理策略由各统计管道自行决定
type Order struct {
	ID          string    `gorm:"primaryKey;size:64"`
	CustomerID  string    `gorm:"index;size:64;not null"`
	Products    string    `gorm:"type:text"`
	TotalAmount float64   `gorm:"not null"`
	OrderDate   time.Time `gorm:"index"`
	Status      string    `gorm:"index;size:16;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository 订单仓储接口
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByCustomerAndStatus(ctx context.Context, customerID, status string) ([]*Order, error)
	FindByStatus(ctx context.Context, status string) ([]*Order, error)
	// FindByStatusAndDateRange 按状态和下单时间查询,时间区间两端均为闭区间
	FindByStatusAndDateRange(ctx context.Context, status string, start, end time.Time) ([]*Order, error)
}
