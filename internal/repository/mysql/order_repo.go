package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/example/salestats/internal/datamodels/order"
)

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByCustomerAndStatus(ctx context.Context, customerID, status string) ([]*order.Order, error) {
	var list []*order.Order
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, status).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) FindByStatus(ctx context.Context, status string) ([]*order.Order, error) {
	var list []*order.Order
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) FindByStatusAndDateRange(ctx context.Context, status string, start, end time.Time) ([]*order.Order, error) {
	var list []*order.Order
	// 两端均为闭区间
	if err := r.db.WithContext(ctx).
		Where("status = ? AND order_date >= ? AND order_date <= ?", status, start, end).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
