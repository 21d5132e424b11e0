package product

import (
	"context"
	"time"
)

// Product 商品模型.Category 可能为空(历史数据未分类)
type Product struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:128;not null"`
	Category  string `gorm:"size:32;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository 商品仓储接口
type Repository interface {
	// FindByID 按 ID 查询商品.商品不存在时返回 (nil, nil),
	// 只有存储本身不可用才返回错误
	FindByID(ctx context.Context, id string) (*Product, error)
}
