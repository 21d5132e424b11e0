package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/salestats/internal/config"
	"github.com/example/salestats/internal/datamodels/order"
	"github.com/example/salestats/internal/datamodels/product"
	"github.com/example/salestats/internal/repository/mysql"
)

// 往数据库灌一批演示用的商品和订单,方便本地调试统计接口
func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := mysql.Init(&cfg.MySQL)
	orderRepo := mysql.NewOrderRepository(db)

	products := []*product.Product{
		{ID: "P1", Name: "Mechanical Keyboard", Category: "electronics"},
		{ID: "P2", Name: "Coffee Mug", Category: "kitchen"},
		{ID: "P3", Name: "Wall Poster", Category: "decor"},
		{ID: "P4", Name: "USB Hub", Category: "electronics"},
	}

	fmt.Println("🌱 写入演示商品...")
	for _, p := range products {
		if err := db.Save(p).Error; err != nil {
			fmt.Printf("❌ 商品 %s 写入失败: %v\n", p.ID, err)
			return
		}
		fmt.Printf("  ✅ %s %s (%s)\n", p.ID, p.Name, p.Category)
	}

	orders := []*order.Order{
		{
			ID:          "demo-1",
			CustomerID:  "C1",
			Products:    `[{"productId":"P1","quantity":2,"priceAtPurchase":45},{"productId":"P2","quantity":1,"priceAtPurchase":10}]`,
			TotalAmount: 100,
			OrderDate:   time.Now().AddDate(0, 0, -10),
			Status:      order.StatusCompleted,
		},
		{
			ID:          "demo-2",
			CustomerID:  "C1",
			Products:    `[{"productId":"P2","quantity":5,"priceAtPurchase":10}]`,
			TotalAmount: 50,
			OrderDate:   time.Now().AddDate(0, 0, -3),
			Status:      order.StatusCompleted,
		},
		{
			// 故意保留一条单引号格式的历史脏数据,用来验证解析兼容
			ID:          "demo-3",
			CustomerID:  "C2",
			Products:    `[{'productId':'P3','quantity':1,'priceAtPurchase':25}]`,
			TotalAmount: 25,
			OrderDate:   time.Now().AddDate(0, 0, -1),
			Status:      order.StatusCompleted,
		},
		{
			ID:          "demo-4",
			CustomerID:  "C2",
			Products:    `[{"productId":"P4","quantity":1,"priceAtPurchase":30}]`,
			TotalAmount: 30,
			OrderDate:   time.Now(),
			Status:      order.StatusPending,
		},
	}

	fmt.Println("🌱 写入演示订单...")
	ctx := context.Background()
	for _, o := range orders {
		if err := orderRepo.Create(ctx, o); err != nil {
			fmt.Printf("  ⚠️  订单 %s 写入失败(可能已存在): %v\n", o.ID, err)
			continue
		}
		fmt.Printf("  ✅ %s customer=%s amount=%.0f status=%s\n", o.ID, o.CustomerID, o.TotalAmount, o.Status)
	}

	fmt.Println("完成 ✨")
}
