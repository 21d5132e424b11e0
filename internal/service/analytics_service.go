package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/example/salestats/internal/datamodels/order"
	"github.com/example/salestats/internal/datamodels/product"
)

// ErrInvalidInput 调用方参数非法(缺失/格式错误)
var ErrInvalidInput = errors.New("invalid input")

// CustomerSpending 单个客户的消费汇总
type CustomerSpending struct {
	CustomerID        string  `json:"customerId"`
	TotalSpent        float64 `json:"totalSpent"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	LastOrderDate     string  `json:"lastOrderDate"`
}

// TopProduct 销量排行中的一个商品
type TopProduct struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	TotalSold int    `json:"totalSold"`
}

// CategoryRevenue 分类维度的营收
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

// SalesAnalytics 时间范围内的销售汇总
type SalesAnalytics struct {
	TotalRevenue      float64           `json:"totalRevenue"`
	CompletedOrders   int               `json:"completedOrders"`
	CategoryBreakdown []CategoryRevenue `json:"categoryBreakdown"`
}

// AnalyticsService 销售统计服务.只读,每次请求都重新扫描订单,
// 不做任何缓存,仓储由外部注入以便测试替换
type AnalyticsService struct {
	orderRepo   order.Repository
	productRepo product.Repository
	logger      *zap.Logger
}

// NewAnalyticsService 创建统计服务
func NewAnalyticsService(orderRepo order.Repository, productRepo product.Repository, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.L()
	}
	return &AnalyticsService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCustomerSpending 计算单个客户已完成订单的消费汇总.
// 客户没有已完成订单时返回 (nil, nil),不算错误
func (s *AnalyticsService) GetCustomerSpending(ctx context.Context, customerID string) (*CustomerSpending, error) {
	GetMonitor().RecordAnalyticsRequest()

	if customerID == "" {
		return nil, fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}

	orders, err := s.orderRepo.FindByCustomerAndStatus(ctx, customerID, order.StatusCompleted)
	if err != nil {
		GetMonitor().RecordDBError()
		return nil, fmt.Errorf("find orders of customer %s: %w", customerID, err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	var totalSpent float64
	// 取严格大于的最大下单时间,相等时保留先遇到的那个
	lastOrderDate := orders[0].OrderDate
	for _, o := range orders {
		totalSpent += o.TotalAmount
		if o.OrderDate.After(lastOrderDate) {
			lastOrderDate = o.OrderDate
		}
	}

	return &CustomerSpending{
		CustomerID:        customerID,
		TotalSpent:        totalSpent,
		AverageOrderValue: totalSpent / float64(len(orders)),
		LastOrderDate:     lastOrderDate.UTC().Format(time.RFC3339),
	}, nil
}

// GetTopSellingProducts 统计销量最高的商品,最多返回 limit 条.
// 明细串解析失败的订单整单跳过,不影响其余订单;
// 商品已从目录中消失的条目直接丢弃,所以结果可能不足 limit 条
func (s *AnalyticsService) GetTopSellingProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	GetMonitor().RecordAnalyticsRequest()

	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be a positive integer", ErrInvalidInput)
	}

	orders, err := s.orderRepo.FindByStatus(ctx, order.StatusCompleted)
	if err != nil {
		GetMonitor().RecordDBError()
		return nil, fmt.Errorf("find completed orders: %w", err)
	}

	// 按商品累计销量,同时记录首次出现的顺序,
	// 稳定排序下销量相同的商品按先出现的排前
	totals := make(map[string]int)
	var seen []string
	for _, o := range orders {
		items, err := o.DecodeLineItems()
		if err != nil {
			GetMonitor().RecordDecodeError()
			s.logger.Warn("skip order with undecodable line items",
				zap.String("order_id", o.ID), zap.Error(err))
			continue
		}
		for _, item := range items {
			if _, ok := totals[item.ProductID]; !ok {
				seen = append(seen, item.ProductID)
			}
			totals[item.ProductID] += item.Quantity
		}
	}

	sort.SliceStable(seen, func(i, j int) bool {
		return totals[seen[i]] > totals[seen[j]]
	})
	if len(seen) > limit {
		seen = seen[:limit]
	}

	results := make([]TopProduct, 0, len(seen))
	for _, pid := range seen {
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			GetMonitor().RecordDBError()
			return nil, fmt.Errorf("find product %s: %w", pid, err)
		}
		if p == nil {
			// 商品已不在目录里,不补空位
			continue
		}
		results = append(results, TopProduct{
			ProductID: pid,
			Name:      p.Name,
			TotalSold: totals[pid],
		})
	}
	return results, nil
}

// GetSalesAnalytics 统计时间范围内已完成订单的营收情况.
// 总营收和订单数直接取订单的 TotalAmount,不依赖明细解析;
// 明细解析失败只影响该订单在分类营收里的贡献.
// 单个商品的目录查询失败或商品缺失只丢弃该条明细的贡献
func (s *AnalyticsService) GetSalesAnalytics(ctx context.Context, startDate, endDate string) (*SalesAnalytics, error) {
	GetMonitor().RecordAnalyticsRequest()

	start, err := parseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startDate %q", ErrInvalidInput, startDate)
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endDate %q", ErrInvalidInput, endDate)
	}

	orders, err := s.orderRepo.FindByStatusAndDateRange(ctx, order.StatusCompleted, start, end)
	if err != nil {
		GetMonitor().RecordDBError()
		return nil, fmt.Errorf("find completed orders in range: %w", err)
	}

	result := &SalesAnalytics{
		CompletedOrders:   len(orders),
		CategoryBreakdown: []CategoryRevenue{},
	}

	categoryRevenue := make(map[string]float64)
	var categories []string
	for _, o := range orders {
		result.TotalRevenue += o.TotalAmount

		items, err := o.DecodeLineItems()
		if err != nil {
			GetMonitor().RecordDecodeError()
			s.logger.Warn("order excluded from category breakdown",
				zap.String("order_id", o.ID), zap.Error(err))
			continue
		}

		// 逐条明细查目录拿分类,单条失败只丢这一条的贡献
		for _, item := range items {
			p, err := s.productRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				GetMonitor().RecordLookupError()
				s.logger.Warn("category lookup failed, item dropped",
					zap.String("order_id", o.ID),
					zap.String("product_id", item.ProductID),
					zap.Error(err))
				continue
			}
			if p == nil {
				continue
			}
			if _, ok := categoryRevenue[p.Category]; !ok {
				categories = append(categories, p.Category)
			}
			categoryRevenue[p.Category] += float64(item.Quantity) * item.PriceAtPurchase
		}
	}

	for _, c := range categories {
		result.CategoryBreakdown = append(result.CategoryBreakdown, CategoryRevenue{
			Category: c,
			Revenue:  categoryRevenue[c],
		})
	}
	return result, nil
}

// parseDate 接受 RFC3339 或 2006-01-02 两种格式
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
