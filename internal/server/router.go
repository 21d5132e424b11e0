package server

import (
	"errors"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/example/salestats/internal/auth"
	"github.com/example/salestats/internal/config"
	"github.com/example/salestats/internal/middleware"
	"github.com/example/salestats/internal/repository/mysql"
	"github.com/example/salestats/internal/service"
)

// RegisterRoutes 注册所有 HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)

	// 仓储与服务
	orderRepo := mysql.NewOrderRepository(db)
	productRepo := mysql.NewProductRepository(db)
	analyticsSvc := service.NewAnalyticsService(orderRepo, productRepo, zap.L())

	api := app.Party("/api")

	// 接口层限流
	bucket := middleware.NewTokenBucket(cfg.API.RateLimitCapacity, cfg.API.RateLimitPerSecond)
	api.Use(middleware.RateLimitMiddleware(bucket))

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{
			"code": 0,
			"msg":  "ok",
		})
	})

	// 用配置的 API key 换取访问令牌
	api.Post("/login", func(ctx iris.Context) {
		var req struct {
			Client string `json:"client"`
			APIKey string `json:"apiKey"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if req.APIKey == "" || req.APIKey != cfg.API.Key {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid api key"})
			return
		}
		token, err := auth.GenerateToken(&cfg.JWT, req.Client)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"token": token}})
	})

	// 需要令牌的接口
	authAPI := api.Party("/", func(ctx iris.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}
		claims, err := auth.ParseToken(&cfg.JWT, token)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
			return
		}
		ctx.Values().Set("client", claims.Client)
		ctx.Next()
	})

	// 客户消费汇总
	authAPI.Get("/analytics/customer-spending", func(ctx iris.Context) {
		customerID := ctx.URLParam("customerId")
		result, err := analyticsSvc.GetCustomerSpending(ctx.Request().Context(), customerID)
		if err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
				return
			}
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		// 客户没有已完成订单时 result 为 nil,原样返回 null
		ctx.JSON(iris.Map{"code": 0, "data": result})
	})

	// 商品销量排行
	authAPI.Get("/analytics/top-products", func(ctx iris.Context) {
		limit := ctx.URLParamIntDefault("limit", 0)
		result, err := analyticsSvc.GetTopSellingProducts(ctx.Request().Context(), limit)
		if err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
				return
			}
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": result})
	})

	// 时间范围销售汇总
	authAPI.Get("/analytics/sales", func(ctx iris.Context) {
		startDate := ctx.URLParam("startDate")
		endDate := ctx.URLParam("endDate")
		result, err := analyticsSvc.GetSalesAnalytics(ctx.Request().Context(), startDate, endDate)
		if err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
				return
			}
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": result})
	})

	// 运行统计
	authAPI.Get("/stats", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "data": service.GetMonitor().Snapshot()})
	})
}
