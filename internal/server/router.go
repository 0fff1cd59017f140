package server

import (
	"errors"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/bboodd/mini-shop/internal/auth"
	"github.com/bboodd/mini-shop/internal/config"
	"github.com/bboodd/mini-shop/internal/datamodels/order"
	"github.com/bboodd/mini-shop/internal/datamodels/product"
	"github.com/bboodd/mini-shop/internal/errs"
	"github.com/bboodd/mini-shop/internal/infra/mq"
	"github.com/bboodd/mini-shop/internal/infra/redis"
	"github.com/bboodd/mini-shop/internal/messaging"
	"github.com/bboodd/mini-shop/internal/repository/mysql"
	"github.com/bboodd/mini-shop/internal/repository/redisstore"
	"github.com/bboodd/mini-shop/internal/search"
	"github.com/bboodd/mini-shop/internal/service"
)

// httpStatus 业务错误到 HTTP 状态码的映射
func httpStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return iris.StatusNotFound
	case errors.Is(err, errs.ErrEmptyCart),
		errors.Is(err, errs.ErrInsufficientStock),
		errors.Is(err, errs.ErrInvalidCartItem),
		errors.Is(err, errs.ErrInvalidStatusChange):
		return iris.StatusBadRequest
	default:
		return iris.StatusInternalServerError
	}
}

func fail(ctx iris.Context, err error) {
	status := httpStatus(err)
	if status == iris.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", ctx.Path()),
			zap.Error(err))
	}
	ctx.StopWithJSON(status, iris.Map{"code": status, "msg": err.Error()})
}

func ok(ctx iris.Context, data interface{}) {
	ctx.JSON(iris.Map{"code": 0, "data": data})
}

// RegisterRoutes 注册所有 HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)
	esClient := search.Init(&cfg.Elasticsearch)

	if err := messaging.DeclareTopology(mqConn, &cfg.RabbitMQ); err != nil {
		zap.L().Fatal("declare mq topology failed", zap.Error(err))
	}

	// 仓储与存储
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	cartStore := redisstore.NewCartStore(redisClient, &cfg.Cart)
	recentStore := redisstore.NewRecentViewStore(redisClient, &cfg.RecentView)
	productCache := redisstore.NewProductCache(redisClient, &cfg.Cache)
	productIndex := search.NewProductIndex(esClient, &cfg.Elasticsearch)
	publisher := messaging.NewPublisher(mqConn, &cfg.RabbitMQ)

	// 服务
	productSvc := service.NewProductService(productRepo, productCache, productIndex, publisher)
	cartSvc := service.NewCartService(cartStore, productRepo)
	orderSvc := service.NewOrderService(orderRepo, cartSvc, productSvc, publisher)
	recentSvc := service.NewRecentViewService(recentStore, productRepo)

	api := app.Party("/api")

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 管理端登录
	api.Post("/admin/login", func(ctx iris.Context) {
		var req struct {
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if req.Password != cfg.Admin.Password {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid password"})
			return
		}
		token, err := auth.GenerateAdminToken(&cfg.JWT)
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, iris.Map{"token": token})
	})

	// 管理端接口校验
	adminRequired := func(ctx iris.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}
		claims, err := auth.ParseToken(&cfg.JWT, token)
		if err != nil || claims.Role != auth.RoleAdmin {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
			return
		}
		ctx.Next()
	}

	// ---------------- 商品 ----------------

	api.Get("/products", func(ctx iris.Context) {
		list, err := productSvc.ListAll(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, list)
	})

	api.Get("/products/search", func(ctx iris.Context) {
		keyword := ctx.URLParam("keyword")
		docs, err := productSvc.Search(ctx.Request().Context(), keyword)
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, docs)
	})

	api.Get("/products/category/{category}", func(ctx iris.Context) {
		list, err := productSvc.ListByCategory(ctx.Request().Context(), ctx.Params().Get("category"))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, list)
	})

	api.Get("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			fail(ctx, err)
			return
		}

		// 带 user_id 时顺带记录最近浏览，失败不影响商品查询
		if userID := ctx.URLParam("user_id"); userID != "" {
			if err := recentSvc.Add(ctx.Request().Context(), userID, id); err != nil {
				zap.L().Warn("record recent view failed",
					zap.String("user_id", userID),
					zap.Int64("product_id", id),
					zap.Error(err))
			}
		}
		ok(ctx, p)
	})

	api.Post("/products", adminRequired, func(ctx iris.Context) {
		var p product.Product
		if err := ctx.ReadJSON(&p); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		created, err := productSvc.Create(ctx.Request().Context(), &p)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.StatusCode(iris.StatusCreated)
		ok(ctx, created)
	})

	api.Put("/products/{id:int64}", adminRequired, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var p product.Product
		if err := ctx.ReadJSON(&p); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		updated, err := productSvc.Update(ctx.Request().Context(), id, &p)
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, updated)
	})

	api.Delete("/products/{id:int64}", adminRequired, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := productSvc.Delete(ctx.Request().Context(), id); err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "deleted"})
	})

	// ---------------- 购物车 ----------------

	type cartRequest struct {
		UserID    string `json:"user_id"`
		ProductID int64  `json:"product_id"`
		Quantity  int64  `json:"quantity"`
	}

	api.Post("/cart", func(ctx iris.Context) {
		var req cartRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := cartSvc.Add(ctx.Request().Context(), req.UserID, req.ProductID, req.Quantity); err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "added"})
	})

	api.Get("/cart/{userId}", func(ctx iris.Context) {
		lines, err := cartSvc.Lines(ctx.Request().Context(), ctx.Params().Get("userId"))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, lines)
	})

	api.Put("/cart", func(ctx iris.Context) {
		var req cartRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := cartSvc.UpdateQuantity(ctx.Request().Context(), req.UserID, req.ProductID, req.Quantity); err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "updated"})
	})

	api.Delete("/cart/{userId}/{productId:int64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetInt64("productId")
		if err := cartSvc.Remove(ctx.Request().Context(), ctx.Params().Get("userId"), pid); err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "removed"})
	})

	api.Delete("/cart/{userId}", func(ctx iris.Context) {
		if err := cartSvc.Clear(ctx.Request().Context(), ctx.Params().Get("userId")); err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "cleared"})
	})

	// ---------------- 订单 ----------------

	api.Post("/orders", func(ctx iris.Context) {
		var req struct {
			UserID        string `json:"user_id"`
			CustomerName  string `json:"customer_name"`
			CustomerEmail string `json:"customer_email"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		o, err := orderSvc.Place(ctx.Request().Context(), req.UserID, req.CustomerName, req.CustomerEmail)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.StatusCode(iris.StatusCreated)
		ok(ctx, o)
	})

	api.Get("/orders", adminRequired, func(ctx iris.Context) {
		list, err := orderSvc.ListAll(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, list)
	})

	api.Get("/orders/customer/{email}", func(ctx iris.Context) {
		list, err := orderSvc.ListByCustomerEmail(ctx.Request().Context(), ctx.Params().Get("email"))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, list)
	})

	api.Get("/orders/status/{status}", adminRequired, func(ctx iris.Context) {
		status := order.Status(ctx.Params().Get("status"))
		list, err := orderSvc.ListByStatus(ctx.Request().Context(), status)
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, list)
	})

	api.Get("/orders/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		o, err := orderSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, o)
	})

	api.Patch("/orders/{id:int64}/status", adminRequired, func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		status := order.Status(ctx.URLParam("status"))
		o, err := orderSvc.UpdateStatus(ctx.Request().Context(), id, status)
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, o)
	})

	// ---------------- 最近浏览 ----------------

	api.Post("/recent-views", func(ctx iris.Context) {
		userID := ctx.URLParam("user_id")
		pid, err := ctx.URLParamInt64("product_id")
		if userID == "" || err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "user_id and product_id required"})
			return
		}
		if err := recentSvc.Add(ctx.Request().Context(), userID, pid); err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "recorded"})
	})

	api.Get("/recent-views/{userId}", func(ctx iris.Context) {
		list, err := recentSvc.ListProducts(ctx.Request().Context(), ctx.Params().Get("userId"))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, list)
	})

	api.Get("/recent-views/{userId}/ids", func(ctx iris.Context) {
		ids, err := recentSvc.ListIDs(ctx.Request().Context(), ctx.Params().Get("userId"))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, ids)
	})

	api.Get("/recent-views/{userId}/count", func(ctx iris.Context) {
		n, err := recentSvc.Count(ctx.Request().Context(), ctx.Params().Get("userId"))
		if err != nil {
			fail(ctx, err)
			return
		}
		ok(ctx, n)
	})

	api.Delete("/recent-views/{userId}/{productId:int64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetInt64("productId")
		if err := recentSvc.Remove(ctx.Request().Context(), ctx.Params().Get("userId"), pid); err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "removed"})
	})

	api.Delete("/recent-views/{userId}", func(ctx iris.Context) {
		if err := recentSvc.Clear(ctx.Request().Context(), ctx.Params().Get("userId")); err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "cleared"})
	})

	// ---------------- 监控 ----------------

	api.Get("/monitor/stats", adminRequired, func(ctx iris.Context) {
		ok(ctx, service.GetMonitor().GetStats())
	})
}
