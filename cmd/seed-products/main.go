package main

import (
	"context"
	"flag"
	"log"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bboodd/mini-shop/internal/config"
	"github.com/bboodd/mini-shop/internal/datamodels/product"
	"github.com/bboodd/mini-shop/internal/infra/mq"
	"github.com/bboodd/mini-shop/internal/infra/redis"
	"github.com/bboodd/mini-shop/internal/logger"
	"github.com/bboodd/mini-shop/internal/messaging"
	"github.com/bboodd/mini-shop/internal/repository/mysql"
	"github.com/bboodd/mini-shop/internal/repository/redisstore"
	"github.com/bboodd/mini-shop/internal/search"
	"github.com/bboodd/mini-shop/internal/service"
)

type seed struct {
	name        string
	description string
	price       string
	stock       int64
	category    string
}

// 走 ProductService 建样例商品，顺带触发索引事件，和正式链路一致
func main() {
	var configPath = flag.String("config", "", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	l, err := logger.Init(true)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer l.Sync()

	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	esClient := search.Init(&cfg.Elasticsearch)
	conn := mq.Init(&cfg.RabbitMQ)
	if err := messaging.DeclareTopology(conn, &cfg.RabbitMQ); err != nil {
		zap.L().Fatal("declare mq topology failed", zap.Error(err))
	}

	productRepo := mysql.NewProductRepository(db)
	productCache := redisstore.NewProductCache(redisClient, &cfg.Cache)
	productIndex := search.NewProductIndex(esClient, &cfg.Elasticsearch)
	publisher := messaging.NewPublisher(conn, &cfg.RabbitMQ)
	productSvc := service.NewProductService(productRepo, productCache, productIndex, publisher)

	seeds := []seed{
		{"MacBook Pro 14", "M3 芯片，16GB 内存，512GB 固态", "2890000", 10, "electronics"},
		{"iPhone 15 Pro", "256GB，钛金属蓝", "1550000", 15, "electronics"},
		{"AirPods Pro 2", "主动降噪，USB-C", "359000", 25, "electronics"},
		{"Nike Air Max", "运动鞋，270mm", "189000", 20, "shoes"},
		{"Adidas 训练套装", "上下装成套，L 码", "129000", 30, "clothing"},
		{"Galaxy Watch", "智能手表，黑色", "389000", 12, "electronics"},
		{"LG Gram 笔记本", "15.6 英寸，1.1kg 超轻", "1890000", 8, "electronics"},
		{"Sony WH-1000XM5", "无线头戴降噪耳机", "449000", 18, "electronics"},
		{"North Face 羽绒服", "鹅绒，冬季款", "459000", 15, "clothing"},
		{"New Balance 530", "复古跑鞋", "139000", 22, "shoes"},
	}

	ctx := context.Background()
	for _, s := range seeds {
		price, err := decimal.NewFromString(s.price)
		if err != nil {
			zap.L().Fatal("bad seed price", zap.String("name", s.name), zap.Error(err))
		}
		p := &product.Product{
			Name:        s.name,
			Description: s.description,
			Price:       price,
			Stock:       s.stock,
			Category:    s.category,
		}
		if _, err := productSvc.Create(ctx, p); err != nil {
			zap.L().Error("seed product failed", zap.String("name", s.name), zap.Error(err))
			continue
		}
		zap.L().Info("seeded product", zap.Int64("id", p.ID), zap.String("name", s.name))
	}
}
