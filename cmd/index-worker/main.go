package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/bboodd/mini-shop/internal/config"
	"github.com/bboodd/mini-shop/internal/errs"
	"github.com/bboodd/mini-shop/internal/infra/mq"
	"github.com/bboodd/mini-shop/internal/logger"
	"github.com/bboodd/mini-shop/internal/messaging"
	"github.com/bboodd/mini-shop/internal/repository/mysql"
	"github.com/bboodd/mini-shop/internal/search"
	"github.com/bboodd/mini-shop/internal/service"
)

// 搜索索引 worker：消费 elasticsearch.queue，
// 回源 MySQL 取最新商品写入/删除 Elasticsearch 文档。
func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径")
		debug      = flag.Bool("debug", false, "开发模式日志")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	l, err := logger.Init(*debug)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer l.Sync()

	db := mysql.Init(&cfg.MySQL)
	esClient := search.Init(&cfg.Elasticsearch)
	conn := mq.Init(&cfg.RabbitMQ)
	if err := messaging.DeclareTopology(conn, &cfg.RabbitMQ); err != nil {
		zap.L().Fatal("declare mq topology failed", zap.Error(err))
	}

	productRepo := mysql.NewProductRepository(db)
	productIndex := search.NewProductIndex(esClient, &cfg.Elasticsearch)

	handler := func(ctx context.Context, d amqp.Delivery) error {
		var event messaging.SearchIndexEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			service.GetMonitor().RecordConsumeError()
			return fmt.Errorf("invalid SearchIndexEvent: %w", err)
		}

		switch event.Operation {
		case messaging.IndexCreate, messaging.IndexUpdate:
			p, err := productRepo.GetByID(ctx, event.ProductID)
			if err != nil {
				// 商品已经没了就顺手清索引，不进 DLQ
				if errors.Is(err, errs.ErrNotFound) {
					return productIndex.Delete(ctx, event.ProductID)
				}
				service.GetMonitor().RecordConsumeError()
				return err
			}
			if err := productIndex.Upsert(ctx, search.DocumentFrom(p)); err != nil {
				service.GetMonitor().RecordConsumeError()
				return err
			}
		case messaging.IndexDelete:
			if err := productIndex.Delete(ctx, event.ProductID); err != nil {
				service.GetMonitor().RecordConsumeError()
				return err
			}
		default:
			zap.L().Warn("unknown index operation",
				zap.String("operation", string(event.Operation)),
				zap.Int64("product_id", event.ProductID))
			return nil
		}

		zap.L().Info("search index synced",
			zap.Int64("product_id", event.ProductID),
			zap.String("operation", string(event.Operation)))
		service.GetMonitor().RecordConsumeProcessed()
		return nil
	}

	if err := messaging.Consume(context.Background(), conn, &cfg.Worker, cfg.RabbitMQ.SearchQueue, handler); err != nil {
		zap.L().Fatal("search index consumer stopped", zap.Error(err))
	}
}
