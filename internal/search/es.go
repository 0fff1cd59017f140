package search

import (
	"log"
	"sync"

	elastic "github.com/olivere/elastic/v7"

	"github.com/bboodd/mini-shop/internal/config"
)

var (
	client *elastic.Client
	once   sync.Once
)

// Init 初始化 Elasticsearch 客户端
func Init(cfg *config.ElasticsearchConfig) *elastic.Client {
	once.Do(func() {
		c, err := elastic.NewClient(
			elastic.SetURL(cfg.URL),
			elastic.SetSniff(false),
		)
		if err != nil {
			log.Fatalf("failed to connect elasticsearch: %v", err)
		}
		client = c
	})
	return client
}

// Client 获取 ES 客户端
func Client() *elastic.Client {
	return client
}
