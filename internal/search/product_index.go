package search

import (
	"context"
	"encoding/json"
	"strconv"

	elastic "github.com/olivere/elastic/v7"

	"github.com/bboodd/mini-shop/internal/config"
	"github.com/bboodd/mini-shop/internal/datamodels/product"
)

// ProductIndex 商品搜索索引：按 id 写入去范式化文档，支持名称+描述全文检索
type ProductIndex struct {
	es    *elastic.Client
	index string
}

// NewProductIndex 创建商品索引访问器
func NewProductIndex(es *elastic.Client, cfg *config.ElasticsearchConfig) *ProductIndex {
	return &ProductIndex{es: es, index: cfg.Index}
}

// DocumentFrom 由商品实体构造索引文档
func DocumentFrom(p *product.Product) *product.Document {
	return &product.Document{
		ID:          strconv.FormatInt(p.ID, 10),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
	}
}

// Upsert 写入或覆盖文档
func (i *ProductIndex) Upsert(ctx context.Context, doc *product.Document) error {
	_, err := i.es.Index().
		Index(i.index).
		Id(doc.ID).
		BodyJson(doc).
		Do(ctx)
	return err
}

// Delete 删除文档，文档不存在视为成功
func (i *ProductIndex) Delete(ctx context.Context, productID int64) error {
	_, err := i.es.Delete().
		Index(i.index).
		Id(strconv.FormatInt(productID, 10)).
		Do(ctx)
	if elastic.IsNotFound(err) {
		return nil
	}
	return err
}

// Search 按关键字对名称与描述做全文检索
func (i *ProductIndex) Search(ctx context.Context, keyword string) ([]*product.Document, error) {
	query := elastic.NewMultiMatchQuery(keyword, "name", "description")
	res, err := i.es.Search().
		Index(i.index).
		Query(query).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]*product.Document, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc product.Document
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}
