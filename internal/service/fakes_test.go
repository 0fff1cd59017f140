package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/bboodd/mini-shop/internal/datamodels/cart"
	"github.com/bboodd/mini-shop/internal/datamodels/order"
	"github.com/bboodd/mini-shop/internal/datamodels/product"
	"github.com/bboodd/mini-shop/internal/errs"
	"github.com/bboodd/mini-shop/internal/messaging"
)

// ---- 商品仓储 ----

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]*product.Product
	nextID   int64
}

func newFakeProductRepo(ps ...*product.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[int64]*product.Product)}
	for _, p := range ps {
		cp := *p
		r.products[p.ID] = &cp
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("商品 %d: %w", id, errs.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) ListAll(ctx context.Context) ([]*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*product.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		list = append(list, &cp)
	}
	return list, nil
}

func (r *fakeProductRepo) ListByCategory(ctx context.Context, category string) ([]*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*product.Product
	for _, p := range r.products {
		if p.Category == category {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return fmt.Errorf("商品 %d: %w", p.ID, errs.ErrNotFound)
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("商品 %d: %w", id, errs.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) AdjustStock(ctx context.Context, id, delta int64) (*product.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, 0, fmt.Errorf("商品 %d: %w", id, errs.ErrNotFound)
	}
	prev := p.Stock
	if p.Stock+delta < 0 {
		return nil, 0, fmt.Errorf("商品 %d 需要 %d 件: %w", id, -delta, errs.ErrInsufficientStock)
	}
	p.Stock += delta
	cp := *p
	return &cp, prev, nil
}

func (r *fakeProductRepo) stockOf(id int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

// ---- 订单仓储 ----

type fakeOrderRepo struct {
	mu      sync.Mutex
	orders  map[int64]*order.Order
	nextID  int64
	failing error // Create 的注入错误
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*order.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing != nil {
		return r.failing
	}
	r.nextID++
	o.ID = r.nextID
	for i := range o.Lines {
		o.Lines[i].ID = int64(i + 1)
		o.Lines[i].OrderID = o.ID
	}
	cp := *o
	cp.Lines = append([]order.Line(nil), o.Lines...)
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("订单 %d: %w", id, errs.ErrNotFound)
	}
	cp := *o
	cp.Lines = append([]order.Line(nil), o.Lines...)
	return &cp, nil
}

func (r *fakeOrderRepo) ListAll(ctx context.Context) ([]*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		cp := *o
		list = append(list, &cp)
	}
	return list, nil
}

func (r *fakeOrderRepo) ListByCustomerEmail(ctx context.Context, email string) ([]*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*order.Order
	for _, o := range r.orders {
		if o.CustomerEmail == email {
			cp := *o
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeOrderRepo) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*order.Order
	for _, o := range r.orders {
		if o.Status == status {
			cp := *o
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("订单 %d: %w", id, errs.ErrNotFound)
	}
	o.Status = status
	return nil
}

// ---- 购物车存储 ----

type fakeCartStore struct {
	mu    sync.Mutex
	carts map[string]map[int64]*cart.Line
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]map[int64]*cart.Line)}
}

func (s *fakeCartStore) Put(ctx context.Context, userID string, line *cart.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.carts[userID] == nil {
		s.carts[userID] = make(map[int64]*cart.Line)
	}
	cp := *line
	s.carts[userID][line.ProductID] = &cp
	return nil
}

func (s *fakeCartStore) Get(ctx context.Context, userID string, productID int64) (*cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.carts[userID][productID]
	if !ok {
		return nil, fmt.Errorf("购物车行 product=%d: %w", productID, errs.ErrNotFound)
	}
	cp := *line
	return &cp, nil
}

func (s *fakeCartStore) Lines(ctx context.Context, userID string) ([]*cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]*cart.Line, 0, len(s.carts[userID]))
	for _, line := range s.carts[userID] {
		cp := *line
		lines = append(lines, &cp)
	}
	return lines, nil
}

func (s *fakeCartStore) Remove(ctx context.Context, userID string, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts[userID], productID)
	return nil
}

func (s *fakeCartStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

// ---- 列表缓存 ----

type fakeProductCache struct {
	mu     sync.Mutex
	list   []*product.Product
	sets   int
	evicts int
}

func (c *fakeProductCache) GetList(ctx context.Context) ([]*product.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list, nil
}

func (c *fakeProductCache) SetList(ctx context.Context, list []*product.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = list
	c.sets++
	return nil
}

func (c *fakeProductCache) Evict(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = nil
	c.evicts++
	return nil
}

// ---- 搜索 ----

type fakeSearcher struct {
	docs []*product.Document
}

func (s *fakeSearcher) Search(ctx context.Context, keyword string) ([]*product.Document, error) {
	return s.docs, nil
}

// ---- 事件发布 ----

type fakePublisher struct {
	mu sync.Mutex

	orderCreated  []*messaging.OrderCreatedEvent
	stockUpdated  []*messaging.StockUpdatedEvent
	notifications []*messaging.NotificationEvent
	searchIndex   []*messaging.SearchIndexEvent

	failOrderCreated error
	failStock        error
	failNotification error
	failSearch       error
}

func (p *fakePublisher) PublishOrderCreated(ctx context.Context, event *messaging.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failOrderCreated != nil {
		return p.failOrderCreated
	}
	p.orderCreated = append(p.orderCreated, event)
	return nil
}

func (p *fakePublisher) PublishStockUpdated(ctx context.Context, event *messaging.StockUpdatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failStock != nil {
		return p.failStock
	}
	p.stockUpdated = append(p.stockUpdated, event)
	return nil
}

func (p *fakePublisher) PublishNotification(ctx context.Context, event *messaging.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNotification != nil {
		return p.failNotification
	}
	p.notifications = append(p.notifications, event)
	return nil
}

func (p *fakePublisher) PublishSearchIndex(ctx context.Context, event *messaging.SearchIndexEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSearch != nil {
		return p.failSearch
	}
	p.searchIndex = append(p.searchIndex, event)
	return nil
}

func (p *fakePublisher) stockOps() []messaging.StockOp {
	p.mu.Lock()
	defer p.mu.Unlock()
	ops := make([]messaging.StockOp, 0, len(p.stockUpdated))
	for _, e := range p.stockUpdated {
		ops = append(ops, e.Operation)
	}
	return ops
}
