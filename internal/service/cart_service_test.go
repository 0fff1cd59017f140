package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bboodd/mini-shop/internal/datamodels/product"
	"github.com/bboodd/mini-shop/internal/errs"
	"github.com/bboodd/mini-shop/internal/service"
)

func newCartFixture(t *testing.T, products ...*product.Product) (*service.CartService, *fakeProductRepo, *fakeCartStore) {
	t.Helper()
	service.GetMonitor().Reset()
	repo := newFakeProductRepo(products...)
	store := newFakeCartStore()
	return service.NewCartService(store, repo), repo, store
}

func TestCartAddSnapshotsLine(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCartFixture(t,
		&product.Product{ID: 1, Name: "键盘", Price: price("1000"), Stock: 5},
	)

	require.NoError(t, svc.Add(ctx, "u1", 1, 2))

	// 加购后改名改价，快照行不受影响
	p, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	p.Name = "机械键盘"
	p.Price = price("1200")
	require.NoError(t, repo.Update(ctx, p))

	lines, err := svc.Lines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "键盘", lines[0].ProductName)
	assert.True(t, lines[0].Price.Equal(price("1000")))
	assert.True(t, lines[0].Subtotal().Equal(price("2000")))
}

func TestCartAddValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCartFixture(t,
		&product.Product{ID: 1, Name: "键盘", Price: price("1000"), Stock: 3},
	)

	err := svc.Add(ctx, "u1", 1, 0)
	require.ErrorIs(t, err, errs.ErrInvalidCartItem)

	err = svc.Add(ctx, "u1", 1, -2)
	require.ErrorIs(t, err, errs.ErrInvalidCartItem)

	err = svc.Add(ctx, "u1", 1, 4)
	require.ErrorIs(t, err, errs.ErrInsufficientStock)

	err = svc.Add(ctx, "u1", 42, 1)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCartAddOverwritesSameProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCartFixture(t,
		&product.Product{ID: 1, Name: "键盘", Price: price("1000"), Stock: 5},
	)

	require.NoError(t, svc.Add(ctx, "u1", 1, 1))
	require.NoError(t, svc.Add(ctx, "u1", 1, 3))

	lines, err := svc.Lines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Quantity)
}

func TestCartUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCartFixture(t,
		&product.Product{ID: 1, Name: "键盘", Price: price("1000"), Stock: 5},
	)
	require.NoError(t, svc.Add(ctx, "u1", 1, 1))

	require.NoError(t, svc.UpdateQuantity(ctx, "u1", 1, 4))
	lines, err := svc.Lines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(4), lines[0].Quantity)
	assert.True(t, lines[0].Price.Equal(price("1000")))

	// 不存在的行不能改数量
	err = svc.UpdateQuantity(ctx, "u1", 42, 1)
	require.ErrorIs(t, err, errs.ErrNotFound)

	// 超出现货
	err = svc.UpdateQuantity(ctx, "u1", 1, 6)
	require.ErrorIs(t, err, errs.ErrInsufficientStock)

	err = svc.UpdateQuantity(ctx, "u1", 1, 0)
	require.ErrorIs(t, err, errs.ErrInvalidCartItem)
}

func TestCartRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCartFixture(t,
		&product.Product{ID: 1, Name: "键盘", Price: price("1000"), Stock: 5},
		&product.Product{ID: 2, Name: "鼠标", Price: price("500"), Stock: 5},
	)
	require.NoError(t, svc.Add(ctx, "u1", 1, 1))
	require.NoError(t, svc.Add(ctx, "u1", 2, 1))

	require.NoError(t, svc.Remove(ctx, "u1", 1))
	lines, err := svc.Lines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)

	require.NoError(t, svc.Clear(ctx, "u1"))
	lines, err = svc.Lines(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}
