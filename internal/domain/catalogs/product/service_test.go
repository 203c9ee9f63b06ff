package product_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/infrastructure/storage/memory"
)

type usageStub struct {
	inUse bool
}

func (u *usageStub) ProductInUse(ctx context.Context, productID id.ID) (bool, error) {
	return u.inUse, nil
}

func newService(t *testing.T) (*product.Service, *memory.Store, *usageStub) {
	t.Helper()
	store := memory.NewStore()
	usage := &usageStub{}
	return product.NewService(store.Products(), usage, memory.NewTxManager(store)), store, usage
}

func TestCreate(t *testing.T) {
	svc, store, _ := newService(t)

	p := product.NewProduct("WID-001", "Widget", "kg")
	require.NoError(t, svc.Create(context.Background(), p))

	got, err := store.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "WID-001", got.Code)
	assert.Equal(t, "kg", got.Unit)
	assert.Equal(t, types.Quantity(0), got.Stock)
}

func TestCreate_DuplicateCode(t *testing.T) {
	svc, _, _ := newService(t)

	require.NoError(t, svc.Create(context.Background(), product.NewProduct("WID-001", "Widget", "")))

	err := svc.Create(context.Background(), product.NewProduct("WID-001", "Other widget", ""))
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestCreate_Invalid(t *testing.T) {
	svc, _, _ := newService(t)

	err := svc.Create(context.Background(), product.NewProduct("", "Widget", ""))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	p := product.NewProduct("WID-001", "Widget", "")
	p.MinStock = types.MustQuantity("-1")
	err = svc.Create(context.Background(), p)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestUpdate_PreservesStock(t *testing.T) {
	svc, store, _ := newService(t)

	p := product.NewProduct("WID-001", "Widget", "")
	require.NoError(t, svc.Create(context.Background(), p))
	require.NoError(t, store.Products().UpdateStock(context.Background(), p.ID, types.MustQuantity("12")))

	p.Name = "Widget v2"
	p.Stock = types.MustQuantity("999")
	require.NoError(t, svc.Update(context.Background(), p))

	got, err := store.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", got.Name)
	assert.Equal(t, types.MustQuantity("12"), got.Stock, "stock is owned by the ledger")
}

func TestUpdate_DuplicateCode(t *testing.T) {
	svc, _, _ := newService(t)

	require.NoError(t, svc.Create(context.Background(), product.NewProduct("WID-001", "Widget", "")))
	other := product.NewProduct("WID-002", "Gadget", "")
	require.NoError(t, svc.Create(context.Background(), other))

	other.Code = "WID-001"
	err := svc.Update(context.Background(), other)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestDelete(t *testing.T) {
	svc, store, _ := newService(t)

	p := product.NewProduct("WID-001", "Widget", "")
	require.NoError(t, svc.Create(context.Background(), p))
	require.NoError(t, svc.Delete(context.Background(), p.ID))

	_, err := store.Products().GetByID(context.Background(), p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_BlockedWhileInUse(t *testing.T) {
	svc, store, usage := newService(t)

	p := product.NewProduct("WID-001", "Widget", "")
	require.NoError(t, svc.Create(context.Background(), p))

	usage.inUse = true
	err := svc.Delete(context.Background(), p.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeReferencedEntity))

	_, err = store.Products().GetByID(context.Background(), p.ID)
	assert.NoError(t, err)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _ := newService(t)

	err := svc.Delete(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
