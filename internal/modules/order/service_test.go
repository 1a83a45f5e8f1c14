package order

import (
	"context"
	"errors"
	"testing"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/cart"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      Service
	repo     *memoryRepo
	cart     *fakeCart
	receipts *stubReceipts
	outbox   *outbox
}

func newFixture(items ...*cart.CartItem) *fixture {
	remoteID := int64(77)
	f := &fixture{
		repo:     &memoryRepo{},
		cart:     &fakeCart{items: items},
		receipts: &stubReceipts{},
		outbox:   &outbox{},
	}
	users := userTable{1: {ID: 1, Name: "Ana <Pérez>", Email: "ana@mail.cl", RemoteID: &remoteID}}
	f.svc = NewService(f.repo, f.cart, users, f.receipts, directTx{}, f.outbox, quietLogger())
	return f
}

func sampleLines() []*cart.CartItem {
	return []*cart.CartItem{
		{ID: 2, ProductID: 5, Name: "Lavaloza Quix", Price: 2990, Quantity: 2},
		{ID: 1, ProductID: 8, Name: "Esponja", Price: 1499.5, Quantity: 1},
	}
}

func TestCheckoutPlacesOrder(t *testing.T) {
	f := newFixture(sampleLines()...)

	o, err := f.svc.Checkout(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(7480), o.Total)
	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(1500), o.Items[1].UnitPrice, "unit prices round to whole pesos")
	assert.Equal(t, int64(5980), o.Items[0].LineTotal)
	require.NotNil(t, o.RemoteID)
	assert.Equal(t, int64(901), *o.RemoteID)

	require.Len(t, f.receipts.submitted, 1)
	sent := f.receipts.submitted[0]
	assert.Equal(t, int64(7480), sent.Total)
	assert.Equal(t, int64(77), *sent.UsuarioID)
	assert.Equal(t, remote.BoletaItem{ProductoID: 5, Cantidad: 2, PrecioUnitario: 2990}, sent.Items[0])

	assert.Empty(t, f.cart.items, "ordered lines are removed")
	assert.Len(t, f.repo.orders, 1)

	require.Len(t, f.outbox.sent, 1)
	assert.Equal(t, "ana@mail.cl", f.outbox.sent[0].To)
	assert.Contains(t, f.outbox.sent[0].HTML, "$7.480")
	assert.Contains(t, f.outbox.sent[0].HTML, "Ana &lt;Pérez&gt;")
}

func TestCheckoutKeepsLinesAddedDuringSubmission(t *testing.T) {
	f := newFixture(sampleLines()...)
	f.receipts.during = func() {
		f.cart.add(&cart.CartItem{ID: 3, ProductID: 42, Name: "Cloro Gel", Price: 1990, Quantity: 1})
		f.cart.add(&cart.CartItem{ProductID: 5})
	}

	o, err := f.svc.Checkout(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	for _, item := range o.Items {
		assert.NotEqual(t, int64(42), item.ProductID)
	}

	require.Len(t, f.cart.items, 2)
	assert.Equal(t, int64(42), f.cart.items[0].ProductID)
	assert.Equal(t, 1, f.cart.items[0].Quantity)
	assert.Equal(t, int64(5), f.cart.items[1].ProductID)
	assert.Equal(t, 1, f.cart.items[1].Quantity, "unit added during submission stays")
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Checkout(context.Background(), 1)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.receipts.submitted)
}

func TestCheckoutRemoteFailureKeepsCart(t *testing.T) {
	f := newFixture(sampleLines()...)
	f.receipts.err = &remote.StatusError{Op: "create boleta", Code: 500}

	_, err := f.svc.Checkout(context.Background(), 1)
	var se *remote.StatusError
	require.ErrorAs(t, err, &se)
	assert.Len(t, f.cart.items, 2)
	assert.Empty(t, f.repo.orders)
	assert.Empty(t, f.outbox.sent)
}

func TestCheckoutStoreFailureKeepsCart(t *testing.T) {
	f := newFixture(sampleLines()...)
	f.repo.err = errBoom

	_, err := f.svc.Checkout(context.Background(), 1)
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, f.cart.items, 2)
}

func TestCheckoutMailFailureIsNotFatal(t *testing.T) {
	f := newFixture(sampleLines()...)
	f.outbox.err = errors.New("smtp down")

	_, err := f.svc.Checkout(context.Background(), 1)
	assert.NoError(t, err)
	assert.Empty(t, f.cart.items)
}

func TestCheckoutUnknownUser(t *testing.T) {
	f := newFixture(sampleLines()...)
	_, err := f.svc.Checkout(context.Background(), 42)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.Empty(t, f.receipts.submitted)
}

func TestGetAndListOrders(t *testing.T) {
	f := newFixture(sampleLines()...)
	ctx := context.Background()
	placed, err := f.svc.Checkout(ctx, 1)
	require.NoError(t, err)

	got, err := f.svc.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.Reference, got.Reference)

	_, err = f.svc.GetOrder(ctx, 99)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	orders, err := f.svc.ListOrders(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	b, err := f.svc.GetRemoteReceipt(ctx, *placed.RemoteID)
	require.NoError(t, err)
	assert.Equal(t, placed.Total, b.Total)
}

func TestPesos(t *testing.T) {
	assert.Equal(t, "$0", pesos(0))
	assert.Equal(t, "$990", pesos(990))
	assert.Equal(t, "$12.990", pesos(12990))
	assert.Equal(t, "$1.234.567", pesos(1234567))
	assert.Equal(t, "-$5.000", pesos(-5000))
}
