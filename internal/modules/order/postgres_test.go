package order_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/cart"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/catalog"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/order"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/database/dbtest"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/live"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/mail"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresOrderRepository(t *testing.T) {
	store := dbtest.Open(t, nil)
	ctx := context.Background()

	u := &user.User{Name: "Ana", Email: "ana@mail.cl", PasswordHash: "h", BirthDate: "01/01/1990", Role: user.RoleUser}
	require.NoError(t, user.NewPostgresRepository(store).Create(ctx, u))

	repo := order.NewPostgresRepository(store)
	remoteID := int64(901)
	o := &order.Order{
		Reference: uuid.New(),
		RemoteID:  &remoteID,
		UserID:    u.ID,
		Total:     7480,
		Items: []*order.OrderItem{
			{ProductID: 5, Name: "Lavaloza Quix", Quantity: 2, UnitPrice: 2990, LineTotal: 5980},
			{ProductID: 8, Name: "Esponja", Quantity: 1, UnitPrice: 1500, LineTotal: 1500},
		},
	}
	require.NoError(t, repo.CreateOrder(ctx, o))
	assert.NotZero(t, o.ID)
	assert.NotZero(t, o.Items[1].ID)

	got, found, err := repo.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, o.Reference, got.Reference)
	assert.Equal(t, int64(901), *got.RemoteID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Esponja", got.Items[1].Name)

	_, found, err = repo.GetOrder(ctx, o.ID+100)
	require.NoError(t, err)
	assert.False(t, found)

	orders, err := repo.ListOrdersByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestPostgresOrderAndCartClearShareTransaction(t *testing.T) {
	store := dbtest.Open(t, nil)
	ctx := context.Background()

	u := &user.User{Name: "Ana", Email: "ana@mail.cl", PasswordHash: "h", BirthDate: "01/01/1990", Role: user.RoleUser}
	require.NoError(t, user.NewPostgresRepository(store).Create(ctx, u))
	carts := cart.NewPostgresRepository(store)
	line, err := carts.Merge(ctx, &cart.CartItem{ProductID: 5, Name: "Lavaloza Quix", Price: 2990})
	require.NoError(t, err)

	orders := order.NewPostgresRepository(store)
	boom := errors.New("boom")
	err = store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := orders.CreateOrder(ctx, &order.Order{Reference: uuid.New(), UserID: u.ID, Total: 2990}); err != nil {
			return err
		}
		if _, err := carts.Deduct(ctx, line.ID, 1); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := carts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "cart survives a rolled back checkout")
	list, err := orders.ListOrdersByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// busyReceipts runs during while the receipt is being submitted.
type busyReceipts struct {
	during func()
}

func (b *busyReceipts) CreateBoleta(ctx context.Context, bol remote.Boleta) (*remote.Boleta, error) {
	b.during()
	id := int64(501)
	bol.ID = &id
	return &bol, nil
}

func (b *busyReceipts) GetBoleta(ctx context.Context, id int64) (*remote.Boleta, error) {
	return nil, &remote.StatusError{Op: "get boleta", Code: 404}
}

func TestPostgresCheckoutKeepsLinesAddedDuringSubmission(t *testing.T) {
	store := dbtest.Open(t, nil)
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	users := user.NewPostgresRepository(store)
	u := &user.User{Name: "Ana", Email: "ana@mail.cl", PasswordHash: "h", BirthDate: "01/01/1990", Role: user.RoleUser}
	require.NoError(t, users.Create(ctx, u))

	products := catalog.NewPostgresRepository(store)
	_, err := products.UpsertProducts(ctx, []*catalog.Product{
		{ID: 5, Name: "Lavaloza Quix", Price: 2990, Stock: 10, CategoryID: 1},
		{ID: 42, Name: "Cloro Gel", Price: 1990, Stock: 10, CategoryID: 1},
	})
	require.NoError(t, err)

	carts := cart.NewService(cart.NewPostgresRepository(store), products, store, live.NewHub(), time.Minute, logger)
	_, err = carts.AddToCart(ctx, 5)
	require.NoError(t, err)

	receipts := &busyReceipts{during: func() {
		_, err := carts.AddToCart(ctx, 42)
		require.NoError(t, err)
		_, err = carts.AddToCart(ctx, 5)
		require.NoError(t, err)
	}}
	svc := order.NewService(order.NewPostgresRepository(store), carts, users, receipts, store,
		mail.NewSender(mail.SMTPConfig{}, logger), logger)

	o, err := svc.Checkout(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(5), o.Items[0].ProductID)
	assert.Equal(t, 1, o.Items[0].Quantity)

	left, err := carts.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, left.Items, 2)
	assert.Equal(t, int64(42), left.Items[0].ProductID)
	assert.Equal(t, int64(5), left.Items[1].ProductID)
	assert.Equal(t, 1, left.Items[1].Quantity)
}
