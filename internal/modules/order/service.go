package order

import (
	"context"
	"fmt"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/cart"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/database"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/mail"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Cart is the part of the cart the checkout reads and settles.
type Cart interface {
	Summary(ctx context.Context) (*cart.Summary, error)
	RemoveOrdered(ctx context.Context, lines []*cart.CartItem) error
}

// UserLookup resolves the buyer.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, bool, error)
}

// ReceiptAPI is the remote receipt endpoint.
type ReceiptAPI interface {
	CreateBoleta(ctx context.Context, b remote.Boleta) (*remote.Boleta, error)
	GetBoleta(ctx context.Context, id int64) (*remote.Boleta, error)
}

// Service defines the checkout business logic.
type Service interface {
	// Checkout submits the cart as a receipt, stores the order and removes
	// the ordered lines from the cart. Lines added or grown while the receipt
	// is submitted keep their extra units. On any failure the cart is left as
	// it was.
	Checkout(ctx context.Context, userID int64) (*Order, error)

	// GetOrder retrieves a full order with its items.
	GetOrder(ctx context.Context, id int64) (*Order, error)

	// ListOrders returns all orders placed by a user.
	ListOrders(ctx context.Context, userID int64) ([]*Order, error)

	// GetRemoteReceipt fetches a receipt from the remote API.
	GetRemoteReceipt(ctx context.Context, remoteID int64) (*remote.Boleta, error)
}

type service struct {
	repo   Repository
	cart   Cart
	users  UserLookup
	remote ReceiptAPI
	tx     database.TxManager
	mailer mail.Sender
	log    *logrus.Logger
}

// NewService creates a new checkout service.
func NewService(repo Repository, c Cart, users UserLookup, rc ReceiptAPI, tx database.TxManager, mailer mail.Sender, logger *logrus.Logger) Service {
	return &service{repo: repo, cart: c, users: users, remote: rc, tx: tx, mailer: mailer, log: logger}
}

func (s *service) Checkout(ctx context.Context, userID int64) (*Order, error) {
	summary, err := s.cart.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(summary.Items) == 0 {
		return nil, ErrEmptyCart
	}
	u, found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user %d: %w", userID, err)
	}
	if !found {
		return nil, user.ErrUserNotFound
	}

	o := buildOrder(userID, summary.Items)

	// ── Submit receipt ────────────────────────────────────────────────────────
	boleta := remote.Boleta{Total: o.Total, UsuarioID: u.RemoteID}
	for _, item := range o.Items {
		boleta.Items = append(boleta.Items, remote.BoletaItem{
			ProductoID:     item.ProductID,
			Cantidad:       item.Quantity,
			PrecioUnitario: item.UnitPrice,
		})
	}
	created, err := s.remote.CreateBoleta(ctx, boleta)
	if err != nil {
		return nil, fmt.Errorf("submit receipt: %w", err)
	}
	o.RemoteID = created.ID

	// ── Persist order and settle cart ─────────────────────────────────────────
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateOrder(ctx, o); err != nil {
			return err
		}
		return s.cart.RemoveOrdered(ctx, summary.Items)
	})
	if err != nil {
		s.log.WithError(err).WithField("remote_id", o.RemoteID).Error("Checkout: receipt submitted but order not stored")
		return nil, fmt.Errorf("store order: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id":  o.ID,
		"user_id":   userID,
		"total":     o.Total,
		"remote_id": o.RemoteID,
	}).Info("Checkout: order placed")

	if err := s.mailer.Send(ctx, receiptMessage(u, o)); err != nil {
		s.log.WithError(err).WithField("order_id", o.ID).Warn("Checkout: receipt e-mail failed")
	}
	return o, nil
}

// buildOrder prices the cart lines in whole pesos.
func buildOrder(userID int64, lines []*cart.CartItem) *Order {
	o := &Order{Reference: uuid.New(), UserID: userID}
	total := decimal.Zero
	for _, line := range lines {
		unit := decimal.NewFromFloat(line.Price).Round(0)
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		o.Items = append(o.Items, &OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: unit.IntPart(),
			LineTotal: lineTotal.IntPart(),
		})
	}
	o.Total = total.IntPart()
	return o
}

func (s *service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	o, found, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, userID int64) ([]*Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID)
}

func (s *service) GetRemoteReceipt(ctx context.Context, remoteID int64) (*remote.Boleta, error) {
	return s.remote.GetBoleta(ctx, remoteID)
}
