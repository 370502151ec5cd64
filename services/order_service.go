package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/pkg/apperr"
	"github.com/designxpo/PoonamCosmetics-sub001/repository"
)

// autoCancelWindow is how long an order may sit in pending before the
// sweep cancels it.
const autoCancelWindow = 24 * time.Hour

// OrderStore is the storage surface the order lifecycle depends on.
// Implementations must translate storage failures into apperr kinds and
// apply TransitionStatus as a single conditional update.
type OrderStore interface {
	Create(ctx context.Context, o *entity.Order) error
	FindByNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Order, error)
	List(ctx context.Context, f repository.OrderFilter) ([]entity.Order, int64, error)
	TransitionStatus(ctx context.Context, orderNumber string, from, to entity.OrderStatus, tracking entity.TrackingUpdate, paymentStatus *entity.PaymentStatus) (*entity.Order, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]entity.Order, error)
	HasDeliveredProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
}

type OrderService struct {
	store OrderStore
	log   *logrus.Logger
	now   func() time.Time
}

func NewOrderService(store OrderStore, logger *logrus.Logger) *OrderService {
	return &OrderService{store: store, log: logger, now: time.Now}
}

// newOrderNumber builds the human-readable identifier: ORD + the last
// eight digits of the creation time in milliseconds + three random
// digits to break same-millisecond collisions.
func newOrderNumber(t time.Time) string {
	return fmt.Sprintf("ORD%08d%03d", t.UnixMilli()%100_000_000, rand.Intn(1000))
}

// ----- DTOs from Controller -----

type OrderItemInput struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

type CreateOrderInput struct {
	Items           []OrderItemInput       `json:"items"`
	TotalAmount     float64                `json:"totalAmount"`
	DeliveryAddress entity.DeliveryAddress `json:"deliveryAddress"`
	DeliveryCharge  float64                `json:"deliveryCharge"`
	PaymentMethod   entity.PaymentMethod   `json:"paymentMethod"`
	Notes           string                 `json:"notes"`
	GuestInfo       *entity.GuestInfo      `json:"guestInfo"`
}

// Create builds a pending order holding item snapshots and the seed
// tracking entry. userID is nil for guest checkout, in which case
// GuestInfo is required; an authenticated order never keeps GuestInfo,
// so exactly one of the two is set.
func (s *OrderService) Create(ctx context.Context, in *CreateOrderInput, userID *primitive.ObjectID) (*entity.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	if in.DeliveryAddress.Street == "" || in.DeliveryAddress.City == "" {
		return nil, apperr.Validation("delivery address street and city are required")
	}

	method := in.PaymentMethod
	if method == "" {
		method = entity.PaymentCOD
	}
	if !method.Valid() {
		return nil, apperr.Validation("unsupported payment method %q", method)
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity < 1 {
			return nil, apperr.Validation("item %d has invalid quantity", i+1)
		}
		pid, err := primitive.ObjectIDFromHex(it.Product)
		if err != nil {
			return nil, apperr.Validation("item %d has invalid product id", i+1)
		}
		items = append(items, entity.OrderItem{
			Product:  pid,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Image:    it.Image,
		})
	}

	var guest *entity.GuestInfo
	if userID == nil {
		if in.GuestInfo == nil || in.GuestInfo.Name == "" || in.GuestInfo.Phone == "" {
			return nil, apperr.Validation("guest orders require guest name and phone")
		}
		guest = in.GuestInfo
	}

	now := s.now()
	order := &entity.Order{
		OrderNumber:     newOrderNumber(now),
		User:            userID,
		GuestInfo:       guest,
		Items:           items,
		TotalAmount:     in.TotalAmount,
		DeliveryAddress: in.DeliveryAddress,
		DeliveryCharge:  in.DeliveryCharge,
		PaymentMethod:   method,
		// Payment capture is out of band; online orders also start pending.
		PaymentStatus: entity.PaymentPending,
		Status:        entity.OrderPending,
		Notes:         in.Notes,
		TrackingUpdates: []entity.TrackingUpdate{{
			Status:    entity.OrderPending,
			Message:   "Order placed successfully",
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The order number carries a random suffix, so a unique-index clash
	// is rare; regenerate and retry a couple of times before giving up.
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = s.store.Create(ctx, order)
		if !apperr.IsKind(err, apperr.KindDuplicate) {
			break
		}
		order.OrderNumber = newOrderNumber(s.now())
	}
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"orderNumber": order.OrderNumber,
		"guest":       guest != nil,
		"items":       len(order.Items),
	}).Info("order created")
	return order, nil
}

func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	return s.store.FindByNumber(ctx, orderNumber)
}

// ListForUser returns only the caller's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Order, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context, f repository.OrderFilter) ([]entity.Order, int64, error) {
	return s.store.List(ctx, f)
}
