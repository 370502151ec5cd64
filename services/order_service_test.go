package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/pkg/apperr"
)

var orderNumberRe = regexp.MustCompile(`^ORD\d{8}\d{3}$`)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newOrderServiceForTest() (*OrderService, *fakeOrderStore) {
	store := newFakeOrderStore()
	return NewOrderService(store, testLogger()), store
}

func validOrderInput() *CreateOrderInput {
	return &CreateOrderInput{
		Items: []OrderItemInput{{
			Product:  primitive.NewObjectID().Hex(),
			Name:     "Rose Lip Tint",
			Price:    250,
			Quantity: 2,
		}},
		TotalAmount: 500,
		DeliveryAddress: entity.DeliveryAddress{
			Street:  "1 Main St",
			City:    "Pune",
			State:   "MH",
			Pincode: "411001",
		},
		GuestInfo: &entity.GuestInfo{Name: "A", Phone: "999"},
	}
}

func TestOrderNumberFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		num := newOrderNumber(time.Now())
		require.Regexp(t, orderNumberRe, num)
	}
}

func TestCreateOrderGuest(t *testing.T) {
	svc, _ := newOrderServiceForTest()

	order, err := svc.Create(context.Background(), validOrderInput(), nil)
	require.NoError(t, err)

	require.Equal(t, entity.OrderPending, order.Status)
	require.Equal(t, entity.PaymentPending, order.PaymentStatus)
	require.Equal(t, entity.PaymentCOD, order.PaymentMethod)
	require.Regexp(t, orderNumberRe, order.OrderNumber)

	require.Nil(t, order.User)
	require.NotNil(t, order.GuestInfo)
	require.Len(t, order.TrackingUpdates, 1)
	require.Equal(t, "Order placed successfully", order.TrackingUpdates[0].Message)
}

func TestCreateOrderAuthenticated(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	uid := primitive.NewObjectID()

	in := validOrderInput()
	in.PaymentMethod = entity.PaymentOnline
	order, err := svc.Create(context.Background(), in, &uid)
	require.NoError(t, err)

	require.NotNil(t, order.User)
	require.Equal(t, uid, *order.User)
	// Exactly one of user/guestInfo is set even when the client sends both.
	require.Nil(t, order.GuestInfo)
	// Online payment still starts pending; capture is out of band.
	require.Equal(t, entity.PaymentPending, order.PaymentStatus)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(in *CreateOrderInput)
	}{
		{"empty items", func(in *CreateOrderInput) { in.Items = nil }},
		{"missing street", func(in *CreateOrderInput) { in.DeliveryAddress.Street = "" }},
		{"missing city", func(in *CreateOrderInput) { in.DeliveryAddress.City = "" }},
		{"zero quantity", func(in *CreateOrderInput) { in.Items[0].Quantity = 0 }},
		{"bad product id", func(in *CreateOrderInput) { in.Items[0].Product = "nope" }},
		{"guest without info", func(in *CreateOrderInput) { in.GuestInfo = nil }},
		{"guest without phone", func(in *CreateOrderInput) { in.GuestInfo.Phone = "" }},
		{"bad payment method", func(in *CreateOrderInput) { in.PaymentMethod = "cheque" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validOrderInput()
			tc.mutate(in)
			_, err := svc.Create(ctx, in, nil)
			require.Error(t, err)
			require.True(t, apperr.IsKind(err, apperr.KindValidation), "want validation error, got %v", err)
		})
	}
}

func TestCancelByCustomer(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	ctx := context.Background()
	uid := primitive.NewObjectID()

	in := validOrderInput()
	in.GuestInfo = nil
	order, err := svc.Create(ctx, in, &uid)
	require.NoError(t, err)

	cancelled, err := svc.CancelByCustomer(ctx, order.OrderNumber, uid)
	require.NoError(t, err)
	require.Equal(t, entity.OrderCancelled, cancelled.Status)
	require.Len(t, cancelled.TrackingUpdates, 2)
	require.Equal(t, "Order cancelled by customer", cancelled.TrackingUpdates[1].Message)
}

func TestCancelByCustomerForbiddenForStranger(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	in := validOrderInput()
	in.GuestInfo = nil
	order, err := svc.Create(ctx, in, &owner)
	require.NoError(t, err)

	_, err = svc.CancelByCustomer(ctx, order.OrderNumber, primitive.NewObjectID())
	require.True(t, apperr.IsKind(err, apperr.KindForbidden), "got %v", err)
}

func TestCancelUnknownOrder(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	_, err := svc.CancelByCustomer(context.Background(), "ORD00000000000", primitive.NewObjectID())
	require.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}

func TestCancelNonPendingOrder(t *testing.T) {
	svc, store := newOrderServiceForTest()
	ctx := context.Background()
	uid := primitive.NewObjectID()

	in := validOrderInput()
	in.GuestInfo = nil
	order, err := svc.Create(ctx, in, &uid)
	require.NoError(t, err)
	store.orders[order.OrderNumber].Status = entity.OrderShipped

	_, err = svc.CancelByCustomer(ctx, order.OrderNumber, uid)
	require.True(t, apperr.IsKind(err, apperr.KindInvalidState), "got %v", err)
	require.Contains(t, err.Error(), "shipped")

	// The loser leaves the order untouched.
	require.Equal(t, entity.OrderShipped, store.orders[order.OrderNumber].Status)
	require.Len(t, store.orders[order.OrderNumber].TrackingUpdates, 1)
}

func TestCancelByGuest(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	ctx := context.Background()

	order, err := svc.Create(ctx, validOrderInput(), nil)
	require.NoError(t, err)

	cancelled, err := svc.CancelByGuest(ctx, order.OrderNumber)
	require.NoError(t, err)
	require.Equal(t, entity.OrderCancelled, cancelled.Status)

	_, err = svc.CancelByGuest(ctx, order.OrderNumber)
	require.True(t, apperr.IsKind(err, apperr.KindInvalidState), "got %v", err)
}

func TestAutoCancelSweep(t *testing.T) {
	svc, store := newOrderServiceForTest()
	ctx := context.Background()

	stale, err := svc.Create(ctx, validOrderInput(), nil)
	require.NoError(t, err)
	fresh, err := svc.Create(ctx, validOrderInput(), nil)
	require.NoError(t, err)
	store.orders[stale.OrderNumber].CreatedAt = time.Now().Add(-25 * time.Hour)

	count, numbers, err := svc.AutoCancelSweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, []string{stale.OrderNumber}, numbers)

	got := store.orders[stale.OrderNumber]
	require.Equal(t, entity.OrderCancelled, got.Status)
	require.Equal(t, "Order auto-cancelled due to no confirmation within 24 hours",
		got.TrackingUpdates[len(got.TrackingUpdates)-1].Message)
	require.Equal(t, entity.OrderPending, store.orders[fresh.OrderNumber].Status)

	// Second run finds nothing left to cancel.
	count, numbers, err = svc.AutoCancelSweep(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
	require.Empty(t, numbers)
}

func TestAdminUpdateStatus(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	ctx := context.Background()

	order, err := svc.Create(ctx, validOrderInput(), nil)
	require.NoError(t, err)

	// Skipping a step is rejected and names the current status.
	_, err = svc.AdminUpdateStatus(ctx, order.OrderNumber, entity.OrderShipped, "")
	require.True(t, apperr.IsKind(err, apperr.KindInvalidState), "got %v", err)
	require.Contains(t, err.Error(), "pending")

	var updated *entity.Order
	for _, next := range []entity.OrderStatus{
		entity.OrderConfirmed, entity.OrderProcessing, entity.OrderShipped, entity.OrderDelivered,
	} {
		updated, err = svc.AdminUpdateStatus(ctx, order.OrderNumber, next, "")
		require.NoError(t, err)
		require.Equal(t, next, updated.Status)
	}

	// One seed entry plus one per progression step, in order.
	require.Len(t, updated.TrackingUpdates, 5)
	require.Equal(t, "Order delivered successfully", updated.TrackingUpdates[4].Message)
	// COD orders are settled on delivery.
	require.Equal(t, entity.PaymentPaid, updated.PaymentStatus)

	// delivered is terminal.
	_, err = svc.AdminUpdateStatus(ctx, order.OrderNumber, entity.OrderCancelled, "")
	require.True(t, apperr.IsKind(err, apperr.KindInvalidState), "got %v", err)
}

func TestListForUserReturnsOnlyOwnOrders(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	ctx := context.Background()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	in := validOrderInput()
	in.GuestInfo = nil
	_, err := svc.Create(ctx, in, &alice)
	require.NoError(t, err)
	in2 := validOrderInput()
	in2.GuestInfo = nil
	_, err = svc.Create(ctx, in2, &bob)
	require.NoError(t, err)

	orders, err := svc.ListForUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, alice, *orders[0].User)
}
