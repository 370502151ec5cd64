package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/pkg/apperr"
)

const (
	msgCancelledByCustomer = "Order cancelled by customer"
	msgAutoCancelled       = "Order auto-cancelled due to no confirmation within 24 hours"
)

var adminTrackingMessages = map[entity.OrderStatus]string{
	entity.OrderConfirmed:  "Order confirmed",
	entity.OrderProcessing: "Order is being processed",
	entity.OrderShipped:    "Order has been shipped",
	entity.OrderDelivered:  "Order delivered successfully",
	entity.OrderCancelled:  "Order cancelled by admin",
}

// cancelPending applies pending→cancelled through the store's
// conditional update. When the update matches nothing the order is
// re-fetched to tell "gone" apart from "already past pending" — the
// latter is how the loser of a cancel/sweep race learns it lost.
func (s *OrderService) cancelPending(ctx context.Context, orderNumber, message string) (*entity.Order, error) {
	tracking := entity.TrackingUpdate{
		Status:    entity.OrderCancelled,
		Message:   message,
		Timestamp: s.now(),
	}
	order, err := s.store.TransitionStatus(ctx, orderNumber, entity.OrderPending, entity.OrderCancelled, tracking, nil)
	if err == nil {
		return order, nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	current, ferr := s.store.FindByNumber(ctx, orderNumber)
	if ferr != nil {
		return nil, ferr
	}
	return nil, apperr.InvalidState("order cannot be cancelled in %s status", current.Status)
}

// CancelByCustomer cancels the caller's own pending order.
func (s *OrderService) CancelByCustomer(ctx context.Context, orderNumber string, userID primitive.ObjectID) (*entity.Order, error) {
	order, err := s.store.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(userID) {
		return nil, apperr.Forbidden("you are not allowed to cancel this order")
	}
	if order.Status != entity.OrderPending {
		return nil, apperr.InvalidState("order cannot be cancelled in %s status", order.Status)
	}
	cancelled, err := s.cancelPending(ctx, orderNumber, msgCancelledByCustomer)
	if err != nil {
		return nil, err
	}
	s.log.WithField("orderNumber", orderNumber).Info("order cancelled by customer")
	return cancelled, nil
}

// CancelByGuest cancels a pending order identified only by its order
// number. Possession of the number is the sole credential here: guest
// orders carry no recoverable identity, so there is nothing stronger to
// check against. Keep the endpoint unlinkable (numbers are never
// enumerable in any listing) rather than pretending this is auth.
func (s *OrderService) CancelByGuest(ctx context.Context, orderNumber string) (*entity.Order, error) {
	order, err := s.store.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderPending {
		return nil, apperr.InvalidState("order cannot be cancelled in %s status", order.Status)
	}
	cancelled, err := s.cancelPending(ctx, orderNumber, msgCancelledByCustomer)
	if err != nil {
		return nil, err
	}
	s.log.WithField("orderNumber", orderNumber).Info("order cancelled by guest")
	return cancelled, nil
}

// AutoCancelSweep cancels every order that has sat in pending for more
// than the window. Each order is processed independently so one bad
// record cannot abort the batch; a concurrent customer cancellation
// simply wins the conditional update and the sweep skips that order.
func (s *OrderService) AutoCancelSweep(ctx context.Context) (int, []string, error) {
	cutoff := s.now().Add(-autoCancelWindow)
	stale, err := s.store.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, nil, err
	}

	cancelled := []string{}
	for _, order := range stale {
		if _, err := s.cancelPending(ctx, order.OrderNumber, msgAutoCancelled); err != nil {
			s.log.WithFields(logrus.Fields{
				"orderNumber": order.OrderNumber,
				"error":       err.Error(),
			}).Warn("auto-cancel skipped order")
			continue
		}
		cancelled = append(cancelled, order.OrderNumber)
	}

	s.log.WithField("count", len(cancelled)).Info("auto-cancel sweep finished")
	return len(cancelled), cancelled, nil
}

// AdminUpdateStatus moves an order one step along the status machine and
// appends the matching tracking entry. COD orders are marked paid on
// delivery; online capture stays out of band.
func (s *OrderService) AdminUpdateStatus(ctx context.Context, orderNumber string, next entity.OrderStatus, message string) (*entity.Order, error) {
	if !next.Valid() {
		return nil, apperr.Validation("unknown order status %q", next)
	}
	order, err := s.store.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, apperr.InvalidState("cannot move order from %s to %s", order.Status, next)
	}

	if message == "" {
		message = adminTrackingMessages[next]
	}
	tracking := entity.TrackingUpdate{Status: next, Message: message, Timestamp: s.now()}

	var paymentStatus *entity.PaymentStatus
	if next == entity.OrderDelivered && order.PaymentMethod == entity.PaymentCOD {
		paid := entity.PaymentPaid
		paymentStatus = &paid
	}

	updated, err := s.store.TransitionStatus(ctx, orderNumber, order.Status, next, tracking, paymentStatus)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			current, ferr := s.store.FindByNumber(ctx, orderNumber)
			if ferr != nil {
				return nil, ferr
			}
			return nil, apperr.InvalidState("cannot move order from %s to %s", current.Status, next)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"orderNumber": orderNumber,
		"status":      next,
	}).Info("order status updated")
	return updated, nil
}
