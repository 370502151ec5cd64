package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/designxpo/PoonamCosmetics-sub001/configs"
	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/pkg/apperr"
)

type OrderFilter struct {
	Status *entity.OrderStatus
	Page   int
	Limit  int
}

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(configs.OrdersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	res, err := r.col.InsertOne(ctx, o)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Duplicate("order number %s already exists", o.OrderNumber)
		}
		return apperr.Internal(err, "failed to create order")
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *OrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	var o entity.Order
	err := r.col.FindOne(ctx, bson.M{"orderNumber": orderNumber}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("order %s not found", orderNumber)
		}
		return nil, apperr.Internal(err, "failed to fetch order")
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list orders")
	}
	orders := []entity.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, apperr.Internal(err, "failed to decode orders")
	}
	return orders, nil
}

func (r *OrderRepository) List(ctx context.Context, f OrderFilter) ([]entity.Order, int64, error) {
	filter := bson.M{}
	if f.Status != nil {
		filter["status"] = *f.Status
	}
	page, limit := f.Page, f.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to count orders")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list orders")
	}
	orders := []entity.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, apperr.Internal(err, "failed to decode orders")
	}
	return orders, total, nil
}

// TransitionStatus applies from→to on a single order as one conditional
// update. The status filter makes concurrent transitions race-safe: the
// first writer wins and the loser gets no match. A NotFound return means
// either the order does not exist or it is no longer in the from state;
// callers that need to tell the two apart re-fetch by order number.
func (r *OrderRepository) TransitionStatus(ctx context.Context, orderNumber string, from, to entity.OrderStatus, tracking entity.TrackingUpdate, paymentStatus *entity.PaymentStatus) (*entity.Order, error) {
	set := bson.M{"status": to, "updatedAt": tracking.Timestamp}
	if paymentStatus != nil {
		set["paymentStatus"] = *paymentStatus
	}

	res := r.col.FindOneAndUpdate(ctx,
		bson.M{"orderNumber": orderNumber, "status": from},
		bson.M{"$set": set, "$push": bson.M{"trackingUpdates": tracking}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var o entity.Order
	if err := res.Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("order %s not found in %s state", orderNumber, from)
		}
		return nil, apperr.Internal(err, "failed to update order status")
	}
	return &o, nil
}

func (r *OrderRepository) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]entity.Order, error) {
	cur, err := r.col.Find(ctx, bson.M{
		"status":    entity.OrderPending,
		"createdAt": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to query stale orders")
	}
	orders := []entity.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, apperr.Internal(err, "failed to decode stale orders")
	}
	return orders, nil
}

// HasDeliveredProduct reports whether the user has a delivered order
// containing the product. Feeds the verified-purchase flag on reviews.
func (r *OrderRepository) HasDeliveredProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{
		"user":          userID,
		"status":        entity.OrderDelivered,
		"items.product": productID,
	})
	if err != nil {
		return false, apperr.Internal(err, "failed to check purchase history")
	}
	return count > 0, nil
}
