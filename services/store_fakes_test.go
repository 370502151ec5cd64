package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/pkg/apperr"
	"github.com/designxpo/PoonamCosmetics-sub001/repository"
)

// In-memory stores mirroring the repository semantics, including the
// conditional status update and the unique-index duplicate errors.

type fakeOrderStore struct {
	orders    map[string]*entity.Order
	delivered map[string]bool
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders:    map[string]*entity.Order{},
		delivered: map[string]bool{},
	}
}

func (f *fakeOrderStore) Create(_ context.Context, o *entity.Order) error {
	if _, exists := f.orders[o.OrderNumber]; exists {
		return apperr.Duplicate("order number %s already exists", o.OrderNumber)
	}
	o.ID = primitive.NewObjectID()
	clone := *o
	f.orders[o.OrderNumber] = &clone
	return nil
}

func (f *fakeOrderStore) FindByNumber(_ context.Context, orderNumber string) (*entity.Order, error) {
	o, ok := f.orders[orderNumber]
	if !ok {
		return nil, apperr.NotFound("order %s not found", orderNumber)
	}
	clone := *o
	return &clone, nil
}

func (f *fakeOrderStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]entity.Order, error) {
	out := []entity.Order{}
	for _, o := range f.orders {
		if o.OwnedBy(userID) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrderStore) List(_ context.Context, filter repository.OrderFilter) ([]entity.Order, int64, error) {
	out := []entity.Order{}
	for _, o := range f.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (f *fakeOrderStore) TransitionStatus(_ context.Context, orderNumber string, from, to entity.OrderStatus, tracking entity.TrackingUpdate, paymentStatus *entity.PaymentStatus) (*entity.Order, error) {
	o, ok := f.orders[orderNumber]
	if !ok || o.Status != from {
		return nil, apperr.NotFound("order %s not found in %s state", orderNumber, from)
	}
	o.Status = to
	o.UpdatedAt = tracking.Timestamp
	o.TrackingUpdates = append(o.TrackingUpdates, tracking)
	if paymentStatus != nil {
		o.PaymentStatus = *paymentStatus
	}
	clone := *o
	return &clone, nil
}

func (f *fakeOrderStore) FindPendingBefore(_ context.Context, cutoff time.Time) ([]entity.Order, error) {
	out := []entity.Order{}
	for _, o := range f.orders {
		if o.Status == entity.OrderPending && o.CreatedAt.Before(cutoff) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) HasDeliveredProduct(_ context.Context, userID, productID primitive.ObjectID) (bool, error) {
	return f.delivered[userID.Hex()+"|"+productID.Hex()], nil
}

type fakeReviewStore struct {
	reviews map[primitive.ObjectID]*entity.Review
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: map[primitive.ObjectID]*entity.Review{}}
}

func (f *fakeReviewStore) Create(_ context.Context, rev *entity.Review) error {
	for _, existing := range f.reviews {
		if existing.Product == rev.Product && existing.User == rev.User {
			return apperr.Duplicate("you have already reviewed this product")
		}
	}
	rev.ID = primitive.NewObjectID()
	clone := *rev
	f.reviews[rev.ID] = &clone
	return nil
}

func (f *fakeReviewStore) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Review, error) {
	rev, ok := f.reviews[id]
	if !ok {
		return nil, apperr.NotFound("review not found")
	}
	clone := *rev
	return &clone, nil
}

func (f *fakeReviewStore) FindByProductAndUser(_ context.Context, productID, userID primitive.ObjectID) (*entity.Review, error) {
	for _, rev := range f.reviews {
		if rev.Product == productID && rev.User == userID {
			clone := *rev
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("review not found")
}

func (f *fakeReviewStore) Update(_ context.Context, id primitive.ObjectID, patch repository.ReviewPatch) (*entity.Review, error) {
	rev, ok := f.reviews[id]
	if !ok {
		return nil, apperr.NotFound("review not found")
	}
	if patch.Rating != nil {
		rev.Rating = *patch.Rating
	}
	if patch.Title != nil {
		rev.Title = *patch.Title
	}
	if patch.Comment != nil {
		rev.Comment = *patch.Comment
	}
	if patch.Images != nil {
		rev.Images = *patch.Images
	}
	if patch.Status != nil {
		rev.Status = *patch.Status
	}
	if patch.AdminResponse != nil {
		resp := *patch.AdminResponse
		rev.AdminResponse = &resp
	}
	rev.UpdatedAt = time.Now()
	clone := *rev
	return &clone, nil
}

func (f *fakeReviewStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.reviews[id]; !ok {
		return apperr.NotFound("review not found")
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewStore) ToggleHelpful(_ context.Context, id, userID primitive.ObjectID) (*entity.Review, error) {
	rev, ok := f.reviews[id]
	if !ok {
		return nil, apperr.NotFound("review not found")
	}
	kept := rev.HelpfulBy[:0:0]
	found := false
	for _, uid := range rev.HelpfulBy {
		if uid == userID {
			found = true
			continue
		}
		kept = append(kept, uid)
	}
	if !found {
		kept = append(kept, userID)
	}
	rev.HelpfulBy = kept
	rev.Helpful = len(kept)
	rev.UpdatedAt = time.Now()
	clone := *rev
	return &clone, nil
}

func (f *fakeReviewStore) List(_ context.Context, filter repository.ReviewFilter) ([]entity.Review, int64, error) {
	out := []entity.Review{}
	for _, rev := range f.reviews {
		if filter.Product != nil && rev.Product != *filter.Product {
			continue
		}
		if filter.User != nil && rev.User != *filter.User {
			continue
		}
		if filter.Status != nil && rev.Status != *filter.Status {
			continue
		}
		if filter.Rating != nil && rev.Rating != *filter.Rating {
			continue
		}
		out = append(out, *rev)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.Sort == "oldest" {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, int64(len(out)), nil
}

func (f *fakeReviewStore) RatingBuckets(_ context.Context, productID primitive.ObjectID) (map[int]int, error) {
	buckets := map[int]int{}
	for _, rev := range f.reviews {
		if rev.Product == productID && rev.Status == entity.ReviewApproved {
			buckets[rev.Rating]++
		}
	}
	return buckets, nil
}

type fakeProducts struct {
	existing map[primitive.ObjectID]bool
}

func (f *fakeProducts) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	return f.existing[id], nil
}
