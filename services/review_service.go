package services

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/pkg/apperr"
	"github.com/designxpo/PoonamCosmetics-sub001/repository"
)

const (
	maxReviewTitleLen   = 100
	maxReviewCommentLen = 1000
	maxReviewImages     = 5
)

// ReviewStore is the storage surface for reviews. ToggleHelpful must
// flip set membership and recompute the count in one atomic document
// update; the unique (product, user) index backs Create.
type ReviewStore interface {
	Create(ctx context.Context, rev *entity.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Review, error)
	FindByProductAndUser(ctx context.Context, productID, userID primitive.ObjectID) (*entity.Review, error)
	Update(ctx context.Context, id primitive.ObjectID, patch repository.ReviewPatch) (*entity.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ToggleHelpful(ctx context.Context, id, userID primitive.ObjectID) (*entity.Review, error)
	List(ctx context.Context, f repository.ReviewFilter) ([]entity.Review, int64, error)
	RatingBuckets(ctx context.Context, productID primitive.ObjectID) (map[int]int, error)
}

// ProductChecker is the slice of the catalog the review engine needs.
type ProductChecker interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// PurchaseChecker answers whether a user has received a product,
// driving the verified-purchase flag.
type PurchaseChecker interface {
	HasDeliveredProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
}

type ReviewService struct {
	store     ReviewStore
	products  ProductChecker
	purchases PurchaseChecker
	log       *logrus.Logger
	now       func() time.Time
}

func NewReviewService(store ReviewStore, products ProductChecker, purchases PurchaseChecker, logger *logrus.Logger) *ReviewService {
	return &ReviewService{
		store:     store,
		products:  products,
		purchases: purchases,
		log:       logger,
		now:       time.Now,
	}
}

// ----- DTOs from Controller -----

type CreateReviewInput struct {
	Product string   `json:"product"`
	Rating  int      `json:"rating"`
	Title   string   `json:"title"`
	Comment string   `json:"comment"`
	Images  []string `json:"images"`
}

type UpdateReviewInput struct {
	Rating        *int                 `json:"rating"`
	Title         *string              `json:"title"`
	Comment       *string              `json:"comment"`
	Images        *[]string            `json:"images"`
	Status        *entity.ReviewStatus `json:"status"`
	AdminResponse *string              `json:"adminResponse"`
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperr.Validation("rating must be between 1 and 5")
	}
	return nil
}

// Create inserts a pending review. The pre-check gives a friendly error
// in the common case; the unique index is what actually prevents a
// racing second insert.
func (s *ReviewService) Create(ctx context.Context, in *CreateReviewInput, userID primitive.ObjectID) (*entity.Review, error) {
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if in.Title == "" || in.Comment == "" {
		return nil, apperr.Validation("title and comment are required")
	}
	if len(in.Title) > maxReviewTitleLen {
		return nil, apperr.Validation("title must be at most %d characters", maxReviewTitleLen)
	}
	if len(in.Comment) > maxReviewCommentLen {
		return nil, apperr.Validation("comment must be at most %d characters", maxReviewCommentLen)
	}
	if len(in.Images) > maxReviewImages {
		return nil, apperr.Validation("a review can carry at most %d images", maxReviewImages)
	}

	productID, err := primitive.ObjectIDFromHex(in.Product)
	if err != nil {
		return nil, apperr.Validation("invalid product id")
	}
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("product not found")
	}

	if _, err := s.store.FindByProductAndUser(ctx, productID, userID); err == nil {
		return nil, apperr.Duplicate("you have already reviewed this product")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	verified, err := s.purchases.HasDeliveredProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rev := &entity.Review{
		Product:          productID,
		User:             userID,
		Rating:           in.Rating,
		Title:            in.Title,
		Comment:          in.Comment,
		Images:           in.Images,
		VerifiedPurchase: verified,
		Helpful:          0,
		HelpfulBy:        []primitive.ObjectID{},
		Status:           entity.ReviewPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Create(ctx, rev); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"review":   rev.ID.Hex(),
		"product":  productID.Hex(),
		"verified": verified,
	}).Info("review created")
	return rev, nil
}

// Update lets the owner edit content while the review is still pending
// moderation and lets an admin edit anything, including the moderation
// status and the admin response.
func (s *ReviewService) Update(ctx context.Context, id primitive.ObjectID, in *UpdateReviewInput, userID primitive.ObjectID, isAdmin bool) (*entity.Review, error) {
	rev, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner := rev.User == userID
	if !isOwner && !isAdmin {
		return nil, apperr.Forbidden("you are not allowed to edit this review")
	}
	if !isAdmin && (in.Status != nil || in.AdminResponse != nil) {
		return nil, apperr.Forbidden("only admins can change review status or respond")
	}
	if !isAdmin && rev.Status != entity.ReviewPending {
		return nil, apperr.InvalidState("review can no longer be edited in %s status", rev.Status)
	}

	patch := repository.ReviewPatch{}
	if in.Rating != nil {
		if err := validateRating(*in.Rating); err != nil {
			return nil, err
		}
		patch.Rating = in.Rating
	}
	if in.Title != nil {
		if *in.Title == "" || len(*in.Title) > maxReviewTitleLen {
			return nil, apperr.Validation("title must be 1-%d characters", maxReviewTitleLen)
		}
		patch.Title = in.Title
	}
	if in.Comment != nil {
		if *in.Comment == "" || len(*in.Comment) > maxReviewCommentLen {
			return nil, apperr.Validation("comment must be 1-%d characters", maxReviewCommentLen)
		}
		patch.Comment = in.Comment
	}
	if in.Images != nil {
		if len(*in.Images) > maxReviewImages {
			return nil, apperr.Validation("a review can carry at most %d images", maxReviewImages)
		}
		patch.Images = in.Images
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.Validation("unknown review status %q", *in.Status)
		}
		patch.Status = in.Status
	}
	if in.AdminResponse != nil {
		patch.AdminResponse = &entity.AdminResponse{
			Message:     *in.AdminResponse,
			RespondedAt: s.now(),
		}
	}

	return s.store.Update(ctx, id, patch)
}

func (s *ReviewService) Delete(ctx context.Context, id, userID primitive.ObjectID, isAdmin bool) error {
	rev, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if rev.User != userID && !isAdmin {
		return apperr.Forbidden("you are not allowed to delete this review")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("review", id.Hex()).Info("review deleted")
	return nil
}

// ToggleHelpful flips the caller's helpful vote and reports the new
// count plus whether the vote is now active.
func (s *ReviewService) ToggleHelpful(ctx context.Context, id, userID primitive.ObjectID) (int, bool, error) {
	rev, err := s.store.ToggleHelpful(ctx, id, userID)
	if err != nil {
		return 0, false, err
	}
	return rev.Helpful, rev.MarkedHelpfulBy(userID), nil
}

func (s *ReviewService) List(ctx context.Context, f repository.ReviewFilter) ([]entity.Review, int64, error) {
	return s.store.List(ctx, f)
}

func (s *ReviewService) Get(ctx context.Context, id primitive.ObjectID) (*entity.Review, error) {
	return s.store.FindByID(ctx, id)
}

// ProductStats aggregates approved reviews into the public rating
// summary. A product with no approved reviews yields the zero structure,
// never an error.
func (s *ReviewService) ProductStats(ctx context.Context, productID primitive.ObjectID) (*entity.RatingStats, error) {
	buckets, err := s.store.RatingBuckets(ctx, productID)
	if err != nil {
		return nil, err
	}

	stats := &entity.RatingStats{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	sum := 0
	for star := 1; star <= 5; star++ {
		count := buckets[star]
		stats.Distribution[star] = count
		stats.TotalReviews += count
		sum += star * count
	}
	if stats.TotalReviews > 0 {
		avg := float64(sum) / float64(stats.TotalReviews)
		stats.AverageRating = math.Round(avg*10) / 10
	}
	return stats, nil
}
