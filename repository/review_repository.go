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

type ReviewFilter struct {
	Product *primitive.ObjectID
	User    *primitive.ObjectID
	Status  *entity.ReviewStatus
	Rating  *int
	Page    int
	Limit   int
	// Sort is "newest" (default) or "oldest".
	Sort string
}

// ReviewPatch carries partial updates; nil fields are left untouched.
type ReviewPatch struct {
	Rating        *int
	Title         *string
	Comment       *string
	Images        *[]string
	Status        *entity.ReviewStatus
	AdminResponse *entity.AdminResponse
}

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(configs.ReviewsCollection)}
}

func (r *ReviewRepository) Create(ctx context.Context, rev *entity.Review) error {
	res, err := r.col.InsertOne(ctx, rev)
	if err != nil {
		// The unique (product, user) index is the authority on
		// duplicates; a racing pre-check still lands here.
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Duplicate("you have already reviewed this product")
		}
		return apperr.Internal(err, "failed to create review")
	}
	rev.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Review, error) {
	var rev entity.Review
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, apperr.Internal(err, "failed to fetch review")
	}
	return &rev, nil
}

func (r *ReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID primitive.ObjectID) (*entity.Review, error) {
	var rev entity.Review
	err := r.col.FindOne(ctx, bson.M{"product": productID, "user": userID}).Decode(&rev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, apperr.Internal(err, "failed to fetch review")
	}
	return &rev, nil
}

func (r *ReviewRepository) Update(ctx context.Context, id primitive.ObjectID, patch ReviewPatch) (*entity.Review, error) {
	set := bson.M{"updatedAt": time.Now()}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Comment != nil {
		set["comment"] = *patch.Comment
	}
	if patch.Images != nil {
		set["images"] = *patch.Images
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.AdminResponse != nil {
		set["adminResponse"] = *patch.AdminResponse
	}

	res := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var rev entity.Review
	if err := res.Decode(&rev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, apperr.Internal(err, "failed to update review")
	}
	return &rev, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal(err, "failed to delete review")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("review not found")
	}
	return nil
}

// ToggleHelpful flips the caller's membership in the helpfulBy set and
// recomputes helpful as the set size, all in one pipeline update on the
// document. Two racing toggles therefore serialize on the server and
// neither can observe a stale set.
func (r *ReviewRepository) ToggleHelpful(ctx context.Context, id, userID primitive.ObjectID) (*entity.Review, error) {
	helpfulBy := bson.M{"$ifNull": bson.A{"$helpfulBy", bson.A{}}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"helpfulBy": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{userID, helpfulBy}},
				bson.M{"$setDifference": bson.A{helpfulBy, bson.A{userID}}},
				bson.M{"$concatArrays": bson.A{helpfulBy, bson.A{userID}}},
			}},
			"updatedAt": "$$NOW",
		}}},
		{{Key: "$set", Value: bson.M{"helpful": bson.M{"$size": "$helpfulBy"}}}},
	}

	res := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	var rev entity.Review
	if err := res.Decode(&rev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, apperr.Internal(err, "failed to toggle helpful vote")
	}
	return &rev, nil
}

func (r *ReviewRepository) List(ctx context.Context, f ReviewFilter) ([]entity.Review, int64, error) {
	filter := bson.M{}
	if f.Product != nil {
		filter["product"] = *f.Product
	}
	if f.User != nil {
		filter["user"] = *f.User
	}
	if f.Status != nil {
		filter["status"] = *f.Status
	}
	if f.Rating != nil {
		filter["rating"] = *f.Rating
	}
	page, limit := f.Page, f.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	sort := -1
	if f.Sort == "oldest" {
		sort = 1
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to count reviews")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: sort}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list reviews")
	}
	reviews := []entity.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, 0, apperr.Internal(err, "failed to decode reviews")
	}
	return reviews, total, nil
}

// RatingBuckets returns approved-review counts grouped by star value.
func (r *ReviewRepository) RatingBuckets(ctx context.Context, productID primitive.ObjectID) (map[int]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"product": productID, "status": entity.ReviewApproved}}},
		{{Key: "$group", Value: bson.M{"_id": "$rating", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal(err, "failed to aggregate ratings")
	}
	var rows []struct {
		Rating int `bson:"_id"`
		Count  int `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, apperr.Internal(err, "failed to decode rating buckets")
	}
	buckets := make(map[int]int, len(rows))
	for _, row := range rows {
		buckets[row.Rating] = row.Count
	}
	return buckets, nil
}
