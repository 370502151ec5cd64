package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/designxpo/PoonamCosmetics-sub001/configs"
	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/pkg/apperr"
)

type ProductFilter struct {
	Category *primitive.ObjectID
	Brand    *primitive.ObjectID
	Search   string
	Page     int
	Limit    int
}

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(configs.ProductsCollection)}
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return apperr.Internal(err, "failed to create product")
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ProductRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, apperr.Internal(err, "failed to check product")
	}
	return count > 0, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error) {
	var p entity.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal(err, "failed to fetch product")
	}
	return &p, nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	var p entity.Product
	err := r.col.FindOne(ctx, bson.M{"slug": slug, "isActive": true}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal(err, "failed to fetch product")
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]entity.Product, int64, error) {
	filter := bson.M{"isActive": true}
	if f.Category != nil {
		filter["category"] = *f.Category
	}
	if f.Brand != nil {
		filter["brand"] = *f.Brand
	}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": f.Search, "$options": "i"}
	}
	page, limit := f.Page, f.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 12
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to count products")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list products")
	}
	products := []entity.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, apperr.Internal(err, "failed to decode products")
	}
	return products, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*entity.Product, error) {
	res := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var p entity.Product
	if err := res.Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal(err, "failed to update product")
	}
	return &p, nil
}
