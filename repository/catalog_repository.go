package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/designxpo/PoonamCosmetics-sub001/configs"
	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/pkg/apperr"
)

// CatalogRepository covers the small brand/category lookups the
// storefront browse surface needs.
type CatalogRepository struct {
	brands     *mongo.Collection
	categories *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		brands:     db.Collection(configs.BrandsCollection),
		categories: db.Collection(configs.CategoriesCollection),
	}
}

func (r *CatalogRepository) CreateBrand(ctx context.Context, b *entity.Brand) error {
	res, err := r.brands.InsertOne(ctx, b)
	if err != nil {
		return apperr.Internal(err, "failed to create brand")
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *CatalogRepository) ListBrands(ctx context.Context) ([]entity.Brand, error) {
	cur, err := r.brands.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, apperr.Internal(err, "failed to list brands")
	}
	brands := []entity.Brand{}
	if err := cur.All(ctx, &brands); err != nil {
		return nil, apperr.Internal(err, "failed to decode brands")
	}
	return brands, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *entity.Category) error {
	res, err := r.categories.InsertOne(ctx, c)
	if err != nil {
		return apperr.Internal(err, "failed to create category")
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]entity.Category, error) {
	cur, err := r.categories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, apperr.Internal(err, "failed to list categories")
	}
	categories := []entity.Category{}
	if err := cur.All(ctx, &categories); err != nil {
		return nil, apperr.Internal(err, "failed to decode categories")
	}
	return categories, nil
}
