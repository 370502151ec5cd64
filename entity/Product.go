package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Slug        string              `bson:"slug" json:"slug"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Brand       *primitive.ObjectID `bson:"brand,omitempty" json:"brand,omitempty"`
	Category    *primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Price       float64             `bson:"price" json:"price"`
	MRP         float64             `bson:"mrp,omitempty" json:"mrp,omitempty"`
	Images      []string            `bson:"images,omitempty" json:"images,omitempty"`
	Stock       int                 `bson:"stock" json:"stock"`
	IsActive    bool                `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
