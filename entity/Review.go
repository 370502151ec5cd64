package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	return s == ReviewPending || s == ReviewApproved || s == ReviewRejected
}

type AdminResponse struct {
	Message     string    `bson:"message" json:"message"`
	RespondedAt time.Time `bson:"respondedAt" json:"respondedAt"`
}

type Review struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Product          primitive.ObjectID `bson:"product" json:"product"`
	User             primitive.ObjectID `bson:"user" json:"user"`
	Rating           int                `bson:"rating" json:"rating"`
	Title            string             `bson:"title" json:"title"`
	Comment          string             `bson:"comment" json:"comment"`
	Images           []string           `bson:"images,omitempty" json:"images,omitempty"`
	VerifiedPurchase bool               `bson:"verifiedPurchase" json:"verifiedPurchase"`
	// Helpful always equals len(HelpfulBy); both are written in the same
	// document update, never independently.
	Helpful       int                  `bson:"helpful" json:"helpful"`
	HelpfulBy     []primitive.ObjectID `bson:"helpfulBy" json:"-"`
	Status        ReviewStatus         `bson:"status" json:"status"`
	AdminResponse *AdminResponse       `bson:"adminResponse,omitempty" json:"adminResponse,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (r *Review) MarkedHelpfulBy(userID primitive.ObjectID) bool {
	for _, id := range r.HelpfulBy {
		if id == userID {
			return true
		}
	}
	return false
}

// RatingStats is derived from approved reviews on demand, never persisted.
type RatingStats struct {
	AverageRating float64     `json:"averageRating"`
	TotalReviews  int         `json:"totalReviews"`
	Distribution  map[int]int `json:"distribution"`
}
