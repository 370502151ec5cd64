package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a snapshot of a product at order time; later catalog
// edits must not change what the customer sees on the order.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
}

type DeliveryAddress struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Pincode string `bson:"pincode" json:"pincode"`
}

// GuestInfo identifies a guest checkout; set exactly when User is nil.
type GuestInfo struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

type TrackingUpdate struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Message   string      `bson:"message" json:"message"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
}

type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderNumber     string              `bson:"orderNumber" json:"orderNumber"`
	User            *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	GuestInfo       *GuestInfo          `bson:"guestInfo,omitempty" json:"guestInfo,omitempty"`
	Items           []OrderItem         `bson:"items" json:"items"`
	TotalAmount     float64             `bson:"totalAmount" json:"totalAmount"`
	DeliveryAddress DeliveryAddress     `bson:"deliveryAddress" json:"deliveryAddress"`
	DeliveryCharge  float64             `bson:"deliveryCharge" json:"deliveryCharge"`
	PaymentMethod   PaymentMethod       `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus   PaymentStatus       `bson:"paymentStatus" json:"paymentStatus"`
	Status          OrderStatus         `bson:"status" json:"status"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	// TrackingUpdates is append-only; entries are never removed or reordered.
	TrackingUpdates []TrackingUpdate `bson:"trackingUpdates" json:"trackingUpdates"`
	CreatedAt       time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time        `bson:"updatedAt" json:"updatedAt"`
}

func (o *Order) OwnedBy(userID primitive.ObjectID) bool {
	return o.User != nil && *o.User == userID
}
