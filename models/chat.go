package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SenderUser   = "user"
	SenderDoctor = "doctor"
)

type Message struct {
	Sender    string    `json:"sender" bson:"sender"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type PaymentDetails struct {
	OrderID   string `json:"orderId" bson:"orderId"`
	PaymentID string `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	Signature string `json:"signature,omitempty" bson:"signature,omitempty"`
}

// PartySummary is the populated view of the patient or doctor on a chat.
type PartySummary struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name       string             `json:"name,omitempty" bson:"name,omitempty"`
	Email      string             `json:"email,omitempty" bson:"email,omitempty"`
	Image      string             `json:"image,omitempty" bson:"image,omitempty"`
	Speciality string             `json:"speciality,omitempty" bson:"speciality,omitempty"`
}

type Chat struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	DoctorID       primitive.ObjectID `json:"doctorId" bson:"doctorId"`
	PaymentStatus  bool               `json:"paymentStatus" bson:"paymentStatus"`
	PaymentDetails PaymentDetails     `json:"paymentDetails" bson:"paymentDetails"`
	Amount         float64            `json:"amount" bson:"amount"`
	ExpiresAt      time.Time          `json:"expiresAt" bson:"expiresAt"`
	Messages       []Message          `json:"messages" bson:"messages"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Populated on read, never stored.
	User     *PartySummary `json:"user,omitempty" bson:"user,omitempty"`
	Doctor   *PartySummary `json:"doctor,omitempty" bson:"doctor,omitempty"`
	IsActive bool          `json:"isActive" bson:"-"`
}

// ActiveAt reports whether the chat still accepts patient messages at t.
func (c *Chat) ActiveAt(t time.Time) bool {
	return c.ExpiresAt.After(t)
}

// Stamp computes the derived fields for a read at t.
func (c *Chat) Stamp(t time.Time) {
	c.IsActive = c.ActiveAt(t)
	if c.Messages == nil {
		c.Messages = []Message{}
	}
}
