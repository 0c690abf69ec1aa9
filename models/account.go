package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account holds the identity, verification and password reset fields shared by
// patients and doctors. Secrets never leave the server.
type Account struct {
	ID                   primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name                 string             `json:"name" bson:"name"`
	Email                string             `json:"email" bson:"email"`
	Password             string             `json:"-" bson:"password"`
	Image                string             `json:"image,omitempty" bson:"image,omitempty"`
	IsVerified           bool               `json:"isVerified" bson:"isVerified"`
	OTP                  string             `json:"-" bson:"otp,omitempty"`
	OTPExpires           *time.Time         `json:"-" bson:"otpExpires,omitempty"`
	PasswordResetOTP     string             `json:"-" bson:"passwordResetOTP,omitempty"`
	PasswordResetExpires *time.Time         `json:"-" bson:"passwordResetExpires,omitempty"`
	ProfileStatus        string             `json:"profileStatus,omitempty" bson:"profileStatus,omitempty"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Address struct {
	Line1 string `json:"line1" bson:"line1"`
	Line2 string `json:"line2" bson:"line2"`
}

// PendingSignup is the unverified record written by a registration OTP request.
type PendingSignup struct {
	Name         string
	Email        string
	PasswordHash string
	OTPHash      string
	OTPExpires   time.Time
}
