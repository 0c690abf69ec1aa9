package services

import (
	"context"
	"io"
	"time"

	"HealthLife/events"
	"HealthLife/models"
	"HealthLife/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountStore is the credential state shared by patients and doctors.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	UpsertPending(ctx context.Context, p models.PendingSignup) error
	MarkVerified(ctx context.Context, id primitive.ObjectID, otpHash string) error
	SetResetOTP(ctx context.Context, id primitive.ObjectID, otpHash string, expires time.Time) error
	ClearResetOTP(ctx context.Context, id primitive.ObjectID) error
	ResetPassword(ctx context.Context, id primitive.ObjectID, otpHash, passwordHash string) error
}

type PatientStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, u models.PatientProfileUpdate) (*models.Patient, error)
	Count(ctx context.Context) (int64, error)
}

type DoctorStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	List(ctx context.Context) ([]models.Doctor, error)
	Create(ctx context.Context, d *models.Doctor) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, u models.DoctorProfileUpdate) (*models.Doctor, error)
	ToggleAvailability(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	Count(ctx context.Context) (int64, error)
}

type ChatStore interface {
	Create(ctx context.Context, chat *models.Chat) error
	FindOwned(ctx context.Context, chatID primitive.ObjectID, owner repository.Owner, pop repository.Populate) (*models.Chat, error)
	List(ctx context.Context, owner repository.Owner, sortField string, limit int64, pop repository.Populate) ([]models.Chat, error)
	AppendMessage(ctx context.Context, chatID primitive.ObjectID, owner repository.Owner, msg models.Message, activeAt *time.Time) (*models.Chat, error)
	DoctorStats(ctx context.Context, doctorID primitive.ObjectID, now time.Time) (models.DoctorStats, error)
	Count(ctx context.Context) (int64, error)
}

// Broker delivers chat events to stream subscribers.
type Broker interface {
	Publish(e events.Event)
	Subscribe(chatID string) chan events.Event
	Unsubscribe(chatID string, ch chan events.Event)
}

// Image is an uploaded file handed over by the controller.
type Image struct {
	File io.Reader
	Name string
}
