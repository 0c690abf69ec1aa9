package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"HealthLife/config/authorization"
	"HealthLife/config/jwt"
	"HealthLife/events"
	"HealthLife/models"
	"HealthLife/repository"
	"HealthLife/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatConfig struct {
	Duration time.Duration
	// DoctorReplyAfterExpiry lets doctors keep replying once the patient's window closed.
	DoctorReplyAfterExpiry bool
}

type ChatService struct {
	chats   ChatStore
	doctors DoctorStore
	hub     Broker
	cfg     ChatConfig
	now     func() time.Time
}

func NewChatService(chats ChatStore, doctors DoctorStore, hub Broker, cfg ChatConfig) *ChatService {
	if cfg.Duration <= 0 {
		cfg.Duration = 24 * time.Hour
	}
	return &ChatService{chats: chats, doctors: doctors, hub: hub, cfg: cfg, now: time.Now}
}

// ownerOf scopes store queries to the caller. Admins see every chat.
func ownerOf(id authorization.Identity) repository.Owner {
	switch id.Role {
	case jwt.RoleUser:
		return repository.PatientOwner(id.ID)
	case jwt.RoleDoctor:
		return repository.DoctorOwner(id.ID)
	}
	return repository.AnyOwner
}

// populateFor joins the counterpart summary, both for the admin.
func populateFor(id authorization.Identity) repository.Populate {
	if id.Role == jwt.RoleUser {
		return repository.Populate{Doctor: true}
	}
	return repository.Populate{User: true, Doctor: true}
}

func (s *ChatService) stamp(chats ...*models.Chat) {
	now := s.now()
	for _, c := range chats {
		c.Stamp(now)
	}
}

/*
* Resolve the doctor, it must exist and be available
* Create the free paid chat with a fixed expiry
* Return it with the doctor summary joined
 */
func (s *ChatService) Start(ctx context.Context, patientID primitive.ObjectID, doctorHex string) (*models.Chat, error) {
	doctorID, err := primitive.ObjectIDFromHex(doctorHex)
	if err != nil {
		return nil, util.BadRequest(util.DOCTOR_NOT_AVAILABLE)
	}
	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.BadRequest(util.DOCTOR_NOT_AVAILABLE)
	}
	if err != nil {
		return nil, util.Internal(util.FAILED_TO_START_CHAT, err)
	}
	if !doctor.Available || !doctor.IsVerified {
		return nil, util.BadRequest(util.DOCTOR_NOT_AVAILABLE)
	}

	now := s.now()
	chat := &models.Chat{
		UserID:        patientID,
		DoctorID:      doctorID,
		PaymentStatus: true,
		Amount:        0,
		PaymentDetails: models.PaymentDetails{
			OrderID: fmt.Sprintf("order_free_%d", now.UnixMilli()),
		},
		ExpiresAt: now.Add(s.cfg.Duration),
		Messages:  []models.Message{},
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, util.Internal(util.FAILED_TO_START_CHAT, err)
	}
	log.Info().Str("chatId", chat.ID.Hex()).Str("doctorId", doctorHex).Msg("chat started")

	created, err := s.chats.FindOwned(ctx, chat.ID, repository.PatientOwner(patientID), repository.Populate{Doctor: true})
	if err != nil {
		return nil, util.Internal(util.FAILED_TO_START_CHAT, err)
	}
	s.stamp(created)
	return created, nil
}

/*
* Patients and doctors list their paid chats by last activity
* The admin lists every chat by creation
 */
func (s *ChatService) List(ctx context.Context, id authorization.Identity) ([]models.Chat, error) {
	sortField := "updatedAt"
	pop := repository.Populate{Doctor: true}
	switch {
	case id.IsAdmin():
		sortField = "createdAt"
		pop = repository.Populate{User: true, Doctor: true}
	case id.Role == jwt.RoleDoctor:
		pop = repository.Populate{User: true}
	}
	chats, err := s.chats.List(ctx, ownerOf(id), sortField, 0, pop)
	if err != nil {
		return nil, util.Internal(util.FAILED_TO_FETCH_CHATS, err)
	}
	for i := range chats {
		s.stamp(&chats[i])
	}
	return chats, nil
}

func (s *ChatService) Get(ctx context.Context, id authorization.Identity, chatHex string) (*models.Chat, error) {
	chatID, err := primitive.ObjectIDFromHex(chatHex)
	if err != nil {
		return nil, util.NotFound(util.CHAT_NOT_FOUND)
	}
	chat, err := s.chats.FindOwned(ctx, chatID, ownerOf(id), populateFor(id))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.NotFound(util.CHAT_NOT_FOUND)
	}
	if err != nil {
		return nil, util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	s.stamp(chat)
	return chat, nil
}

/*
* Reject blank text
* Patients may only write into paid chats that have not expired
* Push the message atomically, then work out why a rejected append failed
* Publish the message to stream subscribers
 */
func (s *ChatService) Append(ctx context.Context, id authorization.Identity, chatHex, text string) (*models.Chat, error) {
	sender, empty := models.SenderUser, util.MESSAGE_EMPTY
	if id.Role == jwt.RoleDoctor {
		sender, empty = models.SenderDoctor, util.REPLY_EMPTY
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, util.BadRequest(empty)
	}
	chatID, err := primitive.ObjectIDFromHex(chatHex)
	if err != nil {
		return nil, util.NotFound(util.CHAT_NOT_FOUND)
	}

	now := s.now()
	var activeAt *time.Time
	if sender == models.SenderUser || !s.cfg.DoctorReplyAfterExpiry {
		activeAt = &now
	}
	msg := models.Message{Sender: sender, Text: text, CreatedAt: now}
	owner := ownerOf(id)
	chat, err := s.chats.AppendMessage(ctx, chatID, owner, msg, activeAt)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, s.rejectAppend(ctx, chatID, owner)
	}
	if err != nil {
		return nil, util.Internal(util.FAILED_TO_SEND_MESSAGE, err)
	}
	s.stamp(chat)

	s.hub.Publish(events.Event{Type: events.TypeMessage, ChatID: chatID.Hex(), Message: &msg, At: now})
	return chat, nil
}

// rejectAppend distinguishes a foreign chat from an owned one that is closed.
func (s *ChatService) rejectAppend(ctx context.Context, chatID primitive.ObjectID, owner repository.Owner) error {
	_, err := s.chats.FindOwned(ctx, chatID, owner, repository.Populate{})
	if errors.Is(err, repository.ErrNotFound) {
		return util.NotFound(util.CHAT_NOT_FOUND)
	}
	if err != nil {
		return util.Internal(util.FAILED_TO_SEND_MESSAGE, err)
	}
	return util.Forbidden(util.CHAT_EXPIRED)
}

/*
* Same ownership check as Get, then hand out a subscription
* The returned func releases it
 */
func (s *ChatService) Subscribe(ctx context.Context, id authorization.Identity, chatHex string) (*models.Chat, chan events.Event, func(), error) {
	chat, err := s.Get(ctx, id, chatHex)
	if err != nil {
		return nil, nil, nil, err
	}
	key := chat.ID.Hex()
	ch := s.hub.Subscribe(key)
	return chat, ch, func() { s.hub.Unsubscribe(key, ch) }, nil
}
