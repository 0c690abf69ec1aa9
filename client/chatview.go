package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"HealthLife/config/jwt"
	"HealthLife/models"

	"github.com/rs/zerolog/log"
)

var ErrChatUnavailable = errors.New("chat not found or expired")

const DefaultPollInterval = 5 * time.Second

const (
	StateSending = "sending"
	StateFailed  = "failed"
)

// Entry is a message as shown in the view. LocalID and State are only set on
// messages typed here that the backend has not confirmed.
type Entry struct {
	models.Message
	LocalID string
	State   string
}

/*
* ChatView mirrors one consultation
* Server messages are replaced wholesale on every fetch
* Unconfirmed local messages stay after them until confirmed or marked failed
 */
type ChatView struct {
	PollInterval time.Duration
	OnChange     func([]Entry)

	client *Client
	chatID string
	now    func() time.Time

	mu     sync.Mutex
	chat   *models.Chat
	remote []Entry
	local  []Entry
	seq    int
}

func NewChatView(c *Client, chatID string) *ChatView {
	return &ChatView{client: c, chatID: chatID, PollInterval: DefaultPollInterval, now: time.Now}
}

/*
* Fetch once
* A chat that is missing or not ours cannot be opened
* Patients cannot open an expired chat, doctors still can to reply to it
 */
func (v *ChatView) Open(ctx context.Context) error {
	chat, err := v.client.GetChat(ctx, v.chatID)
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusForbidden) {
		return ErrChatUnavailable
	}
	if err != nil {
		return err
	}
	chat.IsActive = chat.ExpiresAt.After(v.now())
	if !chat.IsActive && v.client.role != jwt.RoleDoctor {
		return ErrChatUnavailable
	}
	v.replace(chat)
	return nil
}

// Run refreshes the view every PollInterval until ctx is done.
func (v *ChatView) Run(ctx context.Context) error {
	interval := v.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := v.refresh(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Str("chatId", v.chatID).Msg("chat poll failed")
			}
		}
	}
}

func (v *ChatView) refresh(ctx context.Context) error {
	chat, err := v.client.GetChat(ctx, v.chatID)
	if err != nil {
		return err
	}
	v.replace(chat)
	return nil
}

/*
* Show the text right away as sending
* On failure keep it in place marked failed
* On success swap the placeholder for the stored list the backend answered with
 */
func (v *ChatView) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	v.mu.Lock()
	v.seq++
	localID := "local-" + strconv.Itoa(v.seq)
	v.local = append(v.local, Entry{
		Message: models.Message{Sender: v.sender(), Text: text, CreatedAt: v.now()},
		LocalID: localID,
		State:   StateSending,
	})
	v.mu.Unlock()
	v.changed()

	chat, err := v.client.Send(ctx, v.chatID, text)
	if err != nil {
		v.mu.Lock()
		for i := range v.local {
			if v.local[i].LocalID == localID {
				v.local[i].State = StateFailed
			}
		}
		v.mu.Unlock()
		v.changed()
		return err
	}

	v.mu.Lock()
	for i := range v.local {
		if v.local[i].LocalID == localID {
			v.local = append(v.local[:i], v.local[i+1:]...)
			break
		}
	}
	v.mu.Unlock()
	v.replace(chat)
	return nil
}

func (v *ChatView) sender() string {
	if v.client.role == jwt.RoleDoctor {
		return models.SenderDoctor
	}
	return models.SenderUser
}

func (v *ChatView) replace(chat *models.Chat) {
	remote := make([]Entry, 0, len(chat.Messages))
	for _, m := range chat.Messages {
		remote = append(remote, Entry{Message: m})
	}
	v.mu.Lock()
	v.chat, v.remote = chat, remote
	v.mu.Unlock()
	v.changed()
}

func (v *ChatView) changed() {
	if v.OnChange != nil {
		v.OnChange(v.Messages())
	}
}

// Messages returns a snapshot of what the view shows.
func (v *ChatView) Messages() []Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Entry, 0, len(v.remote)+len(v.local))
	out = append(out, v.remote...)
	return append(out, v.local...)
}

// Chat returns the last fetched consultation, nil before Open.
func (v *ChatView) Chat() *models.Chat {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.chat
}
