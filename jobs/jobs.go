package jobs

import (
	"context"
	"sync"
	"time"

	"HealthLife/events"
	"HealthLife/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type ExpiredLister interface {
	ListExpiredBetween(ctx context.Context, from, to time.Time) ([]models.Chat, error)
}

type Publisher interface {
	Publish(e events.Event)
}

// ExpiryNotifier tells stream subscribers when a chat window closes.
// It only reads chats, nothing is purged.
type ExpiryNotifier struct {
	chats ExpiredLister
	pub   Publisher
	now   func() time.Time

	mu   sync.Mutex
	last time.Time
}

func NewExpiryNotifier(chats ExpiredLister, pub Publisher) *ExpiryNotifier {
	return &ExpiryNotifier{chats: chats, pub: pub, now: time.Now, last: time.Now()}
}

/*
* Find the chats that expired since the previous run
* Publish an expired event for each
* Move the window forward only when the lookup succeeded
 */
func (n *ExpiryNotifier) Run(ctx context.Context) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	chats, err := n.chats.ListExpiredBetween(ctx, n.last, now)
	if err != nil {
		log.Error().Err(err).Msg("expiry notifier lookup failed")
		return 0
	}
	for _, chat := range chats {
		n.pub.Publish(events.Event{Type: events.TypeExpired, ChatID: chat.ID.Hex(), At: chat.ExpiresAt})
	}
	n.last = now
	if len(chats) > 0 {
		log.Info().Int("chats", len(chats)).Msg("expired chats notified")
	}
	return len(chats)
}

func StartScheduler(spec string, notifier *ExpiryNotifier) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		notifier.Run(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("spec", spec).Msg("expiry notifier scheduled")
	return c, nil
}
