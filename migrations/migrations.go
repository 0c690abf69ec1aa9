package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type step struct {
	name string
	run  func(context.Context, *mongo.Database) error
}

var steps = []step{
	{"001_create_email_indexes", CreateEmailIndexes},
	{"002_create_chat_indexes", CreateChatIndexes},
	{"003_backfill_profile_status", BackfillProfileStatus},
}

// Run applies every migration in order. Each one is idempotent.
func Run(ctx context.Context, database *mongo.Database) error {
	for _, s := range steps {
		if err := s.run(ctx, database); err != nil {
			return fmt.Errorf("migration %s: %w", s.name, err)
		}
	}
	return nil
}
