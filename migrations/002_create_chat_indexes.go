package migrations

import (
	"context"

	"HealthLife/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
* Index the chat lists of both parties by last activity
* Index expiresAt for the expiry notifier
 */
func CreateChatIndexes(ctx context.Context, database *mongo.Database) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "paymentStatus", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("user_chats"),
		},
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "paymentStatus", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("doctor_chats"),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("chat_expiry"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("chat_created"),
		},
	}
	names, err := database.Collection(util.ChatCollection).Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info().Strs("indexes", names).Msg("migration applied")
	return nil
}
