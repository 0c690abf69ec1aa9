package migrations

import (
	"context"

	"HealthLife/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateEmailIndexes makes email unique per account collection.
func CreateEmailIndexes(ctx context.Context, database *mongo.Database) error {
	for _, coll := range []string{util.PatientCollection, util.DoctorCollection} {
		name, err := database.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		})
		if err != nil {
			return err
		}
		log.Info().Str("collection", coll).Str("index", name).Msg("migration applied")
	}
	return nil
}
