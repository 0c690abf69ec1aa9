package migrations

import (
	"context"

	"HealthLife/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BackfillProfileStatus gives doctors created before profileStatus existed an incomplete profile.
func BackfillProfileStatus(ctx context.Context, database *mongo.Database) error {
	result, err := database.Collection(util.DoctorCollection).UpdateMany(
		ctx,
		bson.M{"profileStatus": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"profileStatus": util.PROFILE_INCOMPLETE}},
	)
	if err != nil {
		return err
	}
	log.Info().Int64("modified", result.ModifiedCount).Msg("migration applied: profileStatus backfill")
	return nil
}
