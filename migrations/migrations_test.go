package migrations

import (
	"context"
	"os"
	"testing"
	"time"

	"HealthLife/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestRun_IdempotentAndEnforcesUniqueEmail(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	database := client.Database("healthlife_migrations_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	doctors := database.Collection(util.DoctorCollection)
	_, err = doctors.InsertOne(ctx, bson.M{"email": "legacy@example.com"})
	require.NoError(t, err)

	require.NoError(t, Run(ctx, database))
	require.NoError(t, Run(ctx, database))

	var legacy bson.M
	require.NoError(t, doctors.FindOne(ctx, bson.M{"email": "legacy@example.com"}).Decode(&legacy))
	assert.Equal(t, util.PROFILE_INCOMPLETE, legacy["profileStatus"])

	_, err = doctors.InsertOne(ctx, bson.M{"email": "legacy@example.com"})
	assert.True(t, mongo.IsDuplicateKeyError(err))
}

func TestSteps_Ordered(t *testing.T) {
	require.Len(t, steps, 3)
	for i, s := range steps {
		assert.NotNil(t, s.run)
		assert.Equal(t, byte('1'+i), s.name[2])
	}
}
