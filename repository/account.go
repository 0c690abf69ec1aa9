package repository

import (
	"context"
	"time"

	"HealthLife/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AccountRepository implements the credential, verification and reset state
// shared by the users and doctors collections.
type AccountRepository struct {
	coll     *mongo.Collection
	defaults bson.M
	now      func() time.Time
}

func newAccountRepository(coll *mongo.Collection, defaults bson.M) *AccountRepository {
	return &AccountRepository{coll: coll, defaults: defaults, now: time.Now}
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acc models.Account
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&acc)
	if err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

/*
* Upsert the unverified record for the email
* A verified record never matches the filter, so the unique index turns
* the insert into ErrDuplicate instead of overwriting a live account
 */
func (r *AccountRepository) UpsertPending(ctx context.Context, p models.PendingSignup) error {
	now := r.now()
	onInsert := bson.M{"createdAt": now}
	for k, v := range r.defaults {
		onInsert[k] = v
	}
	update := bson.M{
		"$set": bson.M{
			"name":       p.Name,
			"password":   p.PasswordHash,
			"otp":        p.OTPHash,
			"otpExpires": p.OTPExpires,
			"isVerified": false,
			"updatedAt":  now,
		},
		"$setOnInsert": onInsert,
	}
	filter := bson.M{"email": p.Email, "isVerified": false}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return translate(err)
}

/*
* Flip isVerified only while the stored otp hash is still the one that was checked
* so a code cannot be consumed twice
 */
func (r *AccountRepository) MarkVerified(ctx context.Context, id primitive.ObjectID, otpHash string) error {
	filter := bson.M{"_id": id, "otp": otpHash, "isVerified": false}
	update := bson.M{
		"$set":   bson.M{"isVerified": true, "updatedAt": r.now()},
		"$unset": bson.M{"otp": "", "otpExpires": ""},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountRepository) SetResetOTP(ctx context.Context, id primitive.ObjectID, otpHash string, expires time.Time) error {
	update := bson.M{"$set": bson.M{
		"passwordResetOTP":     otpHash,
		"passwordResetExpires": expires,
		"updatedAt":            r.now(),
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	return translate(err)
}

func (r *AccountRepository) ClearResetOTP(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$unset": bson.M{"passwordResetOTP": "", "passwordResetExpires": ""}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	return translate(err)
}

/*
* Replace the password and consume the reset code in one write
 */
func (r *AccountRepository) ResetPassword(ctx context.Context, id primitive.ObjectID, otpHash, passwordHash string) error {
	filter := bson.M{"_id": id, "passwordResetOTP": otpHash}
	update := bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": r.now()},
		"$unset": bson.M{"passwordResetOTP": "", "passwordResetExpires": ""},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
