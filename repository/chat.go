package repository

import (
	"context"
	"time"

	"HealthLife/models"
	"HealthLife/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Owner scopes chat queries to the party allowed to see them.
// The zero Field means no scoping, which is how the admin reads.
type Owner struct {
	Field string
	ID    primitive.ObjectID
}

func PatientOwner(id primitive.ObjectID) Owner { return Owner{Field: "userId", ID: id} }
func DoctorOwner(id primitive.ObjectID) Owner  { return Owner{Field: "doctorId", ID: id} }

var AnyOwner = Owner{}

func (o Owner) apply(filter bson.M) bson.M {
	if o.Field != "" {
		filter[o.Field] = o.ID
	}
	return filter
}

// Populate selects which party summaries are joined onto chats.
type Populate struct {
	User   bool
	Doctor bool
}

type ChatRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewChatRepository(database *mongo.Database) *ChatRepository {
	return &ChatRepository{coll: database.Collection(util.ChatCollection), now: time.Now}
}

func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	now := r.now()
	chat.CreatedAt, chat.UpdatedAt = now, now
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}
	_, err := r.coll.InsertOne(ctx, chat)
	return translate(err)
}

/*
* Join the summary of one party from its collection
* Only the public summary fields are copied onto the chat
 */
func lookupStages(from, local, as string, fields ...string) mongo.Pipeline {
	summary := bson.M{"_id": "$$p._id"}
	for _, f := range fields {
		summary[f] = "$$p." + f
	}
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   local,
			"foreignField": "_id",
			"as":           as,
		}}},
		{{Key: "$addFields", Value: bson.M{
			as: bson.M{"$arrayElemAt": bson.A{
				bson.M{"$map": bson.M{"input": "$" + as, "as": "p", "in": summary}},
				0,
			}},
		}}},
	}
}

func (p Populate) stages() mongo.Pipeline {
	var stages mongo.Pipeline
	if p.User {
		stages = append(stages, lookupStages(util.PatientCollection, "userId", "user", "name", "email", "image")...)
	}
	if p.Doctor {
		stages = append(stages, lookupStages(util.DoctorCollection, "doctorId", "doctor", "name", "speciality", "image")...)
	}
	return stages
}

func (r *ChatRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.Chat, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	chats := []models.Chat{}
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *ChatRepository) FindOwned(ctx context.Context, chatID primitive.ObjectID, owner Owner, pop Populate) (*models.Chat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: owner.apply(bson.M{"_id": chatID})}},
		{{Key: "$limit", Value: 1}},
	}
	pipeline = append(pipeline, pop.stages()...)
	chats, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return nil, ErrNotFound
	}
	return &chats[0], nil
}

/*
* List paid chats of the owner, most recent first
* sortField is updatedAt for the parties and createdAt for the admin
* limit 0 means no limit
 */
func (r *ChatRepository) List(ctx context.Context, owner Owner, sortField string, limit int64, pop Populate) ([]models.Chat, error) {
	filter := owner.apply(bson.M{})
	if owner.Field != "" {
		filter["paymentStatus"] = true
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: sortField, Value: -1}, {Key: "_id", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline, pop.stages()...)
	return r.aggregate(ctx, pipeline)
}

/*
* Push the message and bump updatedAt in one atomic write
* activeAt, when set, restricts the append to paid chats that have not expired
* ErrNotFound covers both a foreign chat and a filtered out one
 */
func (r *ChatRepository) AppendMessage(ctx context.Context, chatID primitive.ObjectID, owner Owner, msg models.Message, activeAt *time.Time) (*models.Chat, error) {
	filter := owner.apply(bson.M{"_id": chatID})
	if activeAt != nil {
		filter["paymentStatus"] = true
		filter["expiresAt"] = bson.M{"$gt": *activeAt}
	}
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updatedAt": msg.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var chat models.Chat
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&chat); err != nil {
		return nil, translate(err)
	}
	return &chat, nil
}

/*
* Earnings, active chats and distinct patients over the doctor's paid chats
 */
func (r *ChatRepository) DoctorStats(ctx context.Context, doctorID primitive.ObjectID, now time.Time) (models.DoctorStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"doctorId": doctorID, "paymentStatus": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"earnings": bson.M{"$sum": "$amount"},
			"activeChats": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$gt": bson.A{"$expiresAt", now}}, 1, 0},
			}},
			"patients": bson.M{"$addToSet": "$userId"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":           0,
			"earnings":      1,
			"activeChats":   1,
			"totalPatients": bson.M{"$size": "$patients"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.DoctorStats{}, err
	}
	defer cursor.Close(ctx)

	var stats models.DoctorStats
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return models.DoctorStats{}, err
		}
	}
	return stats, cursor.Err()
}

func (r *ChatRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// ListExpiredBetween returns the chats whose expiry fell in (from, to].
func (r *ChatRepository) ListExpiredBetween(ctx context.Context, from, to time.Time) ([]models.Chat, error) {
	filter := bson.M{"expiresAt": bson.M{"$gt": from, "$lte": to}}
	opts := options.Find().SetProjection(bson.M{"messages": 0})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	chats := []models.Chat{}
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}
