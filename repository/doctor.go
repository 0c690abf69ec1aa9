package repository

import (
	"context"

	"HealthLife/models"
	"HealthLife/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DoctorRepository struct {
	*AccountRepository
}

func NewDoctorRepository(database *mongo.Database) *DoctorRepository {
	coll := database.Collection(util.DoctorCollection)
	defaults := bson.M{
		"available":     true,
		"fees":          0,
		"profileStatus": util.PROFILE_INCOMPLETE,
	}
	return &DoctorRepository{AccountRepository: newAccountRepository(coll, defaults)}
}

func (r *DoctorRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *DoctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"password": 0, "otp": 0, "passwordResetOTP": 0})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	doctors := []models.Doctor{}
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

/*
* Insert a doctor created by the admin
* Timestamps are stamped here, the id is written back
 */
func (r *DoctorRepository) Create(ctx context.Context, d *models.Doctor) error {
	now := r.now()
	d.CreatedAt, d.UpdatedAt = now, now
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, d)
	return translate(err)
}

func (r *DoctorRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, u models.DoctorProfileUpdate) (*models.Doctor, error) {
	set := bson.M{"updatedAt": r.now()}
	fields := map[string]*string{
		"name":       u.Name,
		"speciality": u.Speciality,
		"degree":     u.Degree,
		"experience": u.Experience,
		"about":      u.About,
	}
	for key, v := range fields {
		if v != nil {
			set[key] = *v
		}
	}
	if u.Fees != nil {
		set["fees"] = *u.Fees
	}
	if u.Available != nil {
		set["available"] = *u.Available
	}
	if u.Image != nil && *u.Image != "" {
		set["image"] = *u.Image
	}
	if u.MarkComplete {
		set["profileStatus"] = util.PROFILE_COMPLETE
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d models.Doctor
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

/*
* Flip available with a pipeline update so concurrent toggles never read stale state
 */
func (r *DoctorRepository) ToggleAvailability(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"available": bson.M{"$not": bson.A{"$available"}},
			"updatedAt": "$$NOW",
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d models.Doctor
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&d)
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}
