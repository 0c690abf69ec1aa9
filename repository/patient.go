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

type PatientRepository struct {
	*AccountRepository
}

func NewPatientRepository(database *mongo.Database) *PatientRepository {
	coll := database.Collection(util.PatientCollection)
	return &PatientRepository{AccountRepository: newAccountRepository(coll, nil)}
}

func (r *PatientRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	var p models.Patient
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

/*
* Set the profile fields, image only when one was uploaded
* Return the document after the update
 */
func (r *PatientRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, u models.PatientProfileUpdate) (*models.Patient, error) {
	set := bson.M{
		"name":      u.Name,
		"phone":     u.Phone,
		"dob":       u.DOB,
		"gender":    u.Gender,
		"updatedAt": r.now(),
	}
	if u.Address != nil {
		set["address"] = u.Address
	}
	if u.Image != "" {
		set["image"] = u.Image
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Patient
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}
