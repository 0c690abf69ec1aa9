package services

import (
	"context"
	"errors"
	"strings"

	"HealthLife/config/upload"
	"HealthLife/models"
	"HealthLife/repository"
	"HealthLife/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PatientService struct {
	patients PatientStore
	uploader upload.Uploader
}

func NewPatientService(patients PatientStore, uploader upload.Uploader) *PatientService {
	return &PatientService{patients: patients, uploader: uploader}
}

func (s *PatientService) Profile(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	patient, err := s.patients.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.NotFound(util.PATIENT_NOT_FOUND)
	}
	if err != nil {
		return nil, util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	return patient, nil
}

/*
* Name, phone, dob and gender are required
* Upload the image if one came with the form
 */
func (s *PatientService) UpdateProfile(ctx context.Context, id primitive.ObjectID, u models.PatientProfileUpdate, img *Image) (*models.Patient, error) {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" || u.Phone == "" || u.DOB == "" || u.Gender == "" {
		return nil, util.BadRequest(util.MISSING_REQUIRED_FIELDS)
	}
	url, err := uploadImage(ctx, s.uploader, img, upload.PatientFolder)
	if err != nil {
		return nil, err
	}
	u.Image = url

	patient, err := s.patients.UpdateProfile(ctx, id, u)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.NotFound(util.PATIENT_NOT_FOUND)
	}
	if err != nil {
		return nil, util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	return patient, nil
}
