package services

import (
	"context"
	"errors"
	"time"

	"HealthLife/config/redis"
	"HealthLife/config/upload"
	"HealthLife/models"
	"HealthLife/repository"
	"HealthLife/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DoctorService struct {
	doctors  DoctorStore
	chats    ChatStore
	cache    redis.Cache
	uploader upload.Uploader
	now      func() time.Time
}

func NewDoctorService(doctors DoctorStore, chats ChatStore, cache redis.Cache, uploader upload.Uploader) *DoctorService {
	if cache == nil {
		cache = redis.Noop{}
	}
	return &DoctorService{doctors: doctors, chats: chats, cache: cache, uploader: uploader, now: time.Now}
}

func (s *DoctorService) find(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	doctor, err := s.doctors.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	if err != nil {
		return nil, util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	return doctor, nil
}

func (s *DoctorService) Profile(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	return s.find(ctx, id)
}

/*
* Upload the new image if one came with the form
* Apply the update and drop the cached copies
 */
func (s *DoctorService) UpdateProfile(ctx context.Context, id primitive.ObjectID, u models.DoctorProfileUpdate, img *Image) (*models.Doctor, error) {
	url, err := uploadImage(ctx, s.uploader, img, upload.DoctorFolder)
	if err != nil {
		return nil, err
	}
	if url != "" {
		u.Image = &url
	}
	doctor, err := s.doctors.UpdateProfile(ctx, id, u)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	if err != nil {
		return nil, util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	s.invalidate(ctx, id)
	return doctor, nil
}

func (s *DoctorService) ToggleAvailability(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	doctor, err := s.doctors.ToggleAvailability(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	if err != nil {
		return nil, util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	s.invalidate(ctx, id)
	log.Info().Str("doctorId", id.Hex()).Bool("available", doctor.Available).Msg("availability changed")
	return doctor, nil
}

/*
* Serve the directory from cache
* On a miss read the store and fill the cache
* Pending signups are not listed
 */
func (s *DoctorService) PublicList(ctx context.Context) ([]models.PublicDoctor, error) {
	var cached []models.PublicDoctor
	if err := s.cache.GetCache(ctx, util.DoctorListKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		log.Warn().Err(err).Msg("doctor list cache read failed")
	}

	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	list := make([]models.PublicDoctor, 0, len(doctors))
	for i := range doctors {
		if doctors[i].IsVerified {
			list = append(list, doctors[i].Public())
		}
	}
	if err := s.cache.SetCache(ctx, util.DoctorListKey, list); err != nil {
		log.Warn().Err(err).Msg("doctor list cache write failed")
	}
	return list, nil
}

func (s *DoctorService) PublicProfile(ctx context.Context, hex string) (*models.PublicDoctor, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	key := util.DoctorKey + hex
	var cached models.PublicDoctor
	if err := s.cache.GetCache(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	doctor, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doctor.IsVerified {
		return nil, util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	public := doctor.Public()
	if err := s.cache.SetCache(ctx, key, public); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("doctor cache write failed")
	}
	return &public, nil
}

/*
* Aggregate the counters over paid chats
* Attach the five most recently active chats
 */
func (s *DoctorService) Dashboard(ctx context.Context, id primitive.ObjectID) (*models.DoctorDashboard, error) {
	now := s.now()
	stats, err := s.chats.DoctorStats(ctx, id, now)
	if err != nil {
		return nil, util.Internal(util.FAILED_TO_LOAD_DASHBOARD, err)
	}
	latest, err := s.chats.List(ctx, repository.DoctorOwner(id), "updatedAt", 5, repository.Populate{User: true})
	if err != nil {
		return nil, util.Internal(util.FAILED_TO_LOAD_DASHBOARD, err)
	}
	for i := range latest {
		latest[i].Stamp(now)
	}
	return &models.DoctorDashboard{DoctorStats: stats, LatestChats: latest}, nil
}

// InvalidateDirectory drops the cached doctor list after a signup changes it.
func (s *DoctorService) InvalidateDirectory(ctx context.Context) {
	if err := s.cache.DeleteCache(ctx, util.DoctorListKey); err != nil {
		log.Warn().Err(err).Msg("doctor list cache invalidation failed")
	}
}

func (s *DoctorService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if err := s.cache.DeleteCache(ctx, util.DoctorKey+id.Hex(), util.DoctorListKey); err != nil {
		log.Warn().Err(err).Str("doctorId", id.Hex()).Msg("doctor cache invalidation failed")
	}
}
