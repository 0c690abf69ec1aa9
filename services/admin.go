package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"HealthLife/config/authorization"
	"HealthLife/config/jwt"
	"HealthLife/models"
	"HealthLife/repository"
	"HealthLife/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AdminConfig struct {
	Email    string
	Password string
}

type AdminService struct {
	cfg      AdminConfig
	tokens   *jwt.Manager
	doctors  DoctorStore
	patients PatientStore
	chats    ChatStore
	doctor   *DoctorService
	chat     *ChatService
}

func NewAdminService(cfg AdminConfig, tokens *jwt.Manager, doctors DoctorStore, patients PatientStore, chats ChatStore, doctor *DoctorService, chat *ChatService) *AdminService {
	return &AdminService{cfg: cfg, tokens: tokens, doctors: doctors, patients: patients, chats: chats, doctor: doctor, chat: chat}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

/*
* Compare against the configured credentials in constant time
* An unconfigured admin never logs in
 */
func (s *AdminService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if s.cfg.Email == "" || s.cfg.Password == "" {
		return "", util.Unauthorized(util.INVALID_ADMIN_CREDENTIALS)
	}
	emailOK := equal(strings.TrimSpace(req.Email), s.cfg.Email)
	passwordOK := equal(req.Password, s.cfg.Password)
	if !emailOK || !passwordOK {
		log.Warn().Msg("admin login rejected")
		return "", util.Unauthorized(util.INVALID_ADMIN_CREDENTIALS)
	}
	token, err := s.tokens.GenerateAdminJWT()
	if err != nil {
		return "", util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	return token, nil
}

/*
* Hash the password and insert a verified doctor with an incomplete profile
* The unique email index reports duplicates
 */
func (s *AdminService) AddDoctor(ctx context.Context, req models.AddDoctorRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(req.Password) < 8 {
		return util.BadRequest(util.PROVIDE_VALID_DETAILS)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	doctor := &models.Doctor{
		Account: models.Account{
			Name:          name,
			Email:         normalizeEmail(req.Email),
			Password:      string(hash),
			IsVerified:    true,
			ProfileStatus: util.PROFILE_INCOMPLETE,
		},
		Available: true,
	}
	err = s.doctors.Create(ctx, doctor)
	if errors.Is(err, repository.ErrDuplicate) {
		return util.BadRequest(util.DOCTOR_ALREADY_EXISTS)
	}
	if err != nil {
		return util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	s.doctor.invalidate(ctx, doctor.ID)
	log.Info().Str("doctorId", doctor.ID.Hex()).Msg("doctor added by admin")
	return nil
}

func (s *AdminService) AllDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	return doctors, nil
}

func parseDoctorID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	return id, nil
}

func (s *AdminService) DoctorProfile(ctx context.Context, hex string) (*models.Doctor, error) {
	id, err := parseDoctorID(hex)
	if err != nil {
		return nil, err
	}
	return s.doctor.find(ctx, id)
}

// UpdateDoctor edits any doctor. Unlike the doctor's own edit it leaves profileStatus alone.
func (s *AdminService) UpdateDoctor(ctx context.Context, hex string, u models.DoctorProfileUpdate, img *Image) (*models.Doctor, error) {
	id, err := parseDoctorID(hex)
	if err != nil {
		return nil, err
	}
	u.MarkComplete = false
	return s.doctor.UpdateProfile(ctx, id, u, img)
}

func (s *AdminService) ChangeAvailability(ctx context.Context, hex string) (*models.Doctor, error) {
	id, err := parseDoctorID(hex)
	if err != nil {
		return nil, err
	}
	return s.doctor.ToggleAvailability(ctx, id)
}

func (s *AdminService) Consultations(ctx context.Context) ([]models.Chat, error) {
	return s.chat.List(ctx, authorization.Identity{Role: jwt.RoleAdmin})
}

/*
* Count doctors, patients and consultations
* Attach the five newest consultations with both parties
 */
func (s *AdminService) Dashboard(ctx context.Context) (*models.AdminDashboard, error) {
	doctors, err := s.doctors.Count(ctx)
	if err != nil {
		return nil, util.Internal(util.FAILED_TO_LOAD_DASHBOARD, err)
	}
	patients, err := s.patients.Count(ctx)
	if err != nil {
		return nil, util.Internal(util.FAILED_TO_LOAD_DASHBOARD, err)
	}
	consultations, err := s.chats.Count(ctx)
	if err != nil {
		return nil, util.Internal(util.FAILED_TO_LOAD_DASHBOARD, err)
	}
	latest, err := s.chats.List(ctx, repository.AnyOwner, "createdAt", 5, repository.Populate{User: true, Doctor: true})
	if err != nil {
		return nil, util.Internal(util.FAILED_TO_LOAD_DASHBOARD, err)
	}
	now := s.chat.now()
	for i := range latest {
		latest[i].Stamp(now)
	}
	return &models.AdminDashboard{
		Doctors:             doctors,
		Patients:            patients,
		Consultations:       consultations,
		LatestConsultations: latest,
	}, nil
}
