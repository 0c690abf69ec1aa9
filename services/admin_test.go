package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"HealthLife/config/jwt"
	"HealthLife/models"
	"HealthLife/repository/memory"
	"HealthLife/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type adminFixture struct {
	svc      *AdminService
	doctors  *memory.Doctors
	patients *memory.Patients
	chats    *memory.Chats
	tokens   *jwt.Manager
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	doctors := memory.NewDoctors()
	patients := memory.NewPatients()
	chats := memory.NewChats(patients, doctors)
	tokens := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	doctorSvc := NewDoctorService(doctors, chats, newMemoryCache(), nil)
	chatSvc := NewChatService(chats, doctors, nopBroker{}, ChatConfig{})
	svc := NewAdminService(AdminConfig{Email: "admin@healthlife.com", Password: "s3cret"}, tokens, doctors, patients, chats, doctorSvc, chatSvc)
	return &adminFixture{svc: svc, doctors: doctors, patients: patients, chats: chats, tokens: tokens}
}

func TestAdminLogin(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, models.LoginRequest{Email: "admin@healthlife.com", Password: "wrong"})
	assertAppError(t, err, http.StatusUnauthorized, util.INVALID_ADMIN_CREDENTIALS)

	token, err := f.svc.Login(ctx, models.LoginRequest{Email: "admin@healthlife.com", Password: "s3cret"})
	require.NoError(t, err)
	claims, err := f.tokens.ParseJWT(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)
}

func TestAdminLogin_Unconfigured(t *testing.T) {
	svc := NewAdminService(AdminConfig{}, jwt.NewManager("x", time.Hour, time.Hour), nil, nil, nil, nil, nil)
	_, err := svc.Login(context.Background(), models.LoginRequest{})
	assertAppError(t, err, http.StatusUnauthorized, util.INVALID_ADMIN_CREDENTIALS)
}

func TestAddDoctor(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	req := models.AddDoctorRequest{Name: "Dr New", Email: "new@example.com", Password: "password1"}

	require.NoError(t, f.svc.AddDoctor(ctx, req))
	doctors, err := f.svc.AllDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.True(t, doctors[0].IsVerified)
	assert.True(t, doctors[0].Available)
	assert.Equal(t, util.PROFILE_INCOMPLETE, doctors[0].ProfileStatus)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(doctors[0].Password), []byte("password1")))

	err = f.svc.AddDoctor(ctx, req)
	assertAppError(t, err, http.StatusBadRequest, util.DOCTOR_ALREADY_EXISTS)
}

func TestChangeAvailability(t *testing.T) {
	f := newAdminFixture(t)
	doc := f.doctors.Add(models.Doctor{Account: models.Account{Name: "Dr A"}, Available: true})

	updated, err := f.svc.ChangeAvailability(context.Background(), doc.ID.Hex())
	require.NoError(t, err)
	assert.False(t, updated.Available)

	_, err = f.svc.ChangeAvailability(context.Background(), primitive.NewObjectID().Hex())
	assertAppError(t, err, http.StatusNotFound, util.DOCTOR_NOT_FOUND)
}

func TestAdminUpdateDoctor_KeepsProfileStatus(t *testing.T) {
	f := newAdminFixture(t)
	doc := f.doctors.Add(models.Doctor{Account: models.Account{Name: "Dr A", ProfileStatus: util.PROFILE_INCOMPLETE}})
	name := "Dr Renamed"

	updated, err := f.svc.UpdateDoctor(context.Background(), doc.ID.Hex(), models.DoctorProfileUpdate{Name: &name, MarkComplete: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Dr Renamed", updated.Name)
	assert.Equal(t, util.PROFILE_INCOMPLETE, updated.ProfileStatus)
}

func TestAdminDashboard(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	doc := f.doctors.Add(models.Doctor{Account: models.Account{Name: "Dr A"}})
	pid := primitive.NewObjectID()
	f.patients.Add(models.Patient{Account: models.Account{ID: pid}})
	for i := 0; i < 6; i++ {
		require.NoError(t, f.chats.Create(ctx, &models.Chat{UserID: pid, DoctorID: doc.ID, PaymentStatus: true, ExpiresAt: time.Now().Add(time.Hour)}))
	}

	dash, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dash.Doctors)
	assert.Equal(t, int64(1), dash.Patients)
	assert.Equal(t, int64(6), dash.Consultations)
	assert.Len(t, dash.LatestConsultations, 5)
	assert.NotNil(t, dash.LatestConsultations[0].User)
	assert.NotNil(t, dash.LatestConsultations[0].Doctor)

	all, err := f.svc.Consultations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
