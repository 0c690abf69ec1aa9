package routes

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"HealthLife/config"
	"HealthLife/config/jwt"
	"HealthLife/events"
	"HealthLife/models"
	"HealthLife/repository/memory"
	"HealthLife/server"
	"HealthLife/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type recordingMailer struct {
	mu   sync.Mutex
	last map[string]string
}

func (m *recordingMailer) Send(_ context.Context, to, _, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[to] = htmlBody
	return nil
}

var codePattern = regexp.MustCompile(`<b>(\d{6})</b>`)

func (m *recordingMailer) code(t *testing.T, to string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	match := codePattern.FindStringSubmatch(m.last[to])
	require.Len(t, match, 2, "no code mailed to %s", to)
	return match[1]
}

type testServer struct {
	router   *gin.Engine
	patients *memory.Patients
	doctors  *memory.Doctors
	chats    *memory.Chats
	mailer   *recordingMailer
	tokens   *jwt.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, util.RegisterValidators())

	cfg := &config.Config{
		JWTSecret:              "test-secret",
		TokenTTL:               time.Hour,
		AdminTokenTTL:          time.Hour,
		AdminEmail:             "admin@healthlife.com",
		AdminPassword:          "s3cret",
		OTPTTL:                 10 * time.Minute,
		ChatDuration:           24 * time.Hour,
		DoctorReplyAfterExpiry: true,
		ContactInbox:           "inbox@healthlife.com",
	}
	ts := &testServer{
		patients: memory.NewPatients(),
		doctors:  memory.NewDoctors(),
		mailer:   &recordingMailer{last: map[string]string{}},
		tokens:   jwt.NewManager(cfg.JWTSecret, cfg.TokenTTL, cfg.AdminTokenTTL),
	}
	ts.chats = memory.NewChats(ts.patients, ts.doctors)
	res := &server.Resources{Config: cfg, Mailer: ts.mailer, Hub: events.NewHub(8)}
	h, auth := build(res, ts.patients, ts.doctors, ts.chats)
	ts.router = gin.New()
	Routes(ts.router, h, auth)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	var out gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func (ts *testServer) patient(t *testing.T, name string) (*models.Patient, string) {
	t.Helper()
	p := ts.patients.Add(models.Patient{Account: models.Account{Name: name, Email: strings.ToLower(name) + "@example.com", IsVerified: true}})
	token, err := ts.tokens.GenerateJWT(p.ID.Hex(), jwt.RoleUser)
	require.NoError(t, err)
	return p, token
}

func (ts *testServer) doctor(t *testing.T, available bool) (*models.Doctor, string) {
	t.Helper()
	d := ts.doctors.Add(models.Doctor{Account: models.Account{Name: "Dr Lee", Email: "lee@example.com", IsVerified: true}, Speciality: "Dermatologist", Available: available})
	token, err := ts.tokens.GenerateJWT(d.ID.Hex(), jwt.RoleDoctor)
	require.NoError(t, err)
	return d, token
}

func (ts *testServer) startChat(t *testing.T, token string, doctorID primitive.ObjectID) string {
	t.Helper()
	w, body := ts.do(t, http.MethodPost, "/api/chats/start", token, gin.H{"doctorId": doctorID.Hex()})
	require.Equal(t, http.StatusOK, w.Code, body)
	return body["chat"].(map[string]interface{})["_id"].(string)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	w, body := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestPatientSignupFlow(t *testing.T) {
	ts := newTestServer(t)

	w, body := ts.do(t, http.MethodPost, "/api/user/register/request-otp", "", gin.H{"name": "Ann", "email": "ann@example.com", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, util.OTP_SENT, body["message"])

	w, _ = ts.do(t, http.MethodPost, "/api/user/login", "", gin.H{"email": "ann@example.com", "password": "password1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	code := ts.mailer.code(t, "ann@example.com")
	w, body = ts.do(t, http.MethodPost, "/api/user/register/verify-otp", "", gin.H{"email": "ann@example.com", "otp": code})
	require.Equal(t, http.StatusOK, w.Code, body)

	w, body = ts.do(t, http.MethodPost, "/api/user/login", "", gin.H{"email": "ann@example.com", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code, body)
	token := body["token"].(string)

	w, body = ts.do(t, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code, body)
	user := body["userData"].(map[string]interface{})
	assert.Equal(t, "Ann", user["name"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "otp")
}

func TestVerifyOTP_RejectsMalformedCode(t *testing.T) {
	ts := newTestServer(t)
	w, body := ts.do(t, http.MethodPost, "/api/user/register/verify-otp", "", gin.H{"email": "ann@example.com", "otp": "12ab"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestLogin_FailureIsGeneric(t *testing.T) {
	ts := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	ts.patients.Add(models.Patient{Account: models.Account{Email: "ann@example.com", Password: string(hash), IsVerified: true}})

	_, unknown := ts.do(t, http.MethodPost, "/api/user/login", "", gin.H{"email": "nobody@example.com", "password": "password1"})
	w, wrong := ts.do(t, http.MethodPost, "/api/user/login", "", gin.H{"email": "ann@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, unknown["message"], wrong["message"])
	assert.Equal(t, util.INVALID_CREDENTIALS, wrong["message"])
}

func TestProtectedRoutes_RequireMatchingToken(t *testing.T) {
	ts := newTestServer(t)
	_, patientToken := ts.patient(t, "Ann")

	w, body := ts.do(t, http.MethodGet, "/api/chats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, util.NOT_AUTHORIZED_NO_TOKEN, body["message"])

	w, body = ts.do(t, http.MethodGet, "/api/doctor/chats", patientToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, util.DOCTOR_NOT_AUTHORIZED_FAILED, body["message"])

	w, _ = ts.do(t, http.MethodGet, "/api/admin/dashboard", patientToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStartChat_UnavailableDoctor(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.patient(t, "Ann")
	doc, _ := ts.doctor(t, false)

	w, body := ts.do(t, http.MethodPost, "/api/chats/start", token, gin.H{"doctorId": doc.ID.Hex()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, util.DOCTOR_NOT_AVAILABLE, body["message"])
	assert.Empty(t, ts.chats.All())
}

func TestChat_ConversationBetweenParties(t *testing.T) {
	ts := newTestServer(t)
	_, patientToken := ts.patient(t, "Ann")
	doc, doctorToken := ts.doctor(t, true)
	chatID := ts.startChat(t, patientToken, doc.ID)

	w, body := ts.do(t, http.MethodPost, "/api/chats/message", patientToken, gin.H{"chatId": chatID, "text": "  hello doctor  "})
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, util.MESSAGE_SENT, body["message"])

	w, body = ts.do(t, http.MethodPost, "/api/doctor/chats/reply", doctorToken, gin.H{"chatId": chatID, "text": "hello Ann"})
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, util.REPLY_SENT, body["message"])

	w, body = ts.do(t, http.MethodGet, "/api/chats/single/"+chatID, patientToken, nil)
	require.Equal(t, http.StatusOK, w.Code, body)
	chat := body["chat"].(map[string]interface{})
	msgs := chat["messages"].([]interface{})
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello doctor", msgs[0].(map[string]interface{})["text"])
	assert.Equal(t, models.SenderDoctor, msgs[1].(map[string]interface{})["sender"])
	assert.Equal(t, "Dr Lee", chat["doctor"].(map[string]interface{})["name"])

	w, body = ts.do(t, http.MethodGet, "/api/doctor/chats", doctorToken, nil)
	require.Equal(t, http.StatusOK, w.Code, body)
	chats := body["chats"].([]interface{})
	require.Len(t, chats, 1)
	assert.Equal(t, "Ann", chats[0].(map[string]interface{})["user"].(map[string]interface{})["name"])
}

func TestChat_CrossAccessIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	_, ownerToken := ts.patient(t, "Ann")
	_, otherToken := ts.patient(t, "Bob")
	doc, _ := ts.doctor(t, true)
	chatID := ts.startChat(t, ownerToken, doc.ID)

	w, body := ts.do(t, http.MethodGet, "/api/chats/single/"+chatID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, util.CHAT_NOT_FOUND, body["message"])

	w, _ = ts.do(t, http.MethodPost, "/api/chats/message", otherToken, gin.H{"chatId": chatID, "text": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = ts.do(t, http.MethodGet, "/api/chats", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["chats"])
}

func TestChat_ExpiredRejectsPatientButNotDoctor(t *testing.T) {
	ts := newTestServer(t)
	p, patientToken := ts.patient(t, "Ann")
	doc, doctorToken := ts.doctor(t, true)
	chat := &models.Chat{UserID: p.ID, DoctorID: doc.ID, PaymentStatus: true, ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, ts.chats.Create(context.Background(), chat))
	chatID := chat.ID.Hex()

	w, body := ts.do(t, http.MethodPost, "/api/chats/message", patientToken, gin.H{"chatId": chatID, "text": "still there?"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, util.CHAT_EXPIRED, body["message"])

	w, body = ts.do(t, http.MethodGet, "/api/chats/single/"+chatID, patientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["chat"].(map[string]interface{})["isActive"])

	w, body = ts.do(t, http.MethodPost, "/api/doctor/chats/reply", doctorToken, gin.H{"chatId": chatID, "text": "follow up"})
	assert.Equal(t, http.StatusOK, w.Code, body)
}

func TestChat_BlankMessage(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.patient(t, "Ann")
	doc, _ := ts.doctor(t, true)
	chatID := ts.startChat(t, token, doc.ID)

	w, body := ts.do(t, http.MethodPost, "/api/chats/message", token, gin.H{"chatId": chatID, "text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, util.MESSAGE_EMPTY, body["message"])
}

// readEvent scans the stream until the named event and returns its data line.
func readEvent(t *testing.T, r *bufio.Reader, name string) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if strings.TrimSpace(line) != "event:"+name {
			continue
		}
		data, err := r.ReadString('\n')
		require.NoError(t, err)
		return strings.TrimPrefix(strings.TrimSpace(data), "data:")
	}
}

func TestChatStream(t *testing.T) {
	ts := newTestServer(t)
	_, ownerToken := ts.patient(t, "Ann")
	_, otherToken := ts.patient(t, "Bob")
	doc, doctorToken := ts.doctor(t, true)
	chatID := ts.startChat(t, ownerToken, doc.ID)

	srv := httptest.NewServer(ts.router)
	defer srv.Close()
	client := &http.Client{Timeout: 5 * time.Second}

	open := func(token string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/doctor/chats/stream/"+chatID, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := client.Do(req)
		require.NoError(t, err)
		return res
	}

	res := open(otherToken)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	res.Body.Close()

	res = open(doctorToken)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/event-stream")
	reader := bufio.NewReader(res.Body)
	assert.Contains(t, readEvent(t, reader, "ready"), chatID)

	w, _ := ts.do(t, http.MethodPost, "/api/chats/message", ownerToken, gin.H{"chatId": chatID, "text": "are you there"})
	require.Equal(t, http.StatusOK, w.Code)

	var e events.Event
	require.NoError(t, json.Unmarshal([]byte(readEvent(t, reader, events.TypeMessage)), &e))
	assert.Equal(t, chatID, e.ChatID)
	require.NotNil(t, e.Message)
	assert.Equal(t, "are you there", e.Message.Text)
	assert.Equal(t, models.SenderUser, e.Message.Sender)
}

func TestChatStream_NonOwnerIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	_, ownerToken := ts.patient(t, "Ann")
	_, otherToken := ts.patient(t, "Bob")
	doc, _ := ts.doctor(t, true)
	chatID := ts.startChat(t, ownerToken, doc.ID)

	w, body := ts.do(t, http.MethodGet, "/api/chats/stream/"+chatID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, util.CHAT_NOT_FOUND, body["message"])
}

func TestPublicDoctorEndpoints(t *testing.T) {
	ts := newTestServer(t)
	doc, _ := ts.doctor(t, true)

	w, body := ts.do(t, http.MethodGet, "/api/doctor/list", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doctors := body["doctors"].([]interface{})
	require.Len(t, doctors, 1)
	assert.NotContains(t, doctors[0], "email")

	w, body = ts.do(t, http.MethodGet, "/api/doctor/public-profile/"+doc.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dr Lee", body["profileData"].(map[string]interface{})["name"])

	w, _ = ts.do(t, http.MethodGet, "/api/doctor/public-profile/"+primitive.NewObjectID().Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminFlow(t *testing.T) {
	ts := newTestServer(t)
	w, body := ts.do(t, http.MethodPost, "/api/admin/login", "", gin.H{"email": "admin@healthlife.com", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code, body)
	token := body["token"].(string)

	w, body = ts.do(t, http.MethodPost, "/api/admin/add-doctor", token, gin.H{"name": "Dr New", "email": "new@example.com", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code, body)
	w, _ = ts.do(t, http.MethodPost, "/api/admin/add-doctor", token, gin.H{"name": "Dr New", "email": "new@example.com", "password": "password1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = ts.do(t, http.MethodGet, "/api/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code, body)
	dash := body["dashData"].(map[string]interface{})
	assert.EqualValues(t, 1, dash["doctors"])
	assert.EqualValues(t, 0, dash["consultations"])

	w, body = ts.do(t, http.MethodPost, "/api/doctor/login", "", gin.H{"email": "new@example.com", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, util.PROFILE_INCOMPLETE, body["profileStatus"])
}

func TestContactSend(t *testing.T) {
	ts := newTestServer(t)
	w, body := ts.do(t, http.MethodPost, "/api/contact/send", "", gin.H{"name": "Ann", "email": "ann@example.com", "subject": "Hi", "message": "<script>x</script>"})
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, util.CONTACT_SENT, body["message"])

	ts.mailer.mu.Lock()
	defer ts.mailer.mu.Unlock()
	assert.NotContains(t, ts.mailer.last["inbox@healthlife.com"], "<script>")
}
