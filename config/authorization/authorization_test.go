package authorization

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"HealthLife/config/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type staticResolver struct {
	known map[primitive.ObjectID]bool
	err   error
}

func (s staticResolver) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	return s.known[id], s.err
}

func setup(t *testing.T, users, doctors AccountResolver) (*jwt.Manager, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := jwt.NewManager("secret", time.Hour, time.Hour)
	a := New(tokens, users, doctors)

	r := gin.New()
	handler := func(c *gin.Context) {
		id, ok := GetIdentity(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id.ID.Hex(), "role": id.Role})
	}
	r.GET("/user", a.RequireUser(), handler)
	r.GET("/doctor", a.RequireDoctor(), handler)
	r.GET("/admin", a.RequireAdmin(), handler)
	return tokens, r
}

func call(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUser(t *testing.T) {
	id := primitive.NewObjectID()
	tokens, r := setup(t, staticResolver{known: map[primitive.ObjectID]bool{id: true}}, staticResolver{})

	token, err := tokens.GenerateJWT(id.Hex(), jwt.RoleUser)
	require.NoError(t, err)

	w := call(r, "/user", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.Hex())
}

func TestRequireUserFailures(t *testing.T) {
	known := primitive.NewObjectID()
	tokens, r := setup(t, staticResolver{known: map[primitive.ObjectID]bool{known: true}}, staticResolver{})

	gone, err := tokens.GenerateJWT(primitive.NewObjectID().Hex(), jwt.RoleUser)
	require.NoError(t, err)
	doctorToken, err := tokens.GenerateJWT(known.Hex(), jwt.RoleDoctor)
	require.NoError(t, err)

	cases := []struct {
		name  string
		token string
		msg   string
	}{
		{"missing", "", "no token"},
		{"garbage", "not-a-jwt", "token failed"},
		{"wrong role", doctorToken, "token failed"},
		{"deleted account", gone, "user not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := call(r, "/user", tc.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.msg)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestRequireDoctorResolverError(t *testing.T) {
	id := primitive.NewObjectID()
	tokens, r := setup(t, staticResolver{}, staticResolver{err: errors.New("db down")})

	token, err := tokens.GenerateJWT(id.Hex(), jwt.RoleDoctor)
	require.NoError(t, err)

	w := call(r, "/doctor", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	tokens, r := setup(t, staticResolver{}, staticResolver{})

	admin, err := tokens.GenerateAdminJWT()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call(r, "/admin", admin).Code)

	user, err := tokens.GenerateJWT(primitive.NewObjectID().Hex(), jwt.RoleUser)
	require.NoError(t, err)
	w := call(r, "/admin", user)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")

	assert.Equal(t, http.StatusUnauthorized, call(r, "/admin", "").Code)
}
