package authorization

import (
	"context"
	"strings"

	"HealthLife/config/jwt"
	"HealthLife/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const identityKey = "identity"

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	ID   primitive.ObjectID
	Role string
}

func (i Identity) IsAdmin() bool {
	return i.Role == jwt.RoleAdmin
}

// AccountResolver confirms that the subject of a token is still a live account.
type AccountResolver interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type messages struct {
	noToken  string
	failed   string
	notFound string
}

var (
	userMessages   = messages{util.NOT_AUTHORIZED_NO_TOKEN, util.NOT_AUTHORIZED_TOKEN_FAILED, util.NOT_AUTHORIZED_USER_NOT_FOUND}
	doctorMessages = messages{util.DOCTOR_NOT_AUTHORIZED_NO_TOKEN, util.DOCTOR_NOT_AUTHORIZED_FAILED, util.DOCTOR_NOT_AUTHORIZED_NOTFOUND}
)

type Authorizer struct {
	tokens  *jwt.Manager
	users   AccountResolver
	doctors AccountResolver
}

func New(tokens *jwt.Manager, users, doctors AccountResolver) *Authorizer {
	return &Authorizer{tokens: tokens, users: users, doctors: doctors}
}

/*
* Extract the token from "Authorization: Bearer <token>"
 */
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func (a *Authorizer) RequireUser() gin.HandlerFunc {
	return a.requireAccount(jwt.RoleUser, a.users, userMessages)
}

func (a *Authorizer) RequireDoctor() gin.HandlerFunc {
	return a.requireAccount(jwt.RoleDoctor, a.doctors, doctorMessages)
}

/*
* Parse the bearer token, check the role claim
* Resolve the subject against the store so deleted accounts lose access
* Attach the identity to the context
 */
func (a *Authorizer) requireAccount(role string, resolver AccountResolver, msg messages) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			util.Fail(c, util.Unauthorized(msg.noToken))
			return
		}
		claims, err := a.tokens.ParseJWT(token)
		if err != nil {
			log.Debug().Err(err).Str("role", role).Msg("token rejected")
			util.Fail(c, util.Unauthorized(msg.failed))
			return
		}
		if claims.Role != role {
			util.Fail(c, util.Unauthorized(msg.failed))
			return
		}
		id, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			util.Fail(c, util.Unauthorized(msg.failed))
			return
		}
		exists, err := resolver.Exists(c.Request.Context(), id)
		if err != nil {
			log.Error().Err(err).Str("role", role).Msg("failed to resolve token subject")
			util.Fail(c, util.Unauthorized(msg.failed))
			return
		}
		if !exists {
			util.Fail(c, util.Unauthorized(msg.notFound))
			return
		}
		c.Set(identityKey, Identity{ID: id, Role: role})
		c.Next()
	}
}

/*
* Admin is not persisted, the isAdmin claim is trusted once the signature verifies
 */
func (a *Authorizer) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			util.Fail(c, util.Unauthorized(util.ADMIN_NOT_AUTHORIZED_NO_TOKEN))
			return
		}
		claims, err := a.tokens.ParseJWT(token)
		if err != nil {
			log.Debug().Err(err).Msg("admin token rejected")
			util.Fail(c, util.Unauthorized(util.ADMIN_NOT_AUTHORIZED_FAILED))
			return
		}
		if !claims.IsAdmin {
			util.Fail(c, util.Unauthorized(util.ADMIN_NOT_AUTHORIZED_INVALID))
			return
		}
		c.Set(identityKey, Identity{Role: jwt.RoleAdmin})
		c.Next()
	}
}

// GetIdentity returns the identity set by one of the Require middlewares.
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
