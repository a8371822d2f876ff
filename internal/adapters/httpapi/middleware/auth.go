package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sns/internal/apperror"
	"sns/internal/config"
	authapp "sns/internal/core/auth/service"
	userEntity "sns/internal/core/user"
	userPort "sns/internal/ports/user"
)

// TokenVerifier is the slice of the auth service the guards need.
type TokenVerifier interface {
	ExtractTokenFromHeader(header string, isBearer bool) (string, error)
	VerifyToken(token string) (*authapp.TokenClaims, error)
	DecodeBasicToken(token string) (string, string, error)
}

// UserLoader resolves the token subject to a current user snapshot.
type UserLoader interface {
	GetUserByEmail(ctx context.Context, email string) (*userEntity.User, error)
}

// AuthContext is the typed result of a passed bearer guard. It is stored once
// per request and read by value; handlers never mutate it.
type AuthContext struct {
	User      userEntity.User
	Token     string
	TokenKind string
}

// BasicCredentials is what the basic-token guard hands to the login handler.
type BasicCredentials struct {
	Email    string
	Password string
}

const (
	authContextKey = "authContext"
	basicCredsKey  = "basicCredentials"
)

func FromContext(c *gin.Context) (AuthContext, bool) {
	v, ok := c.Get(authContextKey)
	if !ok {
		return AuthContext{}, false
	}
	auth, ok := v.(AuthContext)
	return auth, ok
}

func BasicFromContext(c *gin.Context) (BasicCredentials, bool) {
	v, ok := c.Get(basicCredsKey)
	if !ok {
		return BasicCredentials{}, false
	}
	creds, ok := v.(BasicCredentials)
	return creds, ok
}

// Guards bundles the request-time checks that run before domain handlers.
// Each guard short-circuits: the first failure aborts the request.
type Guards struct {
	auth  TokenVerifier
	users UserLoader
	cache userPort.UserCache
}

func NewGuards(auth TokenVerifier, users UserLoader, cache userPort.UserCache) *Guards {
	return &Guards{auth: auth, users: users, cache: cache}
}

// authenticate runs the bearer checks and attaches the AuthContext.
func (g *Guards) authenticate(c *gin.Context) error {
	header := c.GetHeader("Authorization")
	if header == "" {
		return apperror.New(apperror.Unauthenticated, "token is missing")
	}

	token, err := g.auth.ExtractTokenFromHeader(header, true)
	if err != nil {
		return err
	}

	claims, err := g.auth.VerifyToken(token)
	if err != nil {
		return err
	}

	u, err := g.loadUser(c.Request.Context(), claims.Email)
	if err != nil {
		return err
	}

	c.Set(authContextKey, AuthContext{
		User:      *u,
		Token:     token,
		TokenKind: claims.Type,
	})
	return nil
}

// BearerToken verifies the Authorization bearer token and attaches the
// AuthContext for downstream guards and handlers.
func (g *Guards) BearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := g.authenticate(c); err != nil {
			Abort(c, err)
			return
		}
		c.Next()
	}
}

// AccessToken is BearerToken plus a kind check.
func (g *Guards) AccessToken() gin.HandlerFunc {
	return g.tokenOfKind(authapp.TokenTypeAccess, "an access token is required")
}

// RefreshToken is BearerToken plus a kind check.
func (g *Guards) RefreshToken() gin.HandlerFunc {
	return g.tokenOfKind(authapp.TokenTypeRefresh, "a refresh token is required")
}

func (g *Guards) tokenOfKind(kind, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := g.authenticate(c); err != nil {
			Abort(c, err)
			return
		}

		auth, _ := FromContext(c)
		if auth.TokenKind != kind {
			Abort(c, apperror.New(apperror.Unauthenticated, message))
			return
		}
		c.Next()
	}
}

// BasicToken decodes the Basic credential for the login handler. No user is
// loaded here; password verification is the login flow's job.
func (g *Guards) BasicToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			Abort(c, apperror.New(apperror.Unauthenticated, "token is missing"))
			return
		}

		token, err := g.auth.ExtractTokenFromHeader(header, false)
		if err != nil {
			Abort(c, err)
			return
		}

		email, password, err := g.auth.DecodeBasicToken(token)
		if err != nil {
			Abort(c, err)
			return
		}

		c.Set(basicCredsKey, BasicCredentials{Email: email, Password: password})
		c.Next()
	}
}

func (g *Guards) loadUser(ctx context.Context, email string) (*userEntity.User, error) {
	if g.cache != nil {
		u, err := g.cache.Get(ctx, email)
		if err != nil {
			config.Logger.Warn("user cache read failed", zap.Error(err))
		} else if u != nil {
			return u, nil
		}
	}

	u, err := g.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.New(apperror.Unauthenticated, "token subject does not exist")
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, u); err != nil {
			config.Logger.Warn("user cache write failed", zap.Error(err))
		}
	}
	return u, nil
}

// Abort ends the request with the status and message mapped from err.
func Abort(c *gin.Context, err error) {
	if apperror.KindOf(err) == apperror.Internal {
		config.Logger.Error("request aborted", zap.Error(err))
	}
	c.AbortWithStatusJSON(apperror.HTTPStatus(err), gin.H{"error": apperror.MessageOf(err)})
}
