package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sns/internal/config"
	authapp "sns/internal/core/auth/service"
	userEntity "sns/internal/core/user"
)

type staticUserLoader struct {
	users map[string]*userEntity.User
}

func (l *staticUserLoader) CreateUser(_ context.Context, nickname, email, passwordHash string) (*userEntity.User, error) {
	u := &userEntity.User{Nickname: nickname, Email: email, Password: passwordHash}
	l.users[email] = u
	return u, nil
}

func (l *staticUserLoader) GetUserByEmail(_ context.Context, email string) (*userEntity.User, error) {
	u, ok := l.users[email]
	if !ok {
		return nil, errors.New("user does not exist")
	}
	return u, nil
}

type recordingCache struct {
	stored map[string]*userEntity.User
	hits   int
}

func (c *recordingCache) Get(_ context.Context, email string) (*userEntity.User, error) {
	u, ok := c.stored[email]
	if ok {
		c.hits++
		return u, nil
	}
	return nil, nil
}

func (c *recordingCache) Set(_ context.Context, u *userEntity.User) error {
	c.stored[u.Email] = u
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, email string) error {
	delete(c.stored, email)
	return nil
}

func guardFixture(t *testing.T) (*Guards, *authapp.AuthService, *userEntity.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Logger = zap.NewNop()

	loader := &staticUserLoader{users: map[string]*userEntity.User{}}
	u := &userEntity.User{Nickname: "nick", Email: "a@b.com", Role: userEntity.RoleUser}
	u.ID = 1
	loader.users[u.Email] = u

	auth := authapp.NewAuthService(loader, []byte("test-secret"), time.Minute, time.Hour, bcrypt.MinCost)
	return NewGuards(auth, loader, nil), auth, u
}

func runGuard(guard gin.HandlerFunc, header string, capture *AuthContext) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/probe", guard, func(c *gin.Context) {
		if capture != nil {
			if auth, ok := FromContext(c); ok {
				*capture = auth
			}
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerTokenGuard(t *testing.T) {
	guards, auth, u := guardFixture(t)

	token, err := auth.SignToken(u, false)
	require.NoError(t, err)

	var captured AuthContext
	w := runGuard(guards.BearerToken(), "Bearer "+token, &captured)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, u.Email, captured.User.Email)
	assert.Equal(t, authapp.TokenTypeAccess, captured.TokenKind)
	assert.Equal(t, token, captured.Token)

	w = runGuard(guards.BearerToken(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = runGuard(guards.BearerToken(), "Bearer garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = runGuard(guards.BearerToken(), "Basic "+token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerTokenGuardUnknownSubject(t *testing.T) {
	guards, auth, _ := guardFixture(t)

	ghost := &userEntity.User{Email: "ghost@b.com"}
	ghost.ID = 9
	token, err := auth.SignToken(ghost, false)
	require.NoError(t, err)

	w := runGuard(guards.BearerToken(), "Bearer "+token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token subject does not exist")
}

func TestTokenKindGuards(t *testing.T) {
	guards, auth, u := guardFixture(t)

	access, err := auth.SignToken(u, false)
	require.NoError(t, err)
	refresh, err := auth.SignToken(u, true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, runGuard(guards.AccessToken(), "Bearer "+access, nil).Code)
	assert.Equal(t, http.StatusOK, runGuard(guards.RefreshToken(), "Bearer "+refresh, nil).Code)

	// wrong kind is rejected even though the token itself is valid
	w := runGuard(guards.AccessToken(), "Bearer "+refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "an access token is required")

	w = runGuard(guards.RefreshToken(), "Bearer "+access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "a refresh token is required")
}

func TestBasicTokenGuard(t *testing.T) {
	guards, _, _ := guardFixture(t)

	var captured BasicCredentials
	r := gin.New()
	r.POST("/login", guards.BasicToken(), func(c *gin.Context) {
		captured, _ = BasicFromContext(c)
		c.Status(http.StatusOK)
	})

	cred := base64.StdEncoding.EncodeToString([]byte("a@b.com:secret"))
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Authorization", "Basic "+cred)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@b.com", captured.Email)
	assert.Equal(t, "secret", captured.Password)

	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Authorization", "Basic not-base64!!!")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBearerGuardUsesCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.Logger = zap.NewNop()

	loader := &staticUserLoader{users: map[string]*userEntity.User{}}
	u := &userEntity.User{Nickname: "nick", Email: "a@b.com"}
	u.ID = 1
	loader.users[u.Email] = u

	auth := authapp.NewAuthService(loader, []byte("test-secret"), time.Minute, time.Hour, bcrypt.MinCost)
	cache := &recordingCache{stored: map[string]*userEntity.User{}}
	guards := NewGuards(auth, loader, cache)

	token, err := auth.SignToken(u, false)
	require.NoError(t, err)

	// first pass misses and populates, second pass hits
	assert.Equal(t, http.StatusOK, runGuard(guards.BearerToken(), "Bearer "+token, nil).Code)
	require.Contains(t, cache.stored, u.Email)
	assert.Equal(t, 0, cache.hits)

	assert.Equal(t, http.StatusOK, runGuard(guards.BearerToken(), "Bearer "+token, nil).Code)
	assert.Equal(t, 1, cache.hits)
}

func TestRolesGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.Logger = zap.NewNop()

	table := RouteRoles{"GET /admin": userEntity.RoleAdmin}

	serve := func(role userEntity.Role, path string, withAuth bool) *httptest.ResponseRecorder {
		r := gin.New()
		seed := func(c *gin.Context) {
			if withAuth {
				u := userEntity.User{Role: role}
				u.ID = 1
				c.Set(authContextKey, AuthContext{User: u})
			}
			c.Next()
		}
		r.GET("/admin", seed, RolesGuard(table), func(c *gin.Context) { c.Status(http.StatusOK) })
		r.GET("/open", seed, RolesGuard(table), func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, serve(userEntity.RoleAdmin, "/admin", true).Code)
	assert.Equal(t, http.StatusForbidden, serve(userEntity.RoleUser, "/admin", true).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(userEntity.RoleUser, "/admin", false).Code)
	// untabled routes pass regardless of role
	assert.Equal(t, http.StatusOK, serve(userEntity.RoleUser, "/open", true).Code)
}

func TestOwnerOrAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.Logger = zap.NewNop()

	isMine := func(_ context.Context, userID, resourceID uint) (bool, error) {
		return resourceID == 10 && userID == 1, nil
	}

	serve := func(role userEntity.Role, path string, withAuth bool) *httptest.ResponseRecorder {
		r := gin.New()
		seed := func(c *gin.Context) {
			if withAuth {
				u := userEntity.User{Role: role}
				u.ID = 1
				c.Set(authContextKey, AuthContext{User: u})
			}
			c.Next()
		}
		r.DELETE("/posts/:id", seed, OwnerOrAdmin("id", isMine), func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodDelete, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, serve(userEntity.RoleUser, "/posts/10", true).Code)
	assert.Equal(t, http.StatusForbidden, serve(userEntity.RoleUser, "/posts/11", true).Code)
	// admins skip the ownership check entirely
	assert.Equal(t, http.StatusOK, serve(userEntity.RoleAdmin, "/posts/11", true).Code)
	assert.Equal(t, http.StatusBadRequest, serve(userEntity.RoleUser, "/posts/abc", true).Code)
	// a missing bearer guard earlier in the chain is a server bug
	assert.Equal(t, http.StatusInternalServerError, serve(userEntity.RoleUser, "/posts/10", false).Code)
}
