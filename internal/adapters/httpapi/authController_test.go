package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sns/internal/adapters/httpapi/middleware"
	"sns/internal/config"
	authapp "sns/internal/core/auth/service"
	commentEntity "sns/internal/core/comment"
	postEntity "sns/internal/core/post"
	userEntity "sns/internal/core/user"
	"sns/internal/pagination"
	userPort "sns/internal/ports/user"
)

type memoryUserProvider struct {
	users  map[string]*userEntity.User
	nextID uint
}

func (p *memoryUserProvider) CreateUser(_ context.Context, nickname, email, passwordHash string) (*userEntity.User, error) {
	p.nextID++
	u := &userEntity.User{Nickname: nickname, Email: email, Password: passwordHash, Role: userEntity.RoleUser}
	u.ID = p.nextID
	p.users[email] = u
	return u, nil
}

func (p *memoryUserProvider) GetUserByEmail(_ context.Context, email string) (*userEntity.User, error) {
	return p.users[email], nil
}

type stubUserUC struct{}

func (stubUserUC) GetAllUsers(context.Context) ([]*userEntity.User, error) { return nil, nil }
func (stubUserUC) GetFollowers(context.Context, uint, bool) ([]*userPort.FollowerDTO, error) {
	return nil, nil
}
func (stubUserUC) FollowUser(context.Context, uint, uint) error { return nil }
func (stubUserUC) ConfirmFollow(context.Context, *gorm.DB, uint, uint) error {
	return nil
}
func (stubUserUC) DeleteFollow(context.Context, *gorm.DB, uint, uint) error     { return nil }
func (stubUserUC) IncrementFollowerCount(context.Context, *gorm.DB, uint) error { return nil }
func (stubUserUC) DecrementFollowerCount(context.Context, *gorm.DB, uint) error { return nil }
func (stubUserUC) IncrementFolloweeCount(context.Context, *gorm.DB, uint) error { return nil }
func (stubUserUC) DecrementFolloweeCount(context.Context, *gorm.DB, uint) error { return nil }

type stubPostUC struct{}

func (stubPostUC) PaginatePosts(context.Context, *pagination.Request) (interface{}, error) {
	return &pagination.CursorResponse[*postEntity.Post]{Data: []*postEntity.Post{}}, nil
}
func (stubPostUC) GetPostByID(context.Context, *gorm.DB, uint) (*postEntity.Post, error) {
	return nil, nil
}
func (stubPostUC) CreatePost(context.Context, *gorm.DB, uint, string, string) (*postEntity.Post, error) {
	return nil, nil
}
func (stubPostUC) AttachImage(context.Context, *gorm.DB, uint, int, string) (*postEntity.PostImage, error) {
	return nil, nil
}
func (stubPostUC) UpdatePost(context.Context, uint, string, string) (*postEntity.Post, error) {
	return nil, nil
}
func (stubPostUC) DeletePost(context.Context, uint) error                 { return nil }
func (stubPostUC) CheckPostExists(context.Context, uint) (bool, error)    { return false, nil }
func (stubPostUC) IsPostMine(context.Context, uint, uint) (bool, error)   { return false, nil }
func (stubPostUC) IncrementCommentCount(context.Context, *gorm.DB, uint) error {
	return nil
}
func (stubPostUC) DecrementCommentCount(context.Context, *gorm.DB, uint) error {
	return nil
}

type stubCommentUC struct{}

func (stubCommentUC) PaginateComments(context.Context, *pagination.Request, uint) (interface{}, error) {
	return nil, nil
}
func (stubCommentUC) GetCommentByID(context.Context, uint) (*commentEntity.Comment, error) {
	return nil, nil
}
func (stubCommentUC) CreateComment(context.Context, *gorm.DB, uint, uint, string) (*commentEntity.Comment, error) {
	return nil, nil
}
func (stubCommentUC) UpdateComment(context.Context, uint, string) (*commentEntity.Comment, error) {
	return nil, nil
}
func (stubCommentUC) DeleteComment(context.Context, *gorm.DB, uint) error   { return nil }
func (stubCommentUC) IsCommentMine(context.Context, uint, uint) (bool, error) { return false, nil }

type stubChatUC struct{}

func (stubChatUC) PaginateChats(context.Context, *pagination.Request) (interface{}, error) {
	return nil, nil
}
func (stubChatUC) PaginateMessages(context.Context, *pagination.Request, uint) (interface{}, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memoryUserProvider) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Logger = zap.NewNop()

	users := &memoryUserProvider{users: map[string]*userEntity.User{}}
	authSvc := authapp.NewAuthService(users, []byte("test-secret"), time.Minute, time.Hour, bcrypt.MinCost)
	guards := middleware.NewGuards(authSvc, userLoaderFunc(users.GetUserByEmail), nil)

	r := SetupRoutes(authSvc, stubUserUC{}, stubPostUC{}, stubCommentUC{}, stubChatUC{}, guards, nil)
	return r, users
}

// userLoaderFunc adapts the provider's lookup, turning a miss into an error
// the way the user service does.
type userLoaderFunc func(ctx context.Context, email string) (*userEntity.User, error)

func (f userLoaderFunc) GetUserByEmail(ctx context.Context, email string) (*userEntity.User, error) {
	u, err := f(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func postJSON(r *gin.Engine, path string, body interface{}, header string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginRotateFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	// register
	w := postJSON(r, "/auth/register/email", gin.H{
		"nickname": "nick",
		"email":    "a@b.com",
		"password": "pass12",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var tokens authapp.LoginTokens
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	// login with the basic credential
	cred := base64.StdEncoding.EncodeToString([]byte("a@b.com:pass12"))
	w = postJSON(r, "/auth/login/email", nil, "Basic "+cred)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the refresh token mints a new access token
	w = postJSON(r, "/auth/token/access", nil, "Bearer "+tokens.RefreshToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rotated struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rotated))
	assert.NotEmpty(t, rotated.AccessToken)

	// an access token is refused at the rotation endpoints
	w = postJSON(r, "/auth/token/access", nil, "Bearer "+tokens.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = postJSON(r, "/auth/token/refresh", nil, "Bearer "+tokens.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	for name, body := range map[string]gin.H{
		"missing nickname":  {"email": "a@b.com", "password": "pass12"},
		"bad email":         {"nickname": "nick", "email": "nope", "password": "pass12"},
		"password too long": {"nickname": "nick", "email": "a@b.com", "password": "waytoolongpassword"},
		"password too short": {"nickname": "nick", "email": "a@b.com", "password": "ab"},
	} {
		w := postJSON(r, "/auth/register/email", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/auth/register/email", gin.H{
		"nickname": "nick", "email": "a@b.com", "password": "pass12",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	cred := base64.StdEncoding.EncodeToString([]byte("a@b.com:wrong"))
	w = postJSON(r, "/auth/login/email", nil, "Basic "+cred)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestUsersRouteRequiresAdmin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/auth/register/email", gin.H{
		"nickname": "nick", "email": "a@b.com", "password": "pass12",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var tokens authapp.LoginTokens
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// the follower listing is open to any authenticated user
	req = httptest.NewRequest(http.MethodGet, "/users/follow/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetPostsRejectsBadFilter(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/posts?where__id__not_equal=3", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/posts?take=2", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
