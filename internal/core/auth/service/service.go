package authapp

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"sns/internal/apperror"
	userEntity "sns/internal/core/user"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// UserProvider is the slice of the user service the auth flow needs.
type UserProvider interface {
	CreateUser(ctx context.Context, nickname, email, passwordHash string) (*userEntity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*userEntity.User, error)
}

// TokenClaims is the payload of both token kinds. Subject carries the user id.
type TokenClaims struct {
	Email string `json:"email"`
	Type  string `json:"type"`
	jwt.StandardClaims
}

func (c *TokenClaims) UserID() uint {
	id, _ := strconv.ParseUint(c.Subject, 10, 64)
	return uint(id)
}

// LoginTokens is what register and login hand back.
type LoginTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService issues and verifies the stateless bearer tokens. There is no
// revocation list; expiry is the only termination mechanism.
type AuthService struct {
	users      UserProvider
	jwtKey     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	hashRounds int
}

func NewAuthService(users UserProvider, jwtKey []byte, accessTTL, refreshTTL time.Duration, hashRounds int) *AuthService {
	return &AuthService{
		users:      users,
		jwtKey:     jwtKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		hashRounds: hashRounds,
	}
}

// ExtractTokenFromHeader pulls the credential out of an Authorization header.
// The header must be exactly "<prefix> <token>" with the expected prefix.
func (s *AuthService) ExtractTokenFromHeader(header string, isBearer bool) (string, error) {
	split := strings.Split(header, " ")

	prefix := "Basic"
	if isBearer {
		prefix = "Bearer"
	}

	if len(split) != 2 || split[0] != prefix {
		return "", apperror.New(apperror.Unauthenticated, "invalid token format")
	}
	return split[1], nil
}

// DecodeBasicToken decodes a base64 "email:password" credential.
func (s *AuthService) DecodeBasicToken(token string) (string, string, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", apperror.New(apperror.InvalidInput, "invalid basic credentials")
	}

	split := strings.Split(string(decoded), ":")
	if len(split) != 2 {
		return "", "", apperror.New(apperror.InvalidInput, "invalid basic credentials")
	}
	return split[0], split[1], nil
}

// VerifyToken checks the signature and expiry and returns the claims.
func (s *AuthService) VerifyToken(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.Newf(apperror.Unauthenticated, "unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperror.New(apperror.Unauthenticated, "invalid or expired token")
	}
	return claims, nil
}

// SignToken issues a token for an authenticated user. Refresh tokens live
// longer than access tokens.
func (s *AuthService) SignToken(u *userEntity.User, isRefresh bool) (string, error) {
	tokenType := TokenTypeAccess
	ttl := s.accessTTL
	if isRefresh {
		tokenType = TokenTypeRefresh
		ttl = s.refreshTTL
	}

	claims := &TokenClaims{
		Email: u.Email,
		Type:  tokenType,
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtKey)
	if err != nil {
		return "", apperror.Wrap(apperror.Internal, "could not sign token", err)
	}
	return signed, nil
}

// RotateToken issues a fresh token of the requested kind. Rotation is only
// permitted starting from a refresh token.
func (s *AuthService) RotateToken(token string, asRefresh bool) (string, error) {
	claims, err := s.VerifyToken(token)
	if err != nil {
		return "", err
	}

	if claims.Type != TokenTypeRefresh {
		return "", apperror.New(apperror.Unauthenticated, "token rotation requires a refresh token")
	}

	u := &userEntity.User{Email: claims.Email}
	u.ID = claims.UserID()
	return s.SignToken(u, asRefresh)
}

// RegisterWithEmail creates a user with a hashed password and logs them in.
func (s *AuthService) RegisterWithEmail(ctx context.Context, nickname, email, password string) (*LoginTokens, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashRounds)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not hash password", err)
	}

	u, err := s.users.CreateUser(ctx, nickname, email, string(hash))
	if err != nil {
		return nil, err
	}
	return s.LoginUser(u)
}

// LoginWithEmail validates credentials and returns both tokens.
func (s *AuthService) LoginWithEmail(ctx context.Context, email, password string) (*LoginTokens, error) {
	u, err := s.AuthenticateWithEmailAndPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.LoginUser(u)
}

// AuthenticateWithEmailAndPassword returns the user when the credentials are
// valid. Lookup misses and password mismatches both come back as
// authentication failures so clients cannot probe for accounts.
func (s *AuthService) AuthenticateWithEmailAndPassword(ctx context.Context, email, password string) (*userEntity.User, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, apperror.New(apperror.Unauthenticated, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apperror.New(apperror.Unauthenticated, "invalid credentials")
	}
	return u, nil
}

// LoginUser issues the access/refresh pair for an authenticated user.
func (s *AuthService) LoginUser(u *userEntity.User) (*LoginTokens, error) {
	access, err := s.SignToken(u, false)
	if err != nil {
		return nil, err
	}
	refresh, err := s.SignToken(u, true)
	if err != nil {
		return nil, err
	}
	return &LoginTokens{AccessToken: access, RefreshToken: refresh}, nil
}
