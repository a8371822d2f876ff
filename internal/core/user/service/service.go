package userapp

import (
	"context"

	"gorm.io/gorm"

	"sns/internal/apperror"
	userEntity "sns/internal/core/user"
	userPort "sns/internal/ports/user"
)

// UserService handles user profiles and the follow relationship, including
// the follower/followee counters kept on the user rows.
type UserService struct {
	UserRepository userPort.UserRepository
}

func NewUserService(repo userPort.UserRepository) *UserService {
	return &UserService{UserRepository: repo}
}

func (s *UserService) CreateUser(ctx context.Context, nickname, email, passwordHash string) (*userEntity.User, error) {
	nicknameExists, err := s.UserRepository.ExistsByNickname(ctx, nil, nickname)
	if err != nil {
		return nil, err
	}
	if nicknameExists {
		return nil, apperror.New(apperror.Conflict, "nickname already taken")
	}

	emailExists, err := s.UserRepository.ExistsByEmail(ctx, nil, email)
	if err != nil {
		return nil, err
	}
	if emailExists {
		return nil, apperror.New(apperror.Conflict, "email already taken")
	}

	u := &userEntity.User{
		Nickname: nickname,
		Email:    email,
		Password: passwordHash,
		Role:     userEntity.RoleUser,
	}
	return s.UserRepository.Create(ctx, nil, u)
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*userEntity.User, error) {
	return s.UserRepository.FindAll(ctx, nil)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*userEntity.User, error) {
	u, err := s.UserRepository.FindByEmail(ctx, nil, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.New(apperror.NotFound, "user does not exist")
	}
	return u, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*userEntity.User, error) {
	u, err := s.UserRepository.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.New(apperror.NotFound, "user does not exist")
	}
	return u, nil
}

// GetFollowers lists the people following userID. Unconfirmed requests are
// included only when asked for. Follower profiles are resolved by a second
// lookup on the join rows' ids.
func (s *UserService) GetFollowers(ctx context.Context, userID uint, includeNotConfirmed bool) ([]*userPort.FollowerDTO, error) {
	follows, err := s.UserRepository.FindFollowers(ctx, nil, userID, includeNotConfirmed)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowerID)
	}

	users, err := s.UserRepository.FindByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*userEntity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	dtos := make([]*userPort.FollowerDTO, 0, len(follows))
	for _, f := range follows {
		u, ok := byID[f.FollowerID]
		if !ok {
			continue
		}
		dtos = append(dtos, &userPort.FollowerDTO{
			ID:          u.ID,
			Nickname:    u.Nickname,
			Email:       u.Email,
			IsConfirmed: f.IsConfirmed,
		})
	}
	return dtos, nil
}

// FollowUser records an unconfirmed follow request.
func (s *UserService) FollowUser(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return apperror.New(apperror.InvalidInput, "cannot follow yourself")
	}

	existing, err := s.UserRepository.FindFollow(ctx, nil, followerID, followeeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.New(apperror.Conflict, "already following this user")
	}

	_, err = s.UserRepository.CreateFollow(ctx, nil, &userEntity.UserFollow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	})
	return err
}

// ConfirmFollow marks an existing follow request confirmed. Callers run it
// inside a transaction together with the two counter increments.
func (s *UserService) ConfirmFollow(ctx context.Context, scope *gorm.DB, followerID, followeeID uint) error {
	existing, err := s.UserRepository.FindFollow(ctx, scope, followerID, followeeID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.New(apperror.NotFound, "follow request does not exist")
	}

	existing.IsConfirmed = true
	return s.UserRepository.SaveFollow(ctx, scope, existing)
}

func (s *UserService) DeleteFollow(ctx context.Context, scope *gorm.DB, followerID, followeeID uint) error {
	return s.UserRepository.DeleteFollow(ctx, scope, followerID, followeeID)
}

func (s *UserService) IncrementFollowerCount(ctx context.Context, scope *gorm.DB, userID uint) error {
	return s.UserRepository.AdjustFollowerCount(ctx, scope, userID, 1)
}

func (s *UserService) DecrementFollowerCount(ctx context.Context, scope *gorm.DB, userID uint) error {
	return s.UserRepository.AdjustFollowerCount(ctx, scope, userID, -1)
}

func (s *UserService) IncrementFolloweeCount(ctx context.Context, scope *gorm.DB, userID uint) error {
	return s.UserRepository.AdjustFolloweeCount(ctx, scope, userID, 1)
}

func (s *UserService) DecrementFolloweeCount(ctx context.Context, scope *gorm.DB, userID uint) error {
	return s.UserRepository.AdjustFolloweeCount(ctx, scope, userID, -1)
}
