package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stacksapp/stacks-api/internal/domain/entity"
	repo "github.com/stacksapp/stacks-api/internal/domain/repository"
	"github.com/stacksapp/stacks-api/pkg/helpers"
	"github.com/stacksapp/stacks-api/pkg/mailer"
)

// UserService owns registration, credential verification, token issuance and
// the per-user deal relationship sets.
type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
	Pub    *helpers.RabbitPublisher
}

func NewUserService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher) *UserService {
	return &UserService{Repo: users, JWT: jwt, Redis: rdb, Logger: logger, Pub: pub}
}

var userUpdateAllowed = map[string]bool{
	"email":     true,
	"firstName": true,
	"lastName":  true,
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type LoginResponse struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsMerchant bool   `json:"merchant"`
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a consumer account. The credential hash is set here, once;
// there is no other write path for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	taken, err := s.Repo.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.publishWelcome(ctx, u.Email, u.FirstName)
	return u, nil
}

// Authenticate validates email/password without issuing tokens. Unknown
// email and wrong password produce the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates an access/refresh pair and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"merchant":   u.IsMerchant,
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	resp := &LoginResponse{UserID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, IsMerchant: u.IsMerchant}
	return resp, pair, nil
}

// Refresh rotates the session id and both tokens after validating the
// refresh token against the current session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// UpdateProfile mutates the requesting user's own record. There is no
// cross-user path: the target id always comes from the authenticated
// identity. Only email, firstName and lastName may appear in the field map;
// the first other field rejects the whole request.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, fields []Field) (*entity.User, error) {
	if err := checkAllowed(fields, userUpdateAllowed); err != nil {
		return nil, err
	}
	var upd repo.UserProfileUpdate
	for _, f := range fields {
		v, err := stringValue(f)
		if err != nil {
			return nil, err
		}
		switch f.Name {
		case "email":
			upd.Email = &v
		case "firstName":
			upd.FirstName = &v
		case "lastName":
			upd.LastName = &v
		}
	}
	u, err := s.Repo.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, maskNotFound(err)
	}
	s.refreshSession(ctx, u)
	return u, nil
}

// AddDeal moves the deal into the user's held set. Idempotent: re-adding a
// held deal replaces it in place.
func (s *UserService) AddDeal(ctx context.Context, userID, dealID string) (*entity.User, error) {
	u, err := s.Repo.AddHeldDeal(ctx, userID, dealID)
	return u, maskNotFound(err)
}

// RedeemDeal moves the deal from held to redeemed.
func (s *UserService) RedeemDeal(ctx context.Context, userID, dealID string) (*entity.User, error) {
	u, err := s.Repo.RedeemDeal(ctx, userID, dealID)
	return u, maskNotFound(err)
}

// DismissDeal moves the deal from held to dismissed. Dismissed deals are not
// excluded from future listings.
func (s *UserService) DismissDeal(ctx context.Context, userID, dealID string) (*entity.User, error) {
	u, err := s.Repo.DismissDeal(ctx, userID, dealID)
	return u, maskNotFound(err)
}

func (s *UserService) refreshSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := sessionKey(u.ID)
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"updated_at": nowRFC3339(),
	})
	if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
		s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
	}
}

// publishWelcome enqueues a welcome email job. Best effort: signup never
// fails because the broker is down.
func (s *UserService) publishWelcome(ctx context.Context, email, firstName string) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       email,
		Template: "welcome",
		Data:     map[string]any{"FirstName": firstName},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", email).Warn("welcome email enqueue failed")
	}
}
