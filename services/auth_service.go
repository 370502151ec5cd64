package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/designxpo/PoonamCosmetics-sub001/entity"
	"github.com/designxpo/PoonamCosmetics-sub001/pkg/apperr"
	"github.com/designxpo/PoonamCosmetics-sub001/utils"
)

type UserStore interface {
	Create(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
}

type AuthService struct {
	users     UserStore
	jwtSecret string
	jwtTTL    time.Duration
	log       *logrus.Logger
}

func NewAuthService(users UserStore, secret string, ttl time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{users: users, jwtSecret: secret, jwtTTL: ttl, log: logger}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, phone string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if name == "" || email == "" {
		return nil, apperr.Validation("name and email are required")
	}
	if len(password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err, "failed to hash password")
	}

	user := &entity.User{
		Name:        name,
		Email:       email,
		Password:    string(hashed),
		PhoneNumber: strings.TrimSpace(phone),
		Role:        entity.RoleCustomer,
	}
	// The unique email index turns a racing duplicate into apperr.Duplicate.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithField("user", user.ID.Hex()).Info("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Same response for unknown email and wrong password.
		return "", nil, apperr.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, apperr.Internal(err, "failed to issue token")
	}
	return token, user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID primitive.ObjectID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}
