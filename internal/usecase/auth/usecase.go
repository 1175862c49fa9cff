package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"credit-scoring-backend/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("incorrect email or password")

type Usecase struct {
	users  user.Repository
	secret []byte
	expiry time.Duration
	log    *logrus.Logger
}

func NewUsecase(users user.Repository, secret string, expiry time.Duration, log *logrus.Logger) *Usecase {
	if log == nil {
		log = logrus.New()
	}
	return &Usecase{users: users, secret: []byte(secret), expiry: expiry, log: log}
}

type RegisterInput struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type UserDTO struct {
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
}

func toDTO(u *user.User) *UserDTO {
	return &UserDTO{
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
		IsActive:  u.IsActive,
		IsAdmin:   u.IsAdmin,
	}
}

// Register creates a regular user with a bcrypt-hashed password.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	return u.register(ctx, in, false)
}

// RegisterAdmin creates an admin user. Route-level protection is the
// caller's concern.
func (u *Usecase) RegisterAdmin(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	return u.register(ctx, in, true)
}

func (u *Usecase) register(ctx context.Context, in RegisterInput, admin bool) (*UserDTO, error) {
	if _, err := u.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, user.ErrEmailTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	nu := &user.User{
		Email:          in.Email,
		FullName:       in.FullName,
		HashedPassword: string(hashed),
		IsActive:       true,
		IsAdmin:        admin,
	}
	if err := u.users.Create(ctx, nu); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"email": nu.Email, "admin": admin}).Info("user registered")
	return toDTO(nu), nil
}

// Login verifies the password and returns a signed HS256 token with the
// user's email as subject.
func (u *Usecase) Login(ctx context.Context, email, password string) (string, error) {
	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.HashedPassword), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   usr.Email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(u.expiry)),
	})
	signed, err := token.SignedString(u.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	u.log.WithField("email", usr.Email).Info("user logged in")
	return signed, nil
}

// Me returns the profile for an already-authenticated email.
func (u *Usecase) Me(ctx context.Context, email string) (*UserDTO, error) {
	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toDTO(usr), nil
}
