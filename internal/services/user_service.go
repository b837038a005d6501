package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

var (
	ErrUserExists         = errors.New("user_already_exists")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidResetCode   = errors.New("invalid_reset_code")
)

// ProfileUpdate is a partial profile change; empty fields are left as they are
type ProfileUpdate struct {
	Email    string
	Name     string
	Password string
}

type UserService interface {
	Register(ctx context.Context, email, name, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error)
	// RequestPasswordReset stores a one time code for the account. The code is
	// empty when the email is unknown, which callers must not reveal.
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, code, password string) error
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// findUser looks up at most one user. A miss is reported through found
// rather than gorm.ErrRecordNotFound, which gorm would log as an error.
func findUser(db *gorm.DB, query string, args ...interface{}) (*models.User, bool, error) {
	var user models.User
	result := db.Where(query, args...).Limit(1).Find(&user)
	if result.Error != nil {
		return nil, false, result.Error
	}
	return &user, result.RowsAffected > 0, nil
}

func (s *userService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	email = normalizeEmail(email)
	db := s.db.WithContext(ctx)

	if _, found, err := findUser(db, "email = ?", email); err != nil {
		return nil, err
	} else if found {
		return nil, ErrUserExists
	}

	user := &models.User{Email: email, Name: name}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, found, err := findUser(s.db.WithContext(ctx), "email = ?", normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !found || !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Email != "" {
		email := normalizeEmail(update.Email)
		if email != user.Email {
			var count int64
			if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrUserExists
			}
			user.Email = email
		}
	}
	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Password != "" {
		if err := user.SetPassword(update.Password); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, found, err := findUser(s.db.WithContext(ctx), "email = ?", normalizeEmail(email))
	if err != nil || !found {
		return "", err
	}

	code := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if err := s.db.WithContext(ctx).Model(user).Update("reset_code", code).Error; err != nil {
		return "", err
	}
	// there is no mailer; the code goes to the log
	log.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"reset_code": code,
	}).Info("Password reset requested")
	return code, nil
}

func (s *userService) ResetPassword(ctx context.Context, code, password string) error {
	if code == "" {
		return ErrInvalidResetCode
	}
	user, found, err := findUser(s.db.WithContext(ctx), "reset_code = ?", code)
	if err != nil {
		return err
	}
	if !found {
		return ErrInvalidResetCode
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	user.ResetCode = ""
	return s.db.WithContext(ctx).Save(user).Error
}
