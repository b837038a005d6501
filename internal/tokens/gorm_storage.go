package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	accessTokenName  = "accessToken"
	refreshTokenName = "refreshToken"
)

// StoredToken is one named token row
type StoredToken struct {
	Name      string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

func (StoredToken) TableName() string {
	return "stored_tokens"
}

// GormStorage persists tokens in a database table so a session survives
// process restarts. The access token row expires after accessTTL.
type GormStorage struct {
	db        *gorm.DB
	accessTTL time.Duration
	now       func() time.Time
}

// NewGormStorage creates the storage and migrates its table
func NewGormStorage(db *gorm.DB, accessTTL time.Duration) (*GormStorage, error) {
	if err := db.AutoMigrate(&StoredToken{}); err != nil {
		return nil, fmt.Errorf("failed to migrate token table: %w", err)
	}
	return &GormStorage{db: db, accessTTL: accessTTL, now: time.Now}, nil
}

func (s *GormStorage) get(ctx context.Context, name string) (string, error) {
	var token StoredToken
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	if token.ExpiresAt != nil && !s.now().Before(*token.ExpiresAt) {
		log.WithField("token", name).Debug("Stored token expired")
		return "", nil
	}
	return token.Value, nil
}

func (s *GormStorage) set(ctx context.Context, name, value string, ttl time.Duration) error {
	token := StoredToken{Name: name, Value: value}
	if ttl > 0 {
		expiresAt := s.now().Add(ttl)
		token.ExpiresAt = &expiresAt
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&token).Error
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return nil
}

func (s *GormStorage) clear(ctx context.Context, name string) error {
	if err := s.db.WithContext(ctx).Where("name = ?", name).Delete(&StoredToken{}).Error; err != nil {
		return fmt.Errorf("failed to clear %s: %w", name, err)
	}
	return nil
}

func (s *GormStorage) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, accessTokenName)
}

func (s *GormStorage) SetAccessToken(ctx context.Context, token string) error {
	return s.set(ctx, accessTokenName, token, s.accessTTL)
}

func (s *GormStorage) ClearAccessToken(ctx context.Context) error {
	return s.clear(ctx, accessTokenName)
}

func (s *GormStorage) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, refreshTokenName)
}

func (s *GormStorage) SetRefreshToken(ctx context.Context, token string) error {
	return s.set(ctx, refreshTokenName, token, 0)
}

func (s *GormStorage) ClearRefreshToken(ctx context.Context) error {
	return s.clear(ctx, refreshTokenName)
}

var _ Storage = (*GormStorage)(nil)
