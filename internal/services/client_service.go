package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

// ClientService manages the OAuth clients allowed to log users in
type ClientService interface {
	// EnsureClient creates the client or rotates its secret so it matches the configuration
	EnsureClient(ctx context.Context, id, secret, name string) (*models.OAuthClient, error)
	GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error)
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) EnsureClient(ctx context.Context, id, secret, name string) (*models.OAuthClient, error) {
	client, err := s.GetClientByID(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if client != nil && client.VerifyPassword(secret) {
		return client, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if client == nil {
		client = &models.OAuthClient{ID: id, Name: name, Secret: string(hashed)}
		if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
			return nil, err
		}
		log.WithField("client_id", id).Info("OAuth client created")
		return client, nil
	}

	client.Secret = string(hashed)
	if err := s.db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, err
	}
	log.WithField("client_id", id).Info("OAuth client secret rotated")
	return client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}
