package repository

import (
	"time"

	"daystart-backend/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceTokenRepository defines the interface for push device registrations
type DeviceTokenRepository interface {
	SaveToken(token, deviceInfo string) error
	ListTokens() ([]string, error)
	DeleteToken(token string) error
}

// deviceTokenRepository implements DeviceTokenRepository interface
type deviceTokenRepository struct {
	db *gorm.DB
}

// NewDeviceTokenRepository creates a new instance of deviceTokenRepository
func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

// SaveToken saves or refreshes a device token (atomic upsert)
func (r *deviceTokenRepository) SaveToken(token, deviceInfo string) error {
	now := time.Now()
	device := &domain.DeviceToken{
		ID:         uuid.New().String(),
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"device_info", "updated_at"}),
	}).Create(device).Error
}

// ListTokens returns every registered token
func (r *deviceTokenRepository) ListTokens() ([]string, error) {
	var tokens []string
	err := r.db.Model(&domain.DeviceToken{}).Order("created_at ASC").Pluck("token", &tokens).Error
	return tokens, err
}

// DeleteToken removes a specific token
func (r *deviceTokenRepository) DeleteToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&domain.DeviceToken{}).Error
}
