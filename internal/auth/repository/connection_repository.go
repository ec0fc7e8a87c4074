package repository

import (
	"errors"
	"time"

	"daystart-backend/internal/auth/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConnectionRepository defines the interface for connected account storage
type ConnectionRepository interface {
	Upsert(conn *domain.Connection) error
	FindByEmail(email string) (*domain.Connection, error)
	FindAll() ([]*domain.Connection, error)
	Count() (int64, error)
	Delete(email string) error
	DeleteAll() error
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new instance of connectionRepository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

// Upsert inserts the connection or replaces the tokens of an existing one
func (r *connectionRepository) Upsert(conn *domain.Connection) error {
	now := time.Now()
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = now
	}
	conn.UpdatedAt = now

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "token_type", "expiry", "updated_at"}),
	}).Create(conn).Error
}

func (r *connectionRepository) FindByEmail(email string) (*domain.Connection, error) {
	var conn domain.Connection
	err := r.db.Where("email = ?", email).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) FindAll() ([]*domain.Connection, error) {
	var conns []*domain.Connection
	err := r.db.Order("created_at ASC").Find(&conns).Error
	return conns, err
}

func (r *connectionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Connection{}).Count(&count).Error
	return count, err
}

func (r *connectionRepository) Delete(email string) error {
	return r.db.Where("email = ?", email).Delete(&domain.Connection{}).Error
}

func (r *connectionRepository) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Connection{}).Error
}
