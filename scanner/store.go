package scanner

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vnkhanh/checkin-server/models"
)

// Store là giao diện hẹp xuống tầng lưu trữ, để máy trạng thái
// không dính trực tiếp vào gorm và test được bằng store giả.
type Store interface {
	GuestByID(ctx context.Context, id uint) (*models.Guest, error)
	// MarkTimeIn set time_in khi và chỉ khi đang NULL.
	// Trả false nếu một sự kiện khác đã set trước.
	MarkTimeIn(ctx context.Context, guestID uint, at time.Time) (bool, error)
	// MarkTimeOut set time_out khi đã có time_in và time_out còn NULL
	MarkTimeOut(ctx context.Context, guestID uint, at time.Time) (bool, error)
	AppendTimeRecord(ctx context.Context, rec *models.TimeRecord) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GuestByID(ctx context.Context, id uint) (*models.Guest, error) {
	var g models.Guest
	err := s.db.WithContext(ctx).First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Update có điều kiện trong một câu lệnh duy nhất: hai request đua nhau
// trên cùng một khách thì chỉ một bên thắng, bên kia nhận RowsAffected = 0.
func (s *GormStore) MarkTimeIn(ctx context.Context, guestID uint, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Guest{}).
		Where("id = ? AND time_in IS NULL", guestID).
		Update("time_in", at)
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) MarkTimeOut(ctx context.Context, guestID uint, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Guest{}).
		Where("id = ? AND time_in IS NOT NULL AND time_out IS NULL", guestID).
		Update("time_out", at)
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) AppendTimeRecord(ctx context.Context, rec *models.TimeRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}
