package models

import "time"

// Loại bản ghi chấm giờ
const (
	TimeRecordTypeIn  = "timeIn"
	TimeRecordTypeOut = "timeOut"
)

// TimeRecord là nhật ký vào/ra, chỉ ghi thêm (append-only), không sửa không xóa
type TimeRecord struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	GuestID   uint      `gorm:"column:guest_id;index;not null" json:"guestId"`
	RoomID    *uint     `gorm:"column:room_id;index" json:"roomId"`
	Type      string    `gorm:"column:type;size:10;not null" json:"type"` // timeIn | timeOut
	Timestamp time.Time `gorm:"column:timestamp;not null" json:"timestamp"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (TimeRecord) TableName() string {
	return "time_records"
}
