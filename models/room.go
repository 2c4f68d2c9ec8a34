package models

import "time"

type Room struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code        string    `gorm:"column:code;size:20;unique;not null" json:"code"`
	Title       string    `gorm:"column:title;size:100;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Xóa room chỉ gỡ liên kết khách, nhật ký vào/ra giữ nguyên để đối soát
	Guests      []Guest      `gorm:"foreignKey:RoomID" json:"-"`
	TimeRecords []TimeRecord `gorm:"foreignKey:RoomID" json:"-"`
}

func (Room) TableName() string {
	return "rooms"
}
