package models

import "time"

// Trạng thái gắn cho khách khi bị đóng giờ hàng loạt theo room
const GuestStatusTimedOut = "timed_out"

type Guest struct {
	ID        uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FullName  string     `gorm:"column:full_name;size:100;not null" json:"fullName"`
	Age       int        `gorm:"column:age;not null" json:"age"`
	Gender    string     `gorm:"column:gender;size:20;not null" json:"gender"`
	TimeIn    *time.Time `gorm:"column:time_in" json:"timeIn"`
	TimeOut   *time.Time `gorm:"column:time_out" json:"timeOut"`
	RoomID    *uint      `gorm:"column:room_id;index" json:"roomId"`
	Status    *string    `gorm:"column:status;size:20" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	TimeRecords []TimeRecord `gorm:"foreignKey:GuestID" json:"-"`
}

func (Guest) TableName() string {
	return "guests"
}
