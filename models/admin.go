package models

import "time"

type Admin struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"column:username;size:50;unique;not null" json:"username"`
	Password  string    `gorm:"column:password;size:255;not null" json:"-"` // chỉ lưu bcrypt hash
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Admin) TableName() string {
	return "admins"
}
