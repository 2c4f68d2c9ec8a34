package models

import "time"

type ExportJob struct {
	JobID     string    `gorm:"column:job_id;primaryKey;size:36" json:"jobId"`
	RoomID    uint      `gorm:"column:room_id;index" json:"roomId"`
	Format    string    `gorm:"column:format;size:10" json:"format"` // csv
	Status    string    `gorm:"column:status;size:20;default:'queued'" json:"status"`
	FilePath  *string   `gorm:"column:file_path;type:text" json:"filePath,omitempty"`
	ErrorMsg  *string   `gorm:"column:error_msg;type:text" json:"errorMsg,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ExportJob) TableName() string {
	return "export_jobs"
}
