package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/checkin-server/config"
	"github.com/vnkhanh/checkin-server/models"
)

// POST /api/rooms/:id/export — xuất CSV điểm danh của room, chạy nền
func CreateExport(c *gin.Context) {
	var room models.Room
	if err := config.DB.First(&room, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Lỗi DB"})
		return
	}

	jobID := uuid.New().String()
	job := models.ExportJob{
		JobID:  jobID,
		RoomID: room.ID,
		Format: "csv",
		Status: "queued",
	}
	config.DB.Create(&job)

	go processExportJob(jobID)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": "queued",
	})
}

// GET /api/exports/:job_id
func GetExport(c *gin.Context) {
	jobID := c.Param("job_id")
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Job không tìm thấy"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Lỗi DB"})
		return
	}

	if job.Status == "done" && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
		"error":  job.ErrorMsg,
	})
}

// xử lý job xuất dữ liệu
func processExportJob(jobID string) {
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		return
	}
	config.DB.Model(&job).Update("status", "processing")

	outDir := "./exports"
	os.MkdirAll(outDir, 0755)

	filename := fmt.Sprintf("attendance_%s.csv", job.JobID)
	outPath := path.Join(outDir, filename)

	f, err := os.Create(outPath)
	if err != nil {
		markExportFailed(&job, err)
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"guest_id", "full_name", "age", "gender", "time_in", "time_out", "status"}
	w.Write(header)

	var guests []models.Guest
	if err := config.DB.Where("room_id = ?", job.RoomID).Order("time_in").Find(&guests).Error; err != nil {
		markExportFailed(&job, err)
		return
	}

	for _, g := range guests {
		status := ""
		if g.Status != nil {
			status = *g.Status
		}
		row := []string{
			fmt.Sprintf("%d", g.ID),
			g.FullName,
			fmt.Sprintf("%d", g.Age),
			g.Gender,
			formatTimePtr(g.TimeIn),
			formatTimePtr(g.TimeOut),
			status,
		}
		w.Write(row)
	}

	fp := outPath
	config.DB.Model(&job).Updates(map[string]interface{}{"status": "done", "file_path": fp})
}

func markExportFailed(job *models.ExportJob, err error) {
	em := err.Error()
	config.DB.Model(job).Updates(map[string]interface{}{"status": "failed", "error_msg": em})
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
