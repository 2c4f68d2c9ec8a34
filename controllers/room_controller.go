package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/checkin-server/config"
	"github.com/vnkhanh/checkin-server/models"
)

// GET /api/rooms
func ListRooms(c *gin.Context) {
	var rooms []models.Room
	if err := config.DB.Order("created_at DESC").Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không đọc được danh sách room"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GET /api/rooms/:id
func GetRoomDetail(c *gin.Context) {
	var room models.Room
	if err := config.DB.First(&room, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
		return
	}
	c.JSON(http.StatusOK, room)
}

// GET /api/rooms/code/:code — public, trang đăng ký của khách dùng route này
func GetRoomByCode(c *gin.Context) {
	var room models.Room
	if err := config.DB.Where("code = ?", c.Param("code")).First(&room).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
		return
	}
	c.JSON(http.StatusOK, room)
}

type CreateRoomReq struct {
	Title       string `json:"title" binding:"required,min=1"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

// POST /api/rooms — bỏ trống code thì server tự sinh một mã ngắn
func CreateRoom(c *gin.Context) {
	var req CreateRoomReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = strings.ToUpper(uuid.NewString()[:8])
	}

	var count int64
	if err := config.DB.Model(&models.Room{}).Where("code = ?", code).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Lỗi DB"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Room code already exists"})
		return
	}

	room := models.Room{
		Code:        code,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := config.DB.Create(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không tạo được room"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// DELETE /api/rooms/:id — gỡ liên kết khách trong cùng transaction.
// Nhật ký vào/ra là append-only nên giữ nguyên, sống lâu hơn room.
func DeleteRoom(c *gin.Context) {
	var room models.Room
	if err := config.DB.First(&room, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Guest{}).
			Where("room_id = ?", room.ID).
			Update("room_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&room).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không xóa được room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

// PUT /api/rooms/:id/timeout-all — đóng giờ hàng loạt cho cả room.
// Chỉ đóng khách đã thực sự quét vào (có bản ghi timeIn); khách đăng ký
// rồi bỏ về thì thôi. Cả lô nằm trong một transaction: hoặc đóng hết
// hoặc không đóng ai.
func TimeOutAllGuests(c *gin.Context) {
	var room models.Room
	if err := config.DB.First(&room, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
		return
	}

	closed := 0
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var guests []models.Guest
		if err := tx.
			Where("room_id = ? AND time_out IS NULL", room.ID).
			Where("EXISTS (SELECT 1 FROM time_records WHERE time_records.guest_id = guests.id AND time_records.type = ?)",
				models.TimeRecordTypeIn).
			Find(&guests).Error; err != nil {
			return err
		}

		now := time.Now()
		for i := range guests {
			res := tx.Model(&models.Guest{}).
				Where("id = ? AND time_out IS NULL", guests[i].ID).
				Updates(map[string]interface{}{
					"time_out": now,
					"status":   models.GuestStatusTimedOut,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			rec := models.TimeRecord{
				GuestID:   guests[i].ID,
				RoomID:    &room.ID,
				Type:      models.TimeRecordTypeOut,
				Timestamp: now,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			closed++
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không đóng được giờ cho room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã đóng giờ cho room",
		"count":   closed,
	})
}

// GET /api/rooms/:id/stats — ba phép đếm độc lập cho dashboard
func GetRoomStats(c *gin.Context) {
	var room models.Room
	if err := config.DB.First(&room, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
		return
	}

	var totalGuests, timeInCount, timeOutCount int64
	if err := config.DB.Model(&models.Guest{}).
		Where("room_id = ?", room.ID).
		Count(&totalGuests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Lỗi DB"})
		return
	}
	if err := config.DB.Model(&models.TimeRecord{}).
		Where("room_id = ? AND type = ?", room.ID, models.TimeRecordTypeIn).
		Count(&timeInCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Lỗi DB"})
		return
	}
	if err := config.DB.Model(&models.TimeRecord{}).
		Where("room_id = ? AND type = ?", room.ID, models.TimeRecordTypeOut).
		Count(&timeOutCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Lỗi DB"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalGuests":  totalGuests,
		"timeInCount":  timeInCount,
		"timeOutCount": timeOutCount,
	})
}
