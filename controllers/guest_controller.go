package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/checkin-server/config"
	"github.com/vnkhanh/checkin-server/models"
	"github.com/vnkhanh/checkin-server/scanner"
	"github.com/vnkhanh/checkin-server/utils"
)

type CreateGuestReq struct {
	FullName string `json:"fullName" binding:"required,min=1"`
	Age      int    `json:"age" binding:"required,gt=0"`
	Gender   string `json:"gender" binding:"required"`
	RoomID   *uint  `json:"roomId"`
}

// POST /api/guests — khách tự đăng ký từ trang room, chưa tính là đã vào
func CreateGuest(c *gin.Context) {
	var req CreateGuestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	if req.RoomID != nil {
		var room models.Room
		if err := config.DB.First(&room, *req.RoomID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
			return
		}
	}

	guest := models.Guest{
		FullName: req.FullName,
		Age:      req.Age,
		Gender:   req.Gender,
		RoomID:   req.RoomID,
	}
	if err := config.DB.Create(&guest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không tạo được khách"})
		return
	}

	c.JSON(http.StatusCreated, guest)
}

// GET /api/guests — dashboard poll định kỳ, khách vào gần nhất xếp trước.
// Lọc theo room bằng ?roomId=
func ListGuests(c *gin.Context) {
	query := config.DB.Model(&models.Guest{})
	if roomID := c.Query("roomId"); roomID != "" {
		query = query.Where("room_id = ?", roomID)
	}

	var guests []models.Guest
	// MySQL gốc xếp NULL cuối khi DESC, giữ đúng hành vi đó
	if err := query.Order("time_in DESC NULLS LAST").Find(&guests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không đọc được danh sách khách"})
		return
	}

	c.JSON(http.StatusOK, guests)
}

// PUT /api/guests/:id/timein — admin mở giờ vào cho khách chưa quét
func TimeInGuest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest id"})
		return
	}

	svc := scanner.NewService(scanner.NewGormStore(config.DB))
	res, err := svc.TimeInGuest(c.Request.Context(), uint(id))
	if errors.Is(err, scanner.ErrGuestNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Guest not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không cập nhật được khách"})
		return
	}

	c.JSON(http.StatusOK, res.Guest)
}

// PUT /api/guests/:id/timeout — admin đóng giờ ra.
// Khách đã ra từ trước thì trả nguyên trạng (idempotent), không phải lỗi.
func TimeOutGuest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid guest id"})
		return
	}

	svc := scanner.NewService(scanner.NewGormStore(config.DB))
	res, err := svc.TimeOutGuest(c.Request.Context(), uint(id))
	if errors.Is(err, scanner.ErrGuestNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Guest not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không cập nhật được khách"})
		return
	}

	c.JSON(http.StatusOK, res.Guest)
}

type ScanReq struct {
	ID     uint   `json:"id" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required,gt=0"`
	Gender string `json:"gender" binding:"required"`
}

// POST /api/guests/scan — đường HTTP cho sự kiện quét, đi chung pipeline
// với thiết bị serial
func ScanGuest(c *gin.Context) {
	var req ScanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	svc := scanner.NewService(scanner.NewGormStore(config.DB))
	res, err := svc.Process(c.Request.Context(), scanner.Payload{
		ID:     req.ID,
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
	})
	switch {
	case errors.Is(err, scanner.ErrGuestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Guest not found"})
		return
	case errors.Is(err, scanner.ErrGuestMismatch):
		c.JSON(http.StatusConflict, gin.H{"message": "Guest details do not match"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không xử lý được sự kiện quét"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"action": res.Action,
		"guest":  res.Guest,
	})
}

// GET /api/guests/:id/qrcode — ảnh PNG chứa đúng chuỗi mà đầu đọc sẽ trả về
func GuestQRCode(c *gin.Context) {
	var guest models.Guest
	if err := config.DB.First(&guest, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Guest not found"})
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))
	payload := scanner.FormatPayload(guest.ID, guest.FullName, guest.Age, guest.Gender)
	png, err := utils.GuestQRCode(payload, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không tạo được mã QR"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
