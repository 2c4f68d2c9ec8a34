package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/checkin-server/config"
	"github.com/vnkhanh/checkin-server/middleware"
	"github.com/vnkhanh/checkin-server/models"
	"github.com/vnkhanh/checkin-server/utils"
)

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var admin models.Admin
	if err := config.DB.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		// Không phân biệt sai username hay sai mật khẩu
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	if !utils.CheckPassword(admin.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không phát được token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GET /api/auth/validate — request nào tới được đây là token còn hạn
func ValidateToken(c *gin.Context) {
	admin := c.MustGet(middleware.CtxAdmin).(models.Admin)
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"admin": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}

// GET /api/auth/check-admin — cho màn hình setup biết hệ thống đã có admin chưa
func CheckAdmin(c *gin.Context) {
	var count int64
	if err := config.DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error checking admin status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": count > 0})
}

// CreateInitialAdmin seed đúng một admin mặc định khi bảng còn trống.
// Gọi một lần lúc khởi động, trước khi nhận request.
func CreateInitialAdmin() error {
	var count int64
	if err := config.DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}
	if err := config.DB.Create(&models.Admin{Username: "admin", Password: hash}).Error; err != nil {
		return err
	}
	log.Println("Initial admin user created")
	return nil
}
