package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/checkin-server/config"
	"github.com/vnkhanh/checkin-server/models"
	"github.com/vnkhanh/checkin-server/utils"
)

// Key trong gin context cho admin đã xác thực
const CtxAdmin = "adminObj"

// AuthJWT kiểm tra Authorization: Bearer <token>, validate JWT, nạp admin
// từ DB và inject vào context.
func AuthJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		rawToken := strings.TrimSpace(authHeader[7:])

		claims, err := utils.VerifyToken(rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		var admin models.Admin
		if err := config.DB.First(&admin, claims.AdminID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Admin not found"})
			return
		}

		c.Set(CtxAdmin, admin)
		c.Next()
	}
}
