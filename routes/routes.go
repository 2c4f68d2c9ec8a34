package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/checkin-server/controllers"
	"github.com/vnkhanh/checkin-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimitLogin(), controllers.Login)
			auth.GET("/validate", middleware.AuthJWT(), controllers.ValidateToken)
			auth.GET("/check-admin", controllers.CheckAdmin)
		}

		guests := api.Group("/guests")
		{
			// Public: kiosk đăng ký + quét không đăng nhập
			guests.POST("", middleware.RateLimitGuestCreate(), controllers.CreateGuest)
			guests.POST("/scan", controllers.ScanGuest)
			guests.GET("/:id/qrcode", controllers.GuestQRCode)

			// Dashboard admin
			guests.GET("", middleware.AuthJWT(), controllers.ListGuests)
			guests.PUT("/:id/timein", middleware.AuthJWT(), controllers.TimeInGuest)
			guests.PUT("/:id/timeout", middleware.AuthJWT(), controllers.TimeOutGuest)
		}

		rooms := api.Group("/rooms")
		{
			// Public: trang đăng ký của khách tra room theo mã
			rooms.GET("/code/:code", controllers.GetRoomByCode)

			rooms.GET("", middleware.AuthJWT(), controllers.ListRooms)
			rooms.GET("/:id", middleware.AuthJWT(), controllers.GetRoomDetail)
			rooms.POST("", middleware.AuthJWT(), controllers.CreateRoom)
			rooms.DELETE("/:id", middleware.AuthJWT(), controllers.DeleteRoom)
			rooms.PUT("/:id/timeout-all", middleware.AuthJWT(), controllers.TimeOutAllGuests)
			rooms.GET("/:id/stats", middleware.AuthJWT(), controllers.GetRoomStats)
			rooms.POST("/:id/export", middleware.AuthJWT(), controllers.CreateExport)
		}

		api.GET("/exports/:job_id", middleware.AuthJWT(), controllers.GetExport)
	}
}
