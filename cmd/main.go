package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/checkin-server/config"
	"github.com/vnkhanh/checkin-server/controllers"
	"github.com/vnkhanh/checkin-server/routes"
	"github.com/vnkhanh/checkin-server/scanner"
)

func main() {
	// Kết nối DB + AutoMigrate
	config.ConnectDB()

	// Seed admin mặc định nếu chưa có
	if err := controllers.CreateInitialAdmin(); err != nil {
		log.Fatalf("failed to create initial admin: %v", err)
	}

	// Tạo instance router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return origin == "http://localhost:5173"
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	routes.SetupRoutes(r)

	// Mở kết nối thiết bị quét. Không có thiết bị thì server vẫn chạy,
	// sự kiện quét còn đường HTTP POST /api/guests/scan.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var session *scanner.Session
	if os.Getenv("SERIAL_ENABLED") != "false" {
		svc := scanner.NewService(scanner.NewGormStore(config.DB))
		s, err := scanner.OpenSession(svc, os.Getenv("SERIAL_PORT"), log.Default())
		if err != nil {
			log.Printf("serial: không mở được thiết bị quét: %v", err)
		} else {
			session = s
			go session.Run(ctx)
		}
	}

	// Lấy PORT từ biến môi trường
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on port %s\n", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Chờ tín hiệu rồi đóng server + cổng serial cho gọn
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	cancel()
	if session != nil {
		if err := session.Close(); err != nil {
			log.Printf("serial: lỗi khi đóng cổng: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
