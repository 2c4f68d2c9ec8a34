package config

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vnkhanh/checkin-server/models"
)

var DB *gorm.DB

// ConnectDB khởi tạo kết nối DB và migrate bảng.
// DB_DRIVER=postgres cho triển khai server, mặc định sqlite để chạy kiosk
// một máy không cần cấu hình gì.
func ConnectDB() {
	var (
		db  *gorm.DB
		err error
	)

	switch os.Getenv("DB_DRIVER") {
	case "postgres":
		host := os.Getenv("DB_HOST")
		port := os.Getenv("DB_PORT")
		user := os.Getenv("DB_USER")
		password := os.Getenv("DB_PASSWORD")
		dbName := os.Getenv("DB_NAME")

		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Ho_Chi_Minh",
			host, user, password, dbName, port)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "checkin.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	DB = db
	log.Println("Connected to database & migrated successfully")
}

// Migrate tách riêng để test dùng lại trên sqlite in-memory
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Room{},
		&models.Guest{},
		&models.TimeRecord{},
		&models.ExportJob{},
	)
}
