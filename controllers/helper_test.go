package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/checkin-server/config"
	"github.com/vnkhanh/checkin-server/controllers"
	"github.com/vnkhanh/checkin-server/models"
	"github.com/vnkhanh/checkin-server/routes"
	"github.com/vnkhanh/checkin-server/utils"
)

// setupServer dựng router thật trên sqlite in-memory.
// config.DB là biến toàn cục nên các test controller không chạy song song.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("mở sqlite in-memory: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("lấy sql.DB: %v", err)
	}
	// sqlite in-memory sống theo connection
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

// adminToken seed admin mặc định và phát token cho nó
func adminToken(t *testing.T) string {
	t.Helper()
	if err := controllers.CreateInitialAdmin(); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	var admin models.Admin
	if err := config.DB.Where("username = ?", "admin").First(&admin).Error; err != nil {
		t.Fatalf("đọc admin: %v", err)
	}
	token, err := utils.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		t.Fatalf("phát token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, r http.Handler, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}
