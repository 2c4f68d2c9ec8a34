package controllers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/vnkhanh/checkin-server/config"
	"github.com/vnkhanh/checkin-server/models"
)

func TestCreateGuest(t *testing.T) {
	r := setupServer(t)

	t.Run("đăng ký hợp lệ", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/guests", "", map[string]interface{}{
			"fullName": "Nguyen Van A",
			"age":      25,
			"gender":   "Male",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
		}
		var g models.Guest
		decodeBody(t, w, &g)
		if g.ID == 0 || g.FullName != "Nguyen Van A" {
			t.Errorf("guest = %+v", g)
		}
		if g.TimeIn != nil || g.TimeOut != nil {
			t.Error("khách mới đăng ký đã có giờ vào/ra")
		}
	})

	t.Run("tuổi không dương", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/guests", "", map[string]interface{}{
			"fullName": "B",
			"age":      0,
			"gender":   "Male",
		})
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", w.Code)
		}
	})

	t.Run("room không tồn tại", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/guests", "", map[string]interface{}{
			"fullName": "C",
			"age":      30,
			"gender":   "Female",
			"roomId":   999,
		})
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestListGuests(t *testing.T) {
	r := setupServer(t)
	token := adminToken(t)

	// Không token thì không xem được dashboard
	if w := doJSON(t, r, http.MethodGet, "/api/guests", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", w.Code)
	}

	early := time.Now().Add(-2 * time.Hour)
	late := time.Now().Add(-1 * time.Hour)
	g1 := models.Guest{FullName: "Som", Age: 20, Gender: "Male", TimeIn: &early}
	g2 := models.Guest{FullName: "Muon", Age: 21, Gender: "Female", TimeIn: &late}
	g3 := models.Guest{FullName: "ChuaVao", Age: 22, Gender: "Male"}
	for _, g := range []*models.Guest{&g1, &g2, &g3} {
		if err := config.DB.Create(g).Error; err != nil {
			t.Fatalf("tạo khách: %v", err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/guests", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var guests []models.Guest
	decodeBody(t, w, &guests)
	if len(guests) != 3 {
		t.Fatalf("len = %d, want 3", len(guests))
	}
	// Vào gần nhất xếp trước, chưa vào xếp cuối
	if guests[0].ID != g2.ID || guests[1].ID != g1.ID || guests[2].ID != g3.ID {
		t.Errorf("thứ tự = [%d %d %d], want [%d %d %d]",
			guests[0].ID, guests[1].ID, guests[2].ID, g2.ID, g1.ID, g3.ID)
	}
}

func TestScanEndpoint_Lifecycle(t *testing.T) {
	r := setupServer(t)

	g := models.Guest{FullName: "Nguyen Van A", Age: 25, Gender: "Male"}
	if err := config.DB.Create(&g).Error; err != nil {
		t.Fatalf("tạo khách: %v", err)
	}
	body := map[string]interface{}{
		"id":     g.ID,
		"name":   "Nguyen Van A",
		"age":    25,
		"gender": "Male",
	}

	wantActions := []string{"timeIn", "timeOut", "none"}
	for i, want := range wantActions {
		w := doJSON(t, r, http.MethodPost, "/api/guests/scan", "", body)
		if w.Code != http.StatusOK {
			t.Fatalf("lần %d: status = %d, body %s", i+1, w.Code, w.Body.String())
		}
		var resp struct {
			Action string `json:"action"`
		}
		decodeBody(t, w, &resp)
		if resp.Action != want {
			t.Fatalf("lần %d: action = %s, want %s", i+1, resp.Action, want)
		}
	}

	var count int64
	if err := config.DB.Model(&models.TimeRecord{}).Where("guest_id = ?", g.ID).Count(&count).Error; err != nil {
		t.Fatalf("đếm records: %v", err)
	}
	if count != 2 {
		t.Errorf("records = %d, want 2 (một vào một ra)", count)
	}
}

func TestScanEndpoint_Rejections(t *testing.T) {
	r := setupServer(t)

	g := models.Guest{FullName: "Nguyen Van A", Age: 25, Gender: "Male"}
	if err := config.DB.Create(&g).Error; err != nil {
		t.Fatalf("tạo khách: %v", err)
	}

	t.Run("khách không tồn tại", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/guests/scan", "", map[string]interface{}{
			"id": 999, "name": "X", "age": 1, "gender": "Male",
		})
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("thông tin không khớp", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/guests/scan", "", map[string]interface{}{
			"id": g.ID, "name": "Nguyen Van A", "age": 26, "gender": "Male",
		})
		if w.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", w.Code)
		}
		// Bị từ chối thì không được đụng dữ liệu
		var stored models.Guest
		if err := config.DB.First(&stored, g.ID).Error; err != nil {
			t.Fatalf("đọc lại khách: %v", err)
		}
		if stored.TimeIn != nil {
			t.Error("time-in bị set dù payload không khớp")
		}
	})

	t.Run("body thiếu trường", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/guests/scan", "", map[string]interface{}{
			"id": g.ID,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestAdminTimeOut_Idempotent(t *testing.T) {
	r := setupServer(t)
	token := adminToken(t)

	in := time.Now().Add(-time.Hour)
	g := models.Guest{FullName: "A", Age: 20, Gender: "Male", TimeIn: &in}
	if err := config.DB.Create(&g).Error; err != nil {
		t.Fatalf("tạo khách: %v", err)
	}
	path := fmt.Sprintf("/api/guests/%d/timeout", g.ID)

	w := doJSON(t, r, http.MethodPut, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var first models.Guest
	if err := config.DB.First(&first, g.ID).Error; err != nil {
		t.Fatalf("đọc lại: %v", err)
	}
	if first.TimeOut == nil {
		t.Fatal("time-out chưa được set")
	}

	// Gọi lại trên khách đã DEPARTED: no-op chứ không phải lỗi
	w = doJSON(t, r, http.MethodPut, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("lần 2: status = %d, want 200", w.Code)
	}
	var second models.Guest
	if err := config.DB.First(&second, g.ID).Error; err != nil {
		t.Fatalf("đọc lại: %v", err)
	}
	if !second.TimeOut.Equal(*first.TimeOut) {
		t.Error("time-out bị ghi đè khi gọi lại")
	}

	var count int64
	config.DB.Model(&models.TimeRecord{}).Where("guest_id = ?", g.ID).Count(&count)
	if count != 1 {
		t.Errorf("records = %d, want 1", count)
	}

	// Khách không tồn tại
	if w := doJSON(t, r, http.MethodPut, "/api/guests/999/timeout", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("missing guest: status = %d, want 404", w.Code)
	}
}

func TestAdminTimeIn(t *testing.T) {
	r := setupServer(t)
	token := adminToken(t)

	g := models.Guest{FullName: "A", Age: 20, Gender: "Male"}
	if err := config.DB.Create(&g).Error; err != nil {
		t.Fatalf("tạo khách: %v", err)
	}
	path := fmt.Sprintf("/api/guests/%d/timein", g.ID)

	w := doJSON(t, r, http.MethodPut, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var stored models.Guest
	if err := config.DB.First(&stored, g.ID).Error; err != nil {
		t.Fatalf("đọc lại: %v", err)
	}
	if stored.TimeIn == nil {
		t.Fatal("time-in chưa được set")
	}

	// Đã vào rồi thì thôi, không ghi thêm record
	w = doJSON(t, r, http.MethodPut, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("lần 2: status = %d", w.Code)
	}
	var count int64
	config.DB.Model(&models.TimeRecord{}).Where("guest_id = ?", g.ID).Count(&count)
	if count != 1 {
		t.Errorf("records = %d, want 1", count)
	}
}

func TestGuestQRCode(t *testing.T) {
	r := setupServer(t)

	g := models.Guest{FullName: "Nguyen Van A", Age: 25, Gender: "Male"}
	if err := config.DB.Create(&g).Error; err != nil {
		t.Fatalf("tạo khách: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/guests/%d/qrcode", g.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "image/png") {
		t.Errorf("content-type = %s, want image/png", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("body rỗng")
	}

	if w := doJSON(t, r, http.MethodGet, "/api/guests/999/qrcode", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing guest: status = %d, want 404", w.Code)
	}
}
