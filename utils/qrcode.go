package utils

import qrcode "github.com/skip2/go-qrcode"

// GuestQRCode render payload đăng ký của khách thành ảnh PNG vuông.
// Chuỗi này chính là thứ đầu đọc sẽ trả về khi quét.
func GuestQRCode(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}
