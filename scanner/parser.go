package scanner

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrMalformedPayload: chuỗi quét không đúng định dạng in trong mã QR
var ErrMalformedPayload = errors.New("malformed scan payload")

// Định dạng cố định của payload đăng ký, giống hệt chuỗi đem đi in QR
var payloadRe = regexp.MustCompile(`ID: (\d+), Name: ([^,]+), Age: (\d+), Gender: ([^,]+)`)

// Payload là dữ liệu danh tính đọc được từ một lần quét
type Payload struct {
	ID     uint
	Name   string
	Age    int
	Gender string
}

// ParsePayload tách {id, name, age, gender} từ chuỗi quét.
// Sai cấu trúc trả ErrMalformedPayload và sự kiện bị bỏ, không tra DB.
func ParsePayload(s string) (Payload, error) {
	m := payloadRe.FindStringSubmatch(s)
	if m == nil {
		return Payload{}, ErrMalformedPayload
	}
	id, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return Payload{}, ErrMalformedPayload
	}
	age, err := strconv.Atoi(m[3])
	if err != nil {
		return Payload{}, ErrMalformedPayload
	}
	return Payload{ID: uint(id), Name: m[2], Age: age, Gender: m[4]}, nil
}

// FormatPayload dựng chuỗi chuẩn để in vào mã QR khi đăng ký
func FormatPayload(id uint, name string, age int, gender string) string {
	return fmt.Sprintf("ID: %d, Name: %s, Age: %d, Gender: %s", id, name, age, gender)
}
