package scanner

import (
	"bufio"
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.bug.st/serial"
)

// ErrNoSerialPort: không dò được cổng serial nào trên máy
var ErrNoSerialPort = errors.New("no serial port found")

// scanTimeout chặn một sự kiện quét treo vô hạn khi DB mất kết nối
const scanTimeout = 5 * time.Second

// Session giữ kết nối tới thiết bị quét (Arduino + đầu đọc QR) qua cổng
// serial. Session được tạo ở main và bơm thẳng vào pipeline xử lý,
// không nằm trong biến toàn cục.
type Session struct {
	port   serial.Port
	name   string
	id     string // uuid của phiên kết nối, chỉ dùng trong log
	svc    *Service
	logger *log.Logger
}

// OpenSession dò cổng và mở kết nối 115200 baud.
// Ưu tiên cổng cấu hình qua preferred (SERIAL_PORT), không có thì lấy
// cổng đầu tiên liệt kê được, giống cách kiosk gốc chạy.
func OpenSession(svc *Service, preferred string, logger *log.Logger) (*Session, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}

	name := preferred
	if name == "" {
		if len(ports) == 0 {
			return nil, ErrNoSerialPort
		}
		logger.Printf("serial: các cổng khả dụng: %s", strings.Join(ports, ", "))
		name = ports[0]
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: 115200})
	if err != nil {
		return nil, err
	}

	s := &Session{
		port:   port,
		name:   name,
		id:     uuid.NewString(),
		svc:    svc,
		logger: logger,
	}
	logger.Printf("serial: đã kết nối thiết bị quét tại %s (session %s)", name, s.id)
	return s, nil
}

func (s *Session) Name() string {
	return s.name
}

// Run đọc từng dòng từ thiết bị cho đến khi cổng đóng hoặc ctx hủy.
// Thiết bị gửi tuần tự từng sự kiện nên không cần hàng đợi hay worker.
// Mất kết nối giữa chừng thì vòng đọc dừng; lần khởi động sau sẽ kết
// nối lại, ở đây không có vòng reconnect.
func (s *Session) Run(ctx context.Context) {
	sc := bufio.NewScanner(s.port)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch {
		case line == "ARDUINO_READY":
			s.logger.Printf("serial: thiết bị sẵn sàng")
		case line == "USB_READY":
			s.logger.Printf("serial: USB host shield đã khởi tạo")
		case line == "SCANNER_READY":
			s.logger.Printf("serial: đầu đọc QR sẵn sàng, chờ quét")
		case strings.HasPrefix(line, "QR_SCAN:"):
			s.handleScan(ctx, strings.TrimSpace(strings.TrimPrefix(line, "QR_SCAN:")))
		default:
			s.logger.Printf("serial: bỏ qua dòng lạ: %q", line)
		}
	}
	if err := sc.Err(); err != nil {
		s.logger.Printf("serial: mất kết nối (session %s): %v", s.id, err)
	}
}

// handleScan xử lý một payload quét. Mọi lỗi ở đường này đều là lỗi cuối
// cho sự kiện đó: ghi log, bỏ sự kiện, không retry, không đụng dữ liệu.
func (s *Session) handleScan(ctx context.Context, data string) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	res, err := s.svc.HandleScan(ctx, data)
	switch {
	case errors.Is(err, ErrMalformedPayload):
		s.logger.Printf("serial: mã QR sai định dạng, bỏ qua: %q", data)
	case errors.Is(err, ErrGuestNotFound):
		s.logger.Printf("serial: không tìm thấy khách trong DB, bỏ qua")
	case errors.Is(err, ErrGuestMismatch):
		s.logger.Printf("serial: thông tin khách không khớp hồ sơ, bỏ qua")
	case err != nil:
		s.logger.Printf("serial: lỗi xử lý sự kiện quét: %v", err)
	case res.Action == ActionTimeIn:
		s.logger.Printf("serial: đã ghi giờ vào cho khách #%d (%s)", res.Guest.ID, res.Guest.FullName)
	case res.Action == ActionTimeOut:
		s.logger.Printf("serial: đã ghi giờ ra cho khách #%d (%s)", res.Guest.ID, res.Guest.FullName)
	default:
		s.logger.Printf("serial: khách #%d đã ra từ trước, không ghi gì thêm", res.Guest.ID)
	}
}

// Close đóng cổng serial, gọi khi server shutdown
func (s *Session) Close() error {
	return s.port.Close()
}
