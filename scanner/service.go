package scanner

import (
	"context"
	"errors"
	"time"

	"github.com/vnkhanh/checkin-server/models"
)

var (
	// ErrGuestNotFound: không có khách nào mang id trong payload
	ErrGuestNotFound = errors.New("guest not found")
	// ErrGuestMismatch: tên/tuổi/giới tính không khớp hồ sơ đã lưu.
	// Không tin riêng mỗi id, đề phòng payload cũ hoặc bị sửa.
	ErrGuestMismatch = errors.New("guest details do not match")
)

// Action cho biết một sự kiện quét đã làm gì với khách
type Action string

const (
	ActionTimeIn  Action = "timeIn"
	ActionTimeOut Action = "timeOut"
	ActionNone    Action = "none" // đã rời từ trước hoặc thua race, không đổi gì
)

type Result struct {
	Guest  *models.Guest
	Action Action
}

// Service đối chiếu payload quét với hồ sơ khách và chạy máy trạng thái
// NOT_ARRIVED → PRESENT → DEPARTED. Một loại sự kiện duy nhất lái cả hai
// bước: thiết bị quét không phân biệt quét vào hay quét ra.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// HandleScan: parse → match → chuyển trạng thái, cho một chuỗi quét thô
func (s *Service) HandleScan(ctx context.Context, raw string) (Result, error) {
	p, err := ParsePayload(raw)
	if err != nil {
		return Result{}, err
	}
	return s.Process(ctx, p)
}

// Process áp một payload đã parse (từ serial hoặc HTTP) lên khách tương ứng
func (s *Service) Process(ctx context.Context, p Payload) (Result, error) {
	g, err := s.match(ctx, p)
	if err != nil {
		return Result{}, err
	}
	return s.advance(ctx, g)
}

// match tra khách theo id và yêu cầu khớp đúng tuyệt đối cả ba trường còn lại
func (s *Service) match(ctx context.Context, p Payload) (*models.Guest, error) {
	g, err := s.store.GuestByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGuestNotFound
	}
	if g.FullName != p.Name || g.Age != p.Age || g.Gender != p.Gender {
		return nil, ErrGuestMismatch
	}
	return g, nil
}

// advance đi đúng một bước trên máy trạng thái. DEPARTED là trạng thái
// cuối: quét thêm lần nữa không đổi gì và cũng không phải lỗi.
func (s *Service) advance(ctx context.Context, g *models.Guest) (Result, error) {
	now := s.now()
	switch {
	case g.TimeIn == nil:
		ok, err := s.store.MarkTimeIn(ctx, g.ID, now)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{Guest: g, Action: ActionNone}, nil
		}
		g.TimeIn = &now
		return s.record(ctx, g, models.TimeRecordTypeIn, now, ActionTimeIn)
	case g.TimeOut == nil:
		ok, err := s.store.MarkTimeOut(ctx, g.ID, now)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{Guest: g, Action: ActionNone}, nil
		}
		g.TimeOut = &now
		return s.record(ctx, g, models.TimeRecordTypeOut, now, ActionTimeOut)
	default:
		return Result{Guest: g, Action: ActionNone}, nil
	}
}

// TimeInGuest dùng cho thao tác admin: chỉ mở giờ vào cho khách chưa từng
// vào. Khách đang PRESENT hay đã DEPARTED thì giữ nguyên (không có đường
// quay lại từ DEPARTED).
func (s *Service) TimeInGuest(ctx context.Context, guestID uint) (Result, error) {
	g, err := s.store.GuestByID(ctx, guestID)
	if err != nil {
		return Result{}, err
	}
	if g == nil {
		return Result{}, ErrGuestNotFound
	}
	if g.TimeIn != nil {
		return Result{Guest: g, Action: ActionNone}, nil
	}
	now := s.now()
	ok, err := s.store.MarkTimeIn(ctx, g.ID, now)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Guest: g, Action: ActionNone}, nil
	}
	g.TimeIn = &now
	return s.record(ctx, g, models.TimeRecordTypeIn, now, ActionTimeIn)
}

// TimeOutGuest dùng cho thao tác admin. Khách đã DEPARTED là no-op chứ
// không phải lỗi, vì dashboard bấm lại trong lúc polling là chuyện thường.
// Khách chưa vào thì cũng không có gì để đóng.
func (s *Service) TimeOutGuest(ctx context.Context, guestID uint) (Result, error) {
	g, err := s.store.GuestByID(ctx, guestID)
	if err != nil {
		return Result{}, err
	}
	if g == nil {
		return Result{}, ErrGuestNotFound
	}
	if g.TimeIn == nil || g.TimeOut != nil {
		return Result{Guest: g, Action: ActionNone}, nil
	}
	now := s.now()
	ok, err := s.store.MarkTimeOut(ctx, g.ID, now)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Guest: g, Action: ActionNone}, nil
	}
	g.TimeOut = &now
	return s.record(ctx, g, models.TimeRecordTypeOut, now, ActionTimeOut)
}

func (s *Service) record(ctx context.Context, g *models.Guest, typ string, at time.Time, act Action) (Result, error) {
	rec := &models.TimeRecord{
		GuestID:   g.ID,
		RoomID:    g.RoomID,
		Type:      typ,
		Timestamp: at,
	}
	if err := s.store.AppendTimeRecord(ctx, rec); err != nil {
		return Result{}, err
	}
	return Result{Guest: g, Action: act}, nil
}
